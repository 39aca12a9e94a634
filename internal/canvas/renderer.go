package canvas

import "github.com/ayusman/airsketch/internal/input"

// Renderer is the Idle/Stroking state machine for one input source. The first
// active sample starts a path, later active samples draw the segment from the
// previous point, and an inactive sample ends the path.
type Renderer struct {
	surface  *Surface
	stroking bool
	last     Point
}

// NewRenderer creates a Renderer drawing onto s.
func NewRenderer(s *Surface) *Renderer {
	return &Renderer{surface: s}
}

// Stroking reports whether a stroke is in progress.
func (r *Renderer) Stroking() bool {
	return r.stroking
}

// Handle advances the state machine with one sample and reports whether a
// stroke ended, in which case the caller should record a history snapshot.
func (r *Renderer) Handle(sample input.PointerSample, brush Brush) (ended bool) {
	if !sample.Active {
		return r.End()
	}

	p := Point{X: sample.X, Y: sample.Y}
	if !r.stroking {
		r.stroking = true
		r.last = p
		return false
	}

	r.surface.StrokeSegment(r.last, p, brush)
	r.last = p
	return false
}

// End finishes the current stroke, reporting whether one was in progress.
func (r *Renderer) End() bool {
	if !r.stroking {
		return false
	}
	r.stroking = false
	return true
}
