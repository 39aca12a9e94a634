// Package input converts landmark frames and touch events into a single
// canonical pointer stream in canvas-pixel space.
package input

import "github.com/ayusman/airsketch/internal/detector"

// PointerSample is one pointer position in canvas pixels. Active false means
// "pointer up".
type PointerSample struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
}

// Rect is the on-screen box the canvas is displayed in.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport relates canvas pixels to screen coordinates.
type Viewport struct {
	CanvasWidth  int  `json:"canvas_width"`
	CanvasHeight int  `json:"canvas_height"`
	Display      Rect `json:"display"`
}

// NewViewport returns a viewport that displays the canvas unscaled at the
// screen origin.
func NewViewport(width, height int) Viewport {
	return Viewport{
		CanvasWidth:  width,
		CanvasHeight: height,
		Display:      Rect{Width: float64(width), Height: float64(height)},
	}
}

// scale returns display size over canvas size per axis. A degenerate
// viewport maps 1:1.
func (v Viewport) scale() (float64, float64) {
	if v.CanvasWidth <= 0 || v.CanvasHeight <= 0 || v.Display.Width <= 0 || v.Display.Height <= 0 {
		return 1, 1
	}
	return v.Display.Width / float64(v.CanvasWidth), v.Display.Height / float64(v.CanvasHeight)
}

// ToScreen converts a canvas-pixel position to screen coordinates.
func (v Viewport) ToScreen(x, y float64) (float64, float64) {
	sx, sy := v.scale()
	return v.Display.Left + x*sx, v.Display.Top + y*sy
}

// FromClient converts a screen (viewport) position to canvas pixels.
func (v Viewport) FromClient(x, y float64) (float64, float64) {
	sx, sy := v.scale()
	return (x - v.Display.Left) / sx, (y - v.Display.Top) / sy
}

// TouchPhase identifies a touch event type.
type TouchPhase string

const (
	TouchStart  TouchPhase = "start"
	TouchMove   TouchPhase = "move"
	TouchEnd    TouchPhase = "end"
	TouchCancel TouchPhase = "cancel"
)

// TouchPoint is one contact point in viewport coordinates.
type TouchPoint struct {
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}

// TouchEvent is a native touch event. Only the first contact is used.
type TouchEvent struct {
	Phase   TouchPhase   `json:"phase"`
	Touches []TouchPoint `json:"touches"`
}

// LandmarkSample is the pointer derived from a detector frame together with
// the hand it came from. Hand is nil when no hand was detected.
type LandmarkSample struct {
	Pointer PointerSample
	Hand    *detector.HandLandmarks
}

// Normalizer maps raw input into canvas space using the current viewport.
type Normalizer struct {
	Viewport Viewport
}

// NewNormalizer creates a Normalizer for the given viewport.
func NewNormalizer(v Viewport) *Normalizer {
	return &Normalizer{Viewport: v}
}

// Landmarks converts a detector frame. Only the first hand is used. The x axis
// is mirrored because the preview shown to the user is mirrored relative to
// the camera. Without a hand the sample is inactive.
func (n *Normalizer) Landmarks(frame *detector.Frame) LandmarkSample {
	hand := frame.FirstHand()
	if hand == nil {
		return LandmarkSample{}
	}

	tip := hand.Fingertip()
	return LandmarkSample{
		Pointer: PointerSample{
			X:      (1 - tip.X) * float64(n.Viewport.CanvasWidth),
			Y:      tip.Y * float64(n.Viewport.CanvasHeight),
			Active: true,
		},
		Hand: hand,
	}
}

// Touch converts a touch event. Start and move events produce an active
// sample at the first contact; end and cancel produce an inactive one.
// ok is false for events that carry no usable contact.
func (n *Normalizer) Touch(ev TouchEvent) (PointerSample, bool) {
	switch ev.Phase {
	case TouchEnd, TouchCancel:
		return PointerSample{}, true
	case TouchStart, TouchMove:
		if len(ev.Touches) == 0 {
			return PointerSample{}, false
		}
		x, y := n.Viewport.FromClient(ev.Touches[0].ClientX, ev.Touches[0].ClientY)
		return PointerSample{X: x, Y: y, Active: true}, true
	default:
		return PointerSample{}, false
	}
}
