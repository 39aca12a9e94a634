// Package hittest lets a pointer "tap" on-screen controls by hovering over them.
package hittest

import (
	"time"

	"github.com/ayusman/airsketch/internal/input"
)

// DefaultCooldown is the minimum time between two dispatches.
const DefaultCooldown = 500 * time.Millisecond

// Rect is a control's bounding box in screen coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// ControlRegion is the hit area of an interactive control. A region without
// a CommandID triggers the control's default activation instead.
type ControlRegion struct {
	Name      string `json:"name"`
	CommandID string `json:"command,omitempty"`
	Bounds    Rect   `json:"bounds"`
	// Detached marks a control whose geometry could not be read.
	Detached bool `json:"detached,omitempty"`
}

// Handler receives the effect of a hit.
type Handler interface {
	HandleCommand(id string)
	ActivateControl(name string)
}

// Dispatcher fires at most one round of hits per cooldown window. The
// cooldown is global, not per region.
type Dispatcher struct {
	handler    Handler
	cooldown   time.Duration
	firstMatch bool
	now        func() time.Time
	lastFired  time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.cooldown = d }
}

// WithFirstMatch stops at the first hit region instead of firing every
// overlapping region.
func WithFirstMatch(enabled bool) Option {
	return func(disp *Dispatcher) { disp.firstMatch = enabled }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(disp *Dispatcher) { disp.now = now }
}

// NewDispatcher creates a Dispatcher delivering hits to h.
func NewDispatcher(h Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handler:  h,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch hit-tests sample against regions and returns how many regions
// fired. The sample is converted from canvas pixels to screen coordinates
// with v. Nothing fires while the cooldown from the last hit is running, and
// the cooldown restarts only when something was hit.
func (d *Dispatcher) Dispatch(sample input.PointerSample, v input.Viewport, regions []ControlRegion) int {
	now := d.now()
	if !d.lastFired.IsZero() && now.Sub(d.lastFired) < d.cooldown {
		return 0
	}

	x, y := v.ToScreen(sample.X, sample.Y)

	fired := 0
	for _, r := range regions {
		if r.Detached || !r.Bounds.Contains(x, y) {
			continue
		}

		if r.CommandID != "" {
			d.handler.HandleCommand(r.CommandID)
		} else {
			d.handler.ActivateControl(r.Name)
		}
		fired++

		if d.firstMatch {
			break
		}
	}

	if fired > 0 {
		d.lastFired = now
	}
	return fired
}
