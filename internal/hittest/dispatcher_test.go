package hittest

import (
	"testing"
	"time"

	"github.com/ayusman/airsketch/internal/input"
)

type recordingHandler struct {
	commands    []string
	activations []string
}

func (h *recordingHandler) HandleCommand(id string)     { h.commands = append(h.commands, id) }
func (h *recordingHandler) ActivateControl(name string) { h.activations = append(h.activations, name) }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDispatcher(opts ...Option) (*Dispatcher, *recordingHandler, *fakeClock) {
	h := &recordingHandler{}
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.now)}, opts...)
	return NewDispatcher(h, opts...), h, clock
}

var redButton = ControlRegion{
	Name:      "red",
	CommandID: "color-red",
	Bounds:    Rect{Left: 10, Top: 10, Right: 50, Bottom: 40},
}

func TestDispatcher_Cooldown(t *testing.T) {
	v := input.NewViewport(1280, 720)
	sample := input.PointerSample{X: 20, Y: 20, Active: true}

	t.Run("two taps within 500ms fire once", func(t *testing.T) {
		d, h, clock := newTestDispatcher()

		d.Dispatch(sample, v, []ControlRegion{redButton})
		clock.advance(300 * time.Millisecond)
		d.Dispatch(sample, v, []ControlRegion{redButton})

		if len(h.commands) != 1 {
			t.Errorf("expected 1 command, got %d", len(h.commands))
		}
	})

	t.Run("two taps 600ms apart fire twice", func(t *testing.T) {
		d, h, clock := newTestDispatcher()

		d.Dispatch(sample, v, []ControlRegion{redButton})
		clock.advance(600 * time.Millisecond)
		d.Dispatch(sample, v, []ControlRegion{redButton})

		if len(h.commands) != 2 {
			t.Errorf("expected 2 commands, got %d", len(h.commands))
		}
	})

	t.Run("a miss does not start the cooldown", func(t *testing.T) {
		d, h, clock := newTestDispatcher()

		d.Dispatch(input.PointerSample{X: 500, Y: 500}, v, []ControlRegion{redButton})
		clock.advance(10 * time.Millisecond)
		d.Dispatch(sample, v, []ControlRegion{redButton})

		if len(h.commands) != 1 {
			t.Errorf("expected 1 command, got %d", len(h.commands))
		}
	})

	t.Run("cooldown is global across regions", func(t *testing.T) {
		d, h, clock := newTestDispatcher()
		blue := ControlRegion{Name: "blue", CommandID: "color-blue", Bounds: Rect{Left: 100, Top: 10, Right: 140, Bottom: 40}}
		regions := []ControlRegion{redButton, blue}

		d.Dispatch(sample, v, regions)
		clock.advance(100 * time.Millisecond)
		d.Dispatch(input.PointerSample{X: 120, Y: 20}, v, regions)

		if len(h.commands) != 1 || h.commands[0] != "color-red" {
			t.Errorf("expected only color-red, got %v", h.commands)
		}
	})
}

func TestDispatcher_Regions(t *testing.T) {
	v := input.NewViewport(1280, 720)

	t.Run("region without command activates the control", func(t *testing.T) {
		d, h, _ := newTestDispatcher()
		eraser := ControlRegion{Name: "eraser", Bounds: Rect{Left: 0, Top: 0, Right: 30, Bottom: 30}}

		d.Dispatch(input.PointerSample{X: 15, Y: 15}, v, []ControlRegion{eraser})

		if len(h.activations) != 1 || h.activations[0] != "eraser" {
			t.Errorf("expected eraser activation, got %v", h.activations)
		}
		if len(h.commands) != 0 {
			t.Errorf("expected no commands, got %v", h.commands)
		}
	})

	t.Run("detached region is skipped", func(t *testing.T) {
		d, h, _ := newTestDispatcher()
		detached := redButton
		detached.Detached = true

		n := d.Dispatch(input.PointerSample{X: 20, Y: 20}, v, []ControlRegion{detached})

		if n != 0 || len(h.commands) != 0 {
			t.Errorf("expected detached region to be skipped, fired %d", n)
		}
	})

	t.Run("overlapping regions all fire", func(t *testing.T) {
		d, h, _ := newTestDispatcher()
		overlap := ControlRegion{Name: "clear", CommandID: "clear", Bounds: Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}}

		n := d.Dispatch(input.PointerSample{X: 20, Y: 20}, v, []ControlRegion{redButton, overlap})

		if n != 2 || len(h.commands) != 2 {
			t.Errorf("expected both regions to fire, got %v", h.commands)
		}
	})

	t.Run("first match wins when enabled", func(t *testing.T) {
		d, h, _ := newTestDispatcher(WithFirstMatch(true))
		overlap := ControlRegion{Name: "clear", CommandID: "clear", Bounds: Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}}

		n := d.Dispatch(input.PointerSample{X: 20, Y: 20}, v, []ControlRegion{redButton, overlap})

		if n != 1 || len(h.commands) != 1 || h.commands[0] != "color-red" {
			t.Errorf("expected only color-red, got %v", h.commands)
		}
	})

	t.Run("sample is scaled into screen space", func(t *testing.T) {
		d, h, _ := newTestDispatcher()
		scaled := input.Viewport{
			CanvasWidth:  1280,
			CanvasHeight: 720,
			Display:      input.Rect{Left: 0, Top: 0, Width: 640, Height: 360},
		}

		// canvas (40, 40) displays at screen (20, 20), inside the red button
		d.Dispatch(input.PointerSample{X: 40, Y: 40}, scaled, []ControlRegion{redButton})

		if len(h.commands) != 1 {
			t.Errorf("expected scaled sample to hit, got %v", h.commands)
		}
	})
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}

	tests := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{0, 0, true},
		{10, 10, true},
		{10.1, 5, false},
		{-1, 5, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
