package app

import (
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/hittest"
	"github.com/ayusman/airsketch/internal/input"
	"github.com/ayusman/airsketch/internal/tool"
)

// Event is an input handled by the event loop.
type Event interface {
	isEvent()
}

// FrameEvent carries one detector result.
type FrameEvent struct {
	Frame detector.Frame
}

// TouchEvent carries one touch event in screen coordinates.
type TouchEvent struct {
	Touch input.TouchEvent
}

// CommandEvent runs a semantic command such as "color-red" or "clear".
type CommandEvent struct {
	ID string
}

// ControlEvent runs the default activation of a named control, as a click on
// it would.
type ControlEvent struct {
	Name string
}

// KeyEvent is a key press. If Reply is set it receives whether the key was
// handled; it must have room for one value.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Reply chan<- bool
}

// LayoutEvent updates where the canvas is displayed and the live control
// regions. A nil Regions keeps the current regions.
type LayoutEvent struct {
	Display input.Rect
	Regions []hittest.ControlRegion
}

// ToolEvent changes the tool size or selects a custom color. Zero values are
// ignored.
type ToolEvent struct {
	Size  int
	Color string
}

// restoreDone applies a finished snapshot decode on the loop.
type restoreDone struct {
	apply func()
}

type callEvent struct {
	fn   func()
	done chan struct{}
}

func (FrameEvent) isEvent()   {}
func (TouchEvent) isEvent()   {}
func (CommandEvent) isEvent() {}
func (ControlEvent) isEvent() {}
func (KeyEvent) isEvent()     {}
func (LayoutEvent) isEvent()  {}
func (ToolEvent) isEvent()    {}
func (restoreDone) isEvent()  {}
func (callEvent) isEvent()    {}

// Notification kinds.
const (
	NotifyStroke  = "stroke"
	NotifyHistory = "history"
	NotifyTool    = "tool"
)

// Notification tells listeners that visible state changed.
type Notification struct {
	Kind string        `json:"kind"`
	Tool *tool.Preview `json:"tool,omitempty"`
	Undo int           `json:"undo"`
	Redo int           `json:"redo"`
}
