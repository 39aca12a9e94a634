package app

import (
	"errors"
	"log"
	"strings"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/input"
	"github.com/ayusman/airsketch/internal/tool"
)

// Semantic commands carried by control regions.
const (
	CommandColorRed    = "color-red"
	CommandColorBlue   = "color-blue"
	CommandColorYellow = "color-yellow"
	CommandClear       = "clear"
)

// Controls with a default activation.
const (
	ControlEraser     = "eraser"
	ControlToggleDraw = "toggle-draw"
	ControlUndo       = "undo"
	ControlRedo       = "redo"
)

// handle runs on the event loop.
func (a *App) handle(ev Event) {
	switch ev := ev.(type) {
	case FrameEvent:
		a.handleFrame(&ev.Frame)
	case TouchEvent:
		a.handleTouch(ev.Touch)
	case CommandEvent:
		a.command(ev.ID)
	case ControlEvent:
		a.activate(ev.Name)
	case KeyEvent:
		handled := a.key(ev.Key, ev.Ctrl)
		if ev.Reply != nil {
			ev.Reply <- handled
		}
	case LayoutEvent:
		a.normalizer.Viewport.Display = ev.Display
		if ev.Regions != nil {
			a.regions = ev.Regions
		}
	case ToolEvent:
		a.applyTool(ev)
	case restoreDone:
		ev.apply()
	case callEvent:
		ev.fn()
		close(ev.done)
	default:
		log.Printf("Unknown event type %T", ev)
	}
}

// handleFrame hit-tests the fingertip against the controls, then feeds the
// hand renderer. Losing the hand ends the stroke.
func (a *App) handleFrame(frame *detector.Frame) {
	sample := a.normalizer.Landmarks(frame)
	if sample.Hand == nil {
		a.stroke(a.hand, input.PointerSample{})
		return
	}

	a.dispatcher.Dispatch(sample.Pointer, a.normalizer.Viewport, a.regions)

	p := sample.Pointer
	p.Active = a.classifier.DrawIntent(sample.Hand, a.tools.State().DrawEnabled)
	a.stroke(a.hand, p)
}

// handleTouch feeds the touch renderer. Touch drawing ignores the draw
// toggle, which only gates gesture drawing.
func (a *App) handleTouch(ev input.TouchEvent) {
	sample, ok := a.normalizer.Touch(ev)
	if !ok {
		return
	}
	a.stroke(a.touch, sample)
}

func (a *App) stroke(r *canvas.Renderer, s input.PointerSample) {
	if s.Active && !r.Stroking() {
		// A restore still in flight would land on top of the new stroke.
		a.history.Settle()
	}
	if r.Handle(s, a.tools.Brush()) {
		a.commit()
	}
}

func (a *App) commit() {
	if err := a.history.Record(); err != nil {
		log.Printf("Failed to record canvas state: %v", err)
		return
	}
	a.notifyHistory(NotifyStroke)
}

// endStrokes finishes strokes from both sources, committing each.
func (a *App) endStrokes() {
	for _, r := range []*canvas.Renderer{a.hand, a.touch} {
		if r.End() {
			a.commit()
		}
	}
}

// command runs a semantic command. Unknown ids are ignored.
func (a *App) command(id string) {
	switch id {
	case CommandColorRed:
		a.selectColor("red")
	case CommandColorBlue:
		a.selectColor("blue")
	case CommandColorYellow:
		a.selectColor("yellow")
	case CommandClear:
		a.clear()
	default:
		log.Printf("Ignoring unknown command %q", id)
	}
}

// activate runs the default activation of a control.
func (a *App) activate(name string) {
	switch name {
	case ControlEraser:
		a.tools.ToggleEraser()
		a.notifyTool()
	case ControlToggleDraw:
		a.toggleDraw()
	case ControlUndo:
		a.undo()
	case ControlRedo:
		a.redo()
	default:
		if strings.HasPrefix(name, "color-") || name == CommandClear {
			a.command(name)
			return
		}
		log.Printf("Ignoring activation of unknown control %q", name)
	}
}

// key handles keyboard shortcuts: p toggles drawing, Ctrl+Z undoes and
// Ctrl+Y redoes.
func (a *App) key(key string, ctrl bool) bool {
	k := strings.ToLower(key)
	handled := false

	if k == "p" {
		a.toggleDraw()
		handled = true
	}
	if ctrl && k == "z" {
		a.undo()
		handled = true
	}
	if ctrl && k == "y" {
		a.redo()
		handled = true
	}
	return handled
}

func (a *App) applyTool(ev ToolEvent) {
	if ev.Color != "" {
		if err := a.tools.SelectCustomColor(ev.Color); err != nil {
			log.Printf("Ignoring color change: %v", err)
		}
	}
	if ev.Size != 0 {
		if err := a.tools.SetToolSize(ev.Size); err != nil {
			if errors.Is(err, tool.ErrInvalidSize) {
				log.Printf("Ignoring size change: %v", err)
			} else {
				log.Printf("Failed to save tool size: %v", err)
			}
		}
	}
	a.notifyTool()
}

func (a *App) selectColor(name string) {
	if err := a.tools.SelectColor(name); err != nil {
		log.Printf("Failed to select color: %v", err)
		return
	}
	a.notifyTool()
}

func (a *App) toggleDraw() {
	if !a.tools.ToggleDrawEnabled() {
		// A stroke must not outlive the toggle.
		if a.hand.End() {
			a.commit()
		}
	}
	a.notifyTool()
}

func (a *App) clear() {
	a.endStrokes()
	if err := a.history.Clear(); err != nil {
		log.Printf("Failed to clear canvas: %v", err)
		return
	}
	a.notifyHistory(NotifyHistory)
}

func (a *App) undo() {
	a.endStrokes()
	if a.history.Undo() {
		a.notifyHistory(NotifyHistory)
	}
}

func (a *App) redo() {
	a.endStrokes()
	if a.history.Redo() {
		a.notifyHistory(NotifyHistory)
	}
}

func (a *App) notifyHistory(kind string) {
	undo, redo := a.history.Depth()
	a.notify(Notification{Kind: kind, Undo: undo, Redo: redo})
}

func (a *App) notifyTool() {
	p := a.tools.Preview()
	undo, redo := a.history.Depth()
	a.notify(Notification{Kind: NotifyTool, Tool: &p, Undo: undo, Redo: redo})
}

// controlHandler routes dispatcher hits back into the loop-side handlers.
type controlHandler struct {
	a *App
}

func (h controlHandler) HandleCommand(id string)     { h.a.command(id) }
func (h controlHandler) ActivateControl(name string) { h.a.activate(name) }
