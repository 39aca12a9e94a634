// Package tray provides a system tray menu for the AirSketch drawing app.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Actions are the callbacks behind the tray menu. Nil callbacks are skipped.
type Actions struct {
	ToggleDraw func()
	Undo       func()
	Redo       func()
	Clear      func()
	Open       func()
	Quit       func()
}

// Tray represents the system tray application.
type Tray struct {
	actions     Actions
	drawEnabled bool
	undo, redo  int
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuDraw *systray.MenuItem
	menuUndo *systray.MenuItem
	menuRedo *systray.MenuItem
}

// New creates a new Tray with drawing enabled.
func New(actions Actions) *Tray {
	return &Tray{
		actions:     actions,
		drawEnabled: true,
	}
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("AirSketch")
	systray.SetTooltip("AirSketch gesture drawing")

	t.mu.Lock()
	t.menuDraw = systray.AddMenuItem(drawTitle(t.drawEnabled), "Toggle gesture drawing")
	systray.AddSeparator()
	t.menuUndo = systray.AddMenuItem("Undo", "Undo the last stroke")
	t.menuRedo = systray.AddMenuItem("Redo", "Redo the last undone stroke")
	menuClear := systray.AddMenuItem("Clear", "Clear the canvas")
	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the drawing page")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit AirSketch")
	t.refreshHistory()
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuDraw.ClickedCh:
				t.call(t.actions.ToggleDraw)
			case <-t.menuUndo.ClickedCh:
				t.call(t.actions.Undo)
			case <-t.menuRedo.ClickedCh:
				t.call(t.actions.Redo)
			case <-menuClear.ClickedCh:
				t.call(t.actions.Clear)
			case <-menuOpen.ClickedCh:
				t.call(t.actions.Open)
			case <-menuQuit.ClickedCh:
				t.call(t.actions.Quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func (t *Tray) call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetDrawEnabled updates the draw toggle title.
func (t *Tray) SetDrawEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.drawEnabled = enabled
	if t.menuDraw != nil {
		t.menuDraw.SetTitle(drawTitle(enabled))
	}
}

// SetHistory enables the undo and redo items according to the history depth.
func (t *Tray) SetHistory(undo, redo int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.undo, t.redo = undo, redo
	t.refreshHistory()
}

// refreshHistory must be called with mu held.
func (t *Tray) refreshHistory() {
	if t.menuUndo == nil || t.menuRedo == nil {
		return
	}
	setEnabled(t.menuUndo, t.undo > 0)
	setEnabled(t.menuRedo, t.redo > 0)
}

// DrawEnabled returns the last known draw toggle state.
func (t *Tray) DrawEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.drawEnabled
}

// History returns the last known undo and redo depth.
func (t *Tray) History() (undo, redo int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.undo, t.redo
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

func drawTitle(enabled bool) string {
	if enabled {
		return "● Draw: ON"
	}
	return "○ Draw: OFF"
}
