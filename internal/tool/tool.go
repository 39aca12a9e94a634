// Package tool holds the drawing tool state: color, brush and eraser sizes,
// eraser mode and the global draw toggle.
package tool

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"cogentcore.org/core/colors"
	"golang.org/x/image/colornames"

	"github.com/ayusman/airsketch/internal/canvas"
)

// Preference keys and defaults.
const (
	KeyBrushSize  = "brushSize"
	KeyEraserSize = "eraserSize"

	DefaultBrushSize  = 5
	DefaultEraserSize = 20
	DefaultColor      = "red"

	// MaxSize is the largest accepted tool size in pixels.
	MaxSize = 200
)

var (
	// ErrInvalidSize is returned for tool sizes outside 1..MaxSize.
	ErrInvalidSize = errors.New("invalid tool size")
	// ErrInvalidColor is returned for unknown color names or malformed hex values.
	ErrInvalidColor = errors.New("invalid color")
)

// Preferences is the durable key-value store for tool sizes.
type Preferences interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// State is a copy of the tool state.
type State struct {
	Color       color.NRGBA `json:"-"`
	ColorHex    string      `json:"color"`
	Swatch      string      `json:"swatch,omitempty"` // named swatch, empty for custom colors
	BrushSize   int         `json:"brush_size"`
	EraserSize  int         `json:"eraser_size"`
	Eraser      bool        `json:"eraser"`
	DrawEnabled bool        `json:"draw_enabled"`
}

// Size returns the size of the active tool.
func (s State) Size() int {
	if s.Eraser {
		return s.EraserSize
	}
	return s.BrushSize
}

// Brush returns the canvas brush for the active tool.
func (s State) Brush() canvas.Brush {
	if s.Eraser {
		return canvas.Brush{Color: color.Black, Width: float64(s.EraserSize), Mode: canvas.Erase}
	}
	return canvas.Brush{Color: s.Color, Width: float64(s.BrushSize), Mode: canvas.Paint}
}

// Preview describes the derived UI for the current tool.
type Preview struct {
	Size         int    `json:"size"`
	BorderColor  string `json:"border_color"`
	ActiveSwatch string `json:"active_swatch,omitempty"`
	EraserActive bool   `json:"eraser_active"`
	SliderValue  int    `json:"slider_value"`
	DrawEnabled  bool   `json:"draw_enabled"`
	DrawLabel    string `json:"draw_label"`
}

// Manager owns the tool state and persists sizes to Preferences.
// It is not safe for concurrent use.
type Manager struct {
	state State
	prefs Preferences
}

// NewManager loads sizes from prefs (nil for none) and selects the default
// color with drawing enabled.
func NewManager(prefs Preferences) *Manager {
	m := &Manager{
		prefs: prefs,
		state: State{
			BrushSize:   loadSize(prefs, KeyBrushSize, DefaultBrushSize),
			EraserSize:  loadSize(prefs, KeyEraserSize, DefaultEraserSize),
			DrawEnabled: true,
		},
	}
	m.SelectColor(DefaultColor)
	return m
}

// loadSize reads a size preference, falling back to def when it is missing
// or not a valid size.
func loadSize(prefs Preferences, key string, def int) int {
	if prefs == nil {
		return def
	}
	raw, err := prefs.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 || n > MaxSize {
		return def
	}
	return n
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	return m.state
}

// Brush returns the brush for the active tool.
func (m *Manager) Brush() canvas.Brush {
	return m.state.Brush()
}

// SelectColor selects a named swatch and switches to paint mode.
func (m *Manager) SelectColor(name string) error {
	rgba, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidColor, name)
	}
	m.setPaint(color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: 255}, strings.ToLower(name))
	return nil
}

// SelectCustomColor selects a "#rgb", "#rrggbb" or "#rrggbbaa" color and
// switches to paint mode. No swatch is marked active.
func (m *Manager) SelectCustomColor(hex string) error {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	// colors.FromHex reads invalid digits as zero.
	if h == "" || strings.Trim(h, hexDigits) != "" {
		return fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	c, err := colors.FromHex(h)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	m.setPaint(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, "")
	return nil
}

const hexDigits = "0123456789abcdefABCDEF"

func (m *Manager) setPaint(c color.NRGBA, swatch string) {
	m.state.Color = c
	m.state.ColorHex = formatHex(c)
	m.state.Swatch = swatch
	m.state.Eraser = false
}

// ToggleEraser flips between erase and paint mode and returns the new mode.
func (m *Manager) ToggleEraser() bool {
	m.state.Eraser = !m.state.Eraser
	return m.state.Eraser
}

// ToggleDrawEnabled flips the global draw toggle and returns the new value.
func (m *Manager) ToggleDrawEnabled() bool {
	m.state.DrawEnabled = !m.state.DrawEnabled
	return m.state.DrawEnabled
}

// SetToolSize sets the size of the active tool and persists it under the
// tool's own key. The state is updated even if persisting fails.
func (m *Manager) SetToolSize(n int) error {
	if n <= 0 || n > MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	key := KeyBrushSize
	if m.state.Eraser {
		m.state.EraserSize = n
		key = KeyEraserSize
	} else {
		m.state.BrushSize = n
	}

	if m.prefs == nil {
		return nil
	}
	if err := m.prefs.Set(key, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Preview returns the derived UI state. The active swatch is hidden while
// erasing so only one mode ever appears selected.
func (m *Manager) Preview() Preview {
	s := m.state
	p := Preview{
		Size:         s.Size(),
		BorderColor:  s.ColorHex,
		EraserActive: s.Eraser,
		SliderValue:  s.Size(),
		DrawEnabled:  s.DrawEnabled,
		DrawLabel:    "Draw: ON",
	}
	if s.Eraser {
		p.BorderColor = "#ffffff"
	} else {
		p.ActiveSwatch = s.Swatch
	}
	if !s.DrawEnabled {
		p.DrawLabel = "Draw: OFF"
	}
	return p
}

// formatHex formats c as "#rrggbb".
func formatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
