package tool

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ayusman/airsketch/internal/canvas"
)

var errMissing = errors.New("missing")

type memPrefs struct {
	values map[string]string
	setErr error
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (p *memPrefs) Get(key string) (string, error) {
	v, ok := p.values[key]
	if !ok {
		return "", errMissing
	}
	return v, nil
}

func (p *memPrefs) Set(key, value string) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.values[key] = value
	return nil
}

func TestNewManager_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		values     map[string]string
		wantBrush  int
		wantEraser int
	}{
		{name: "nothing stored", values: nil, wantBrush: 5, wantEraser: 20},
		{name: "stored values", values: map[string]string{"brushSize": "12", "eraserSize": "40"}, wantBrush: 12, wantEraser: 40},
		{name: "invalid values", values: map[string]string{"brushSize": "abc", "eraserSize": "-3"}, wantBrush: 5, wantEraser: 20},
		{name: "zero", values: map[string]string{"brushSize": "0", "eraserSize": "0"}, wantBrush: 5, wantEraser: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := newMemPrefs()
			for k, v := range tt.values {
				prefs.values[k] = v
			}

			s := NewManager(prefs).State()

			if s.BrushSize != tt.wantBrush {
				t.Errorf("BrushSize = %d, want %d", s.BrushSize, tt.wantBrush)
			}
			if s.EraserSize != tt.wantEraser {
				t.Errorf("EraserSize = %d, want %d", s.EraserSize, tt.wantEraser)
			}
			if !s.DrawEnabled {
				t.Error("drawing should start enabled")
			}
			if s.Swatch != "red" || s.Eraser {
				t.Errorf("expected red paint mode at start, got swatch=%q eraser=%v", s.Swatch, s.Eraser)
			}
		})
	}

	t.Run("nil preferences", func(t *testing.T) {
		s := NewManager(nil).State()
		if s.BrushSize != DefaultBrushSize || s.EraserSize != DefaultEraserSize {
			t.Errorf("expected defaults, got %d/%d", s.BrushSize, s.EraserSize)
		}
	})
}

func TestManager_PaintEraseExclusive(t *testing.T) {
	m := NewManager(nil)
	if err := m.SelectColor("blue"); err != nil {
		t.Fatalf("SelectColor() error = %v", err)
	}

	m.ToggleEraser()
	p := m.Preview()
	if !p.EraserActive || p.ActiveSwatch != "" {
		t.Errorf("eraser on should hide the swatch, got %+v", p)
	}
	if m.Brush().Mode != canvas.Erase {
		t.Error("expected erase composite mode")
	}
	if p.BorderColor != "#ffffff" {
		t.Errorf("expected white border while erasing, got %s", p.BorderColor)
	}

	if err := m.SelectColor("yellow"); err != nil {
		t.Fatalf("SelectColor() error = %v", err)
	}
	p = m.Preview()
	if p.EraserActive || p.ActiveSwatch != "yellow" {
		t.Errorf("selecting a color should leave erase mode, got %+v", p)
	}
	if m.Brush().Mode != canvas.Paint {
		t.Error("expected paint composite mode")
	}
}

func TestManager_ToggleEraserRestoresSwatch(t *testing.T) {
	m := NewManager(nil)
	m.SelectColor("blue")

	m.ToggleEraser()
	m.ToggleEraser()

	if got := m.Preview().ActiveSwatch; got != "blue" {
		t.Errorf("expected blue swatch after leaving eraser, got %q", got)
	}
}

func TestManager_SelectCustomColor(t *testing.T) {
	m := NewManager(nil)

	if err := m.SelectCustomColor("#10a0ff"); err != nil {
		t.Fatalf("SelectCustomColor() error = %v", err)
	}

	s := m.State()
	if s.Color != (color.NRGBA{R: 0x10, G: 0xa0, B: 0xff, A: 255}) {
		t.Errorf("unexpected color %+v", s.Color)
	}
	if s.Swatch != "" {
		t.Errorf("custom color should not mark a swatch, got %q", s.Swatch)
	}
	if m.Preview().BorderColor != "#10a0ff" {
		t.Errorf("unexpected border %s", m.Preview().BorderColor)
	}

	if err := m.SelectCustomColor("#12"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if err := m.SelectColor("not-a-color"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
}

func TestManager_SetToolSize(t *testing.T) {
	t.Run("brush size persists under brush key", func(t *testing.T) {
		prefs := newMemPrefs()
		m := NewManager(prefs)

		if err := m.SetToolSize(9); err != nil {
			t.Fatalf("SetToolSize() error = %v", err)
		}

		if m.State().BrushSize != 9 || prefs.values[KeyBrushSize] != "9" {
			t.Errorf("expected brush size 9 persisted, got state=%d stored=%q", m.State().BrushSize, prefs.values[KeyBrushSize])
		}
		if _, ok := prefs.values[KeyEraserSize]; ok {
			t.Error("eraser size should not be written")
		}
	})

	t.Run("eraser size persists under eraser key", func(t *testing.T) {
		prefs := newMemPrefs()
		m := NewManager(prefs)
		m.ToggleEraser()

		if err := m.SetToolSize(33); err != nil {
			t.Fatalf("SetToolSize() error = %v", err)
		}

		if m.State().EraserSize != 33 || prefs.values[KeyEraserSize] != "33" {
			t.Errorf("expected eraser size 33 persisted")
		}
		if m.Preview().Size != 33 || m.Preview().SliderValue != 33 {
			t.Errorf("preview should follow the eraser size, got %+v", m.Preview())
		}
		if m.State().BrushSize != DefaultBrushSize {
			t.Errorf("brush size should be untouched, got %d", m.State().BrushSize)
		}
	})

	t.Run("invalid sizes are rejected", func(t *testing.T) {
		m := NewManager(nil)
		for _, n := range []int{0, -1, MaxSize + 1} {
			if err := m.SetToolSize(n); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("SetToolSize(%d) error = %v, want ErrInvalidSize", n, err)
			}
		}
	})

	t.Run("persist failure still updates state", func(t *testing.T) {
		prefs := newMemPrefs()
		prefs.setErr = errors.New("disk full")
		m := NewManager(prefs)

		if err := m.SetToolSize(7); err == nil {
			t.Error("expected persist error")
		}
		if m.State().BrushSize != 7 {
			t.Errorf("expected brush size 7, got %d", m.State().BrushSize)
		}
	})
}

func TestManager_ToggleDrawEnabled(t *testing.T) {
	m := NewManager(nil)

	if m.ToggleDrawEnabled() {
		t.Error("expected drawing disabled after first toggle")
	}
	if p := m.Preview(); p.DrawLabel != "Draw: OFF" || p.DrawEnabled {
		t.Errorf("unexpected preview %+v", p)
	}
	if !m.ToggleDrawEnabled() {
		t.Error("expected drawing enabled after second toggle")
	}
	if p := m.Preview(); p.DrawLabel != "Draw: ON" || !p.DrawEnabled {
		t.Errorf("unexpected preview %+v", p)
	}
}

func TestManager_SelectCustomColorFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantHex string
		wantErr bool
	}{
		{in: "#ff0000", want: color.NRGBA{R: 255, A: 255}, wantHex: "#ff0000"},
		{in: "00ff00", want: color.NRGBA{G: 255, A: 255}, wantHex: "#00ff00"},
		{in: "#abc", want: color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}, wantHex: "#aabbcc"},
		{in: "#10A0FF", want: color.NRGBA{R: 0x10, G: 0xa0, B: 0xff, A: 255}, wantHex: "#10a0ff"},
		{in: "#00000080", want: color.NRGBA{A: 0x80}, wantHex: "#000000"},
		{in: "#gggggg", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := NewManager(nil)
			before := m.State()

			err := m.SelectCustomColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Fatalf("SelectCustomColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				if m.State() != before {
					t.Errorf("invalid color should leave state unchanged, got %+v", m.State())
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectCustomColor(%q) error = %v", tt.in, err)
			}
			if got := m.State(); got.Color != tt.want || got.ColorHex != tt.wantHex {
				t.Errorf("SelectCustomColor(%q) = %+v %s, want %+v %s", tt.in, got.Color, got.ColorHex, tt.want, tt.wantHex)
			}
		})
	}
}
