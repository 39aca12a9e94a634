package api

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/input"
	"github.com/ayusman/airsketch/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// newTestApp creates a running app with no camera.
func newTestApp(t *testing.T, prefs *store.Store) *app.App {
	t.Helper()

	cfg := app.Config{
		CameraID: -1,
		Detector: detector.NewMockDetector(),
		Width:    100,
		Height:   60,
	}
	if prefs != nil {
		cfg.Preferences = prefs.Settings()
	}

	a, err := app.New(cfg)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return a
}

// drawLine draws a committed horizontal touch stroke at canvas row y.
func drawLine(t *testing.T, a *app.App, y float64) {
	t.Helper()

	events := []app.Event{
		app.TouchEvent{Touch: touch(input.TouchStart, 10, y)},
		app.TouchEvent{Touch: touch(input.TouchMove, 90, y)},
		app.TouchEvent{Touch: touch(input.TouchEnd, 0, 0)},
	}
	for _, ev := range events {
		if err := a.Post(ev); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}
	if _, _, err := a.Depth(context.Background()); err != nil {
		t.Fatalf("Depth() error = %v", err)
	}
}

func touch(phase input.TouchPhase, x, y float64) input.TouchEvent {
	ev := input.TouchEvent{Phase: phase}
	if phase == input.TouchStart || phase == input.TouchMove {
		ev.Touches = []input.TouchPoint{{ClientX: x, ClientY: y}}
	}
	return ev
}
