// Package app runs the drawing state machine: every input is posted as an
// event and handled on a single goroutine that owns the tool state, the
// canvas and its history.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/hittest"
	"github.com/ayusman/airsketch/internal/input"
	"github.com/ayusman/airsketch/internal/tool"
)

// ErrStopped is returned when posting to an app whose loop has exited.
var ErrStopped = errors.New("app is stopped")

const (
	// TrackingFPS is the camera frame rate while the pipeline runs.
	TrackingFPS = 30
	// EventBuffer is the capacity of the event queue.
	EventBuffer = 256
)

// Config holds configuration options for the application.
type Config struct {
	// Preferences persists tool sizes. Nil keeps them in memory.
	Preferences tool.Preferences
	// CameraID is the capture device; negative disables the camera.
	CameraID int
	// Camera overrides the device selected by CameraID.
	Camera capture.Camera
	// Detector overrides hand detection. Nil tries MediaPipe first.
	Detector detector.Detector

	Width           int
	Height          int
	HistoryCapacity int
	TapCooldown     time.Duration
	FirstMatch      bool
}

// App is the drawing controller. Exported methods are safe for concurrent
// use; everything else runs on the loop started by Run.
type App struct {
	config Config
	events chan Event
	done   chan struct{}

	// Owned by the event loop.
	surface    *canvas.Surface
	history    *canvas.History
	tools      *tool.Manager
	normalizer *input.Normalizer
	classifier *gesture.Classifier
	dispatcher *hittest.Dispatcher
	hand       *canvas.Renderer
	touch      *canvas.Renderer
	regions    []hittest.ControlRegion

	listenersMu sync.RWMutex
	listeners   map[int]func(Notification)
	nextID      int

	// Camera pipeline.
	camera   capture.Camera
	preview  *capture.Preview
	detector detector.Detector
	mu       sync.RWMutex
	stopCh   chan struct{}
	stopped  chan struct{}
}

// New creates a new App. Call Run to start handling events.
func New(config Config) (*App, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", config.Width, config.Height)
	}
	if config.TapCooldown <= 0 {
		config.TapCooldown = hittest.DefaultCooldown
	}

	a := &App{
		config:    config,
		events:    make(chan Event, EventBuffer),
		done:      make(chan struct{}),
		listeners: make(map[int]func(Notification)),
	}

	a.surface = canvas.NewSurface(config.Width, config.Height)
	history, err := canvas.NewHistory(a.surface, config.HistoryCapacity, canvas.WithScheduler(a.postRestore))
	if err != nil {
		return nil, fmt.Errorf("failed to create history: %w", err)
	}
	a.history = history

	a.tools = tool.NewManager(config.Preferences)
	a.normalizer = input.NewNormalizer(input.NewViewport(config.Width, config.Height))
	a.classifier = gesture.NewClassifier()
	a.dispatcher = hittest.NewDispatcher(controlHandler{a},
		hittest.WithCooldown(config.TapCooldown),
		hittest.WithFirstMatch(config.FirstMatch),
	)
	a.hand = canvas.NewRenderer(a.surface)
	a.touch = canvas.NewRenderer(a.surface)

	a.preview = capture.NewPreview()
	switch {
	case config.Camera != nil:
		a.camera = config.Camera
	case config.CameraID >= 0:
		a.camera = capture.NewCameraWithSize(config.CameraID, config.Width, config.Height)
	}

	switch {
	case config.Detector != nil:
		a.detector = config.Detector
	case a.camera == nil:
		a.detector = detector.NewMockDetector()
	default:
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	return a, nil
}

// Run handles events until ctx is cancelled. It must be called once.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.events:
			a.handle(ev)
		}
	}
}

// Post queues an event, blocking while the queue is full.
func (a *App) Post(ev Event) error {
	return a.post(context.Background(), ev)
}

func (a *App) post(ctx context.Context, ev Event) error {
	select {
	case <-a.done:
		return ErrStopped
	default:
	}

	select {
	case a.events <- ev:
		return nil
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// postRestore hands a finished snapshot decode back to the loop.
func (a *App) postRestore(apply func()) {
	if err := a.Post(restoreDone{apply: apply}); err != nil {
		log.Printf("Dropping canvas restore: %v", err)
	}
}

// Call runs fn on the event loop and waits for it to finish. fn may read
// loop-owned state; it must not block.
func (a *App) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := a.post(ctx, callEvent{fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	}
}

// ToolView is the tool state with its derived preview.
type ToolView struct {
	State   tool.State   `json:"state"`
	Preview tool.Preview `json:"preview"`
}

// Tool returns the current tool state.
func (a *App) Tool(ctx context.Context) (ToolView, error) {
	var v ToolView
	err := a.Call(ctx, func() {
		v = ToolView{State: a.tools.State(), Preview: a.tools.Preview()}
	})
	return v, err
}

// CanvasPNG returns the visible surface as PNG, applying any pending restore
// first.
func (a *App) CanvasPNG(ctx context.Context) ([]byte, error) {
	var snap canvas.Snapshot
	var snapErr error
	err := a.Call(ctx, func() {
		a.history.Settle()
		snap, snapErr = a.surface.Snapshot()
	})
	if err != nil {
		return nil, err
	}
	if snapErr != nil {
		return nil, snapErr
	}
	return snap.PNG(), nil
}

// Committed returns the last committed canvas state.
func (a *App) Committed(ctx context.Context) (canvas.Snapshot, error) {
	var snap canvas.Snapshot
	err := a.Call(ctx, func() { snap = a.history.Current() })
	return snap, err
}

// HandleKey processes a key press and reports whether it was handled, in
// which case the client should suppress its default action.
func (a *App) HandleKey(ctx context.Context, key string, ctrl bool) (bool, error) {
	var handled bool
	err := a.Call(ctx, func() { handled = a.key(key, ctrl) })
	return handled, err
}

// Depth returns the number of undo and redo entries.
func (a *App) Depth(ctx context.Context) (undo, redo int, err error) {
	err = a.Call(ctx, func() { undo, redo = a.history.Depth() })
	return undo, redo, err
}

// Subscribe registers fn for notifications and returns a function that
// removes it. fn runs on the event loop and must not block.
func (a *App) Subscribe(fn func(Notification)) func() {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = fn

	return func() {
		a.listenersMu.Lock()
		defer a.listenersMu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *App) notify(n Notification) {
	a.listenersMu.RLock()
	fns := make([]func(Notification), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(n)
	}
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera, or nil when the camera is disabled.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Preview returns the mirrored camera preview fed by the pipeline.
func (a *App) Preview() *capture.Preview {
	return a.preview
}

// Size returns the canvas size in pixels.
func (a *App) Size() (width, height int) {
	return a.config.Width, a.config.Height
}
