package app

import (
	"log"
	"time"

	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
)

// Start opens the camera and begins posting detector frames to the loop.
// Without a camera it does nothing.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.camera == nil || a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(TrackingFPS)

	a.stopCh = make(chan struct{})
	a.stopped = make(chan struct{})
	go a.runPipeline(a.stopCh, a.stopped)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, stopped := a.stopCh, a.stopped
	a.stopCh, a.stopped = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-stopped
	}

	if a.camera != nil {
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// Running reports whether the pipeline is running.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// runPipeline reads camera frames at TrackingFPS, runs hand detection and
// posts the result. Frames with no hand are posted too; they end strokes.
func (a *App) runPipeline(stopCh <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(time.Second / TrackingFPS)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, ok := a.detectFrame(a.camera)
			if !ok {
				continue
			}
			if err := a.Post(FrameEvent{Frame: frame}); err != nil {
				return
			}
		}
	}
}

// detectFrame reads one camera frame and runs the detector on it.
func (a *App) detectFrame(cam capture.Camera) (detector.Frame, bool) {
	mat, err := cam.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return detector.Frame{}, false
	}
	defer mat.Close()

	if err := a.preview.Publish(mat); err != nil {
		log.Printf("Error publishing preview: %v", err)
	}

	d := a.Detector()
	if d == nil {
		return detector.Frame{}, false
	}

	hands, err := d.Detect(mat)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return detector.Frame{}, false
	}

	return detector.Frame{Hands: hands, Timestamp: time.Now().UnixMilli()}, true
}
