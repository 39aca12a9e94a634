package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Preview holds the latest camera frame as a horizontally mirrored JPEG, so
// the picture behind the canvas matches the mirrored fingertip coordinates.
type Preview struct {
	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	changed chan struct{}
}

// NewPreview creates an empty Preview.
func NewPreview() *Preview {
	return &Preview{changed: make(chan struct{})}
}

// Publish mirrors and encodes mat as the latest frame.
func (p *Preview) Publish(mat *gocv.Mat) error {
	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*mat, &mirrored, 1)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mirrored)
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	defer buf.Close()

	p.Set(bytes.Clone(buf.GetBytes()))
	return nil
}

// Set stores an encoded frame and wakes waiters.
func (p *Preview) Set(jpeg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.jpeg = jpeg
	p.seq++
	close(p.changed)
	p.changed = make(chan struct{})
}

// Latest returns the newest frame and its sequence number, zero when none
// has been published.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jpeg, p.seq
}

// Next blocks until a frame newer than seq is available.
func (p *Preview) Next(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		p.mu.Lock()
		if p.seq > seq {
			jpeg, cur := p.jpeg, p.seq
			p.mu.Unlock()
			return jpeg, cur, nil
		}
		changed := p.changed
		p.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		}
	}
}
