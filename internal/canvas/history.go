package canvas

import (
	"image"
	"log"
)

// DefaultHistoryCapacity is the default number of snapshots kept per stack.
// Memory use is bounded by roughly 2 * capacity * snapshot size.
const DefaultHistoryCapacity = 50

// History implements undo/redo over two bounded stacks of surface snapshots.
//
// The undo stack holds past committed states and the redo stack holds undone
// states, most recent last. The committed state itself is kept separately so
// undo never has to read a surface that a pending restore has not yet
// repainted.
//
// Restores may decode asynchronously (see WithScheduler). Each restore gets a
// token; only the completion carrying the latest token is applied, so the
// surface always ends up at the most recently requested state.
//
// History is not safe for concurrent use; it belongs to the goroutine that
// owns the surface.
type History struct {
	surface *Surface
	undo    *ring
	redo    *ring
	current Snapshot

	token   uint64
	pending *pendingRestore

	post   func(func())
	decode func(Snapshot) (image.Image, error)
}

type pendingRestore struct {
	token    uint64
	snapshot Snapshot
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithScheduler makes restores asynchronous: the snapshot is decoded on a new
// goroutine and the result is handed to post, which must run the function on
// the goroutine that owns the History.
func WithScheduler(post func(func())) HistoryOption {
	return func(h *History) { h.post = post }
}

// WithDecoder overrides snapshot decoding.
func WithDecoder(decode func(Snapshot) (image.Image, error)) HistoryOption {
	return func(h *History) { h.decode = decode }
}

// NewHistory creates a History for surface, taking the surface's current
// content as the initial committed state. capacity bounds each stack, evicting
// the oldest snapshot first; capacity <= 0 means unbounded.
func NewHistory(surface *Surface, capacity int, opts ...HistoryOption) (*History, error) {
	h := &History{
		surface: surface,
		undo:    newRing(capacity),
		redo:    newRing(capacity),
		decode:  Snapshot.Decode,
	}
	for _, opt := range opts {
		opt(h)
	}

	snap, err := surface.Snapshot()
	if err != nil {
		return nil, err
	}
	h.current = snap
	return h, nil
}

// Record commits the surface as the new current state. The previous state is
// pushed onto the undo stack and the redo stack is cleared.
func (h *History) Record() error {
	snap, err := h.surface.Snapshot()
	if err != nil {
		return err
	}

	h.pending = nil
	h.undo.push(h.current)
	h.current = snap
	h.redo.clear()
	return nil
}

// Clear wipes the surface to transparent and records the result. A pending
// restore is abandoned.
func (h *History) Clear() error {
	h.pending = nil
	h.surface.Clear()
	return h.Record()
}

// Undo moves back one state. It reports false, doing nothing, when there is
// nothing to undo.
func (h *History) Undo() bool {
	prev, ok := h.undo.pop()
	if !ok {
		return false
	}
	h.redo.push(h.current)
	h.current = prev
	h.restore(prev)
	return true
}

// Redo moves forward one undone state. It reports false, doing nothing, when
// there is nothing to redo.
func (h *History) Redo() bool {
	next, ok := h.redo.pop()
	if !ok {
		return false
	}
	h.undo.push(h.current)
	h.current = next
	h.restore(next)
	return true
}

// Settle applies a pending restore immediately. It must be called before the
// surface is drawn on, otherwise the late restore would paint over new work.
func (h *History) Settle() {
	p := h.pending
	if p == nil {
		return
	}
	h.pending = nil
	img, err := h.decode(p.snapshot)
	h.apply(img, err)
}

// Pending reports whether a restore has been requested but not yet applied.
func (h *History) Pending() bool {
	return h.pending != nil
}

// Current returns the committed state.
func (h *History) Current() Snapshot {
	return h.current
}

// Depth returns the number of entries on the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return h.undo.len(), h.redo.len()
}

func (h *History) restore(snap Snapshot) {
	h.token++

	if h.post == nil {
		h.pending = nil
		img, err := h.decode(snap)
		h.apply(img, err)
		return
	}

	p := &pendingRestore{token: h.token, snapshot: snap}
	h.pending = p
	decode := h.decode
	go func() {
		img, err := decode(p.snapshot)
		h.post(func() { h.complete(p.token, img, err) })
	}()
}

// complete runs on the owning goroutine when an asynchronous decode finishes.
// Results for superseded requests are dropped.
func (h *History) complete(token uint64, img image.Image, err error) {
	if h.pending == nil || h.pending.token != token {
		return
	}
	h.pending = nil
	h.apply(img, err)
}

func (h *History) apply(img image.Image, err error) {
	if err != nil {
		log.Printf("Failed to restore canvas snapshot, keeping current pixels: %v", err)
		return
	}
	h.surface.Replace(img)
}

// ring is a stack with optional fixed capacity that evicts its oldest entry
// when full.
type ring struct {
	buf     []Snapshot
	start   int
	n       int
	bounded bool
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		return &ring{}
	}
	return &ring{buf: make([]Snapshot, capacity), bounded: true}
}

func (r *ring) len() int { return r.n }

// push adds s as the newest entry, reporting whether the oldest was evicted.
func (r *ring) push(s Snapshot) bool {
	if !r.bounded {
		r.buf = append(r.buf, s)
		r.n++
		return false
	}
	if r.n == len(r.buf) {
		r.buf[r.start] = s
		r.start = (r.start + 1) % len(r.buf)
		return true
	}
	r.buf[(r.start+r.n)%len(r.buf)] = s
	r.n++
	return false
}

func (r *ring) pop() (Snapshot, bool) {
	if r.n == 0 {
		return Snapshot{}, false
	}
	r.n--
	if !r.bounded {
		s := r.buf[r.n]
		r.buf[r.n] = Snapshot{}
		r.buf = r.buf[:r.n]
		return s, true
	}
	i := (r.start + r.n) % len(r.buf)
	s := r.buf[i]
	r.buf[i] = Snapshot{}
	return s, true
}

func (r *ring) clear() {
	clear(r.buf)
	if !r.bounded {
		r.buf = r.buf[:0]
	}
	r.start, r.n = 0, 0
}
