package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Snapshot is an immutable PNG encoding of the full surface at one instant.
type Snapshot struct {
	data          []byte
	width, height int
}

// EncodeSnapshot encodes img as a Snapshot.
func EncodeSnapshot(img image.Image) (Snapshot, error) {
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, img); err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	b := img.Bounds()
	return Snapshot{data: buf.Bytes(), width: b.Dx(), height: b.Dy()}, nil
}

// IsZero reports whether s holds no image.
func (s Snapshot) IsZero() bool { return len(s.data) == 0 }

// Len returns the encoded size in bytes.
func (s Snapshot) Len() int { return len(s.data) }

// Width returns the encoded image width.
func (s Snapshot) Width() int { return s.width }

// Height returns the encoded image height.
func (s Snapshot) Height() int { return s.height }

// PNG returns a copy of the encoded bytes.
func (s Snapshot) PNG() []byte {
	return bytes.Clone(s.data)
}

// Decode decodes the snapshot back into an image.
func (s Snapshot) Decode() (image.Image, error) {
	if s.IsZero() {
		return nil, fmt.Errorf("decode snapshot: empty")
	}
	img, err := png.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}
