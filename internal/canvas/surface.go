// Package canvas holds the raster drawing surface, the stroke state machine
// that draws onto it and the snapshot history backing undo/redo.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// CompositeMode is the pixel blending rule used for a stroke.
type CompositeMode int

const (
	// Paint composites the brush color over existing pixels.
	Paint CompositeMode = iota
	// Erase removes coverage from existing pixels, leaving transparency.
	Erase
)

func (m CompositeMode) String() string {
	if m == Erase {
		return "erase"
	}
	return "paint"
}

// Brush describes how a stroke segment is drawn.
type Brush struct {
	Color color.Color
	Width float64
	Mode  CompositeMode
}

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Surface is the raster the user draws on. Pixels are stored
// non-premultiplied so PNG snapshots restore byte for byte.
type Surface struct {
	img *image.NRGBA
}

// NewSurface creates a fully transparent surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// At returns the color of one pixel.
func (s *Surface) At(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// Clone returns a copy of the current pixels.
func (s *Surface) Clone() *image.NRGBA {
	out := image.NewNRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// Clear wipes the surface to fully transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Replace repaints the whole surface from img, discarding prior content.
func (s *Surface) Replace(img image.Image) {
	if src, ok := img.(*image.NRGBA); ok && src.Rect == s.img.Rect && src.Stride == s.img.Stride {
		copy(s.img.Pix, src.Pix)
		return
	}
	s.Clear()
	draw.Draw(s.img, s.img.Rect, img, img.Bounds().Min, draw.Src)
}

// Snapshot encodes the current pixels.
func (s *Surface) Snapshot() (Snapshot, error) {
	return EncodeSnapshot(s.img)
}

// StrokeSegment draws a line from a to b with round caps and joins.
// Zero-length segments draw nothing.
func (s *Surface) StrokeSegment(a, b Point, brush Brush) {
	if a == b || brush.Width <= 0 {
		return
	}

	pad := brush.Width/2 + 2
	box := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-pad)),
		int(math.Floor(math.Min(a.Y, b.Y)-pad)),
		int(math.Ceil(math.Max(a.X, b.X)+pad)),
		int(math.Ceil(math.Max(a.Y, b.Y)+pad)),
	).Intersect(s.img.Rect)
	if box.Empty() {
		return
	}

	mask := coverage(box, a, b, brush.Width)

	switch brush.Mode {
	case Erase:
		s.erase(box, mask)
	default:
		draw.DrawMask(s.img, box, image.NewUniform(brush.Color), image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// coverage rasterizes the stroked segment into an alpha mask covering box.
// The mask origin corresponds to box.Min.
func coverage(box image.Rectangle, a, b Point, width float64) *image.Alpha {
	w, h := box.Dx(), box.Dy()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))

	scanner := rasterx.NewScannerGV(w, h, mask, mask.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	dasher.SetStroke(fixed.Int26_6(width*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
	dasher.SetColor(color.Opaque)

	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	dasher.Start(rasterx.ToFixedP(a.X-ox, a.Y-oy))
	dasher.Line(rasterx.ToFixedP(b.X-ox, b.Y-oy))
	dasher.Stop(false)
	dasher.Draw()

	return mask
}

// erase applies destination-out: each pixel keeps (1 - coverage) of its alpha.
func (s *Surface) erase(box image.Rectangle, mask *image.Alpha) {
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			m := uint32(mask.AlphaAt(x-box.Min.X, y-box.Min.Y).A)
			if m == 0 {
				continue
			}
			i := s.img.PixOffset(x, y)
			a := uint32(s.img.Pix[i+3]) * (255 - m) / 255
			if a == 0 {
				s.img.Pix[i+0] = 0
				s.img.Pix[i+1] = 0
				s.img.Pix[i+2] = 0
			}
			s.img.Pix[i+3] = uint8(a)
		}
	}
}
