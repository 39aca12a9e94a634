// Package export converts saved drawings to other document formats.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDF writes a single-page PDF containing the PNG image, sized so one image
// pixel maps to one point.
func PDF(w io.Writer, title string, png []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(png) == 0 {
		return errors.New("empty image")
	}

	// Size already carries the real page shape; "L" would swap it.
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetTitle(title, true)
	p.SetCreator("airsketch", true)
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("drawing", opts, bytes.NewReader(png))
	p.ImageOptions("drawing", 0, 0, float64(width), float64(height), false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
