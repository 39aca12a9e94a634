package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"testing"
)

var mediaBoxRe = regexp.MustCompile(`/MediaBox \[0 0 ([0-9.]+) ([0-9.]+)\]`)

// mediaBox returns the page size declared by the first /MediaBox.
func mediaBox(t *testing.T, pdf []byte) (float64, float64) {
	t.Helper()

	m := mediaBoxRe.FindSubmatch(pdf)
	if m == nil {
		t.Fatal("no /MediaBox in output")
	}
	w, _ := strconv.ParseFloat(string(m[1]), 64)
	h, _ := strconv.ParseFloat(string(m[2]), 64)
	return w, h
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.SetNRGBA(x, h/2, color.NRGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPDF(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "landscape", w: 64, h: 36},
		{name: "portrait", w: 36, h: 64},
		{name: "square", w: 40, h: 40},
		{name: "default canvas", w: 1280, h: 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := PDF(&out, "sketch", encodePNG(t, tt.w, tt.h), tt.w, tt.h); err != nil {
				t.Fatalf("PDF() error = %v", err)
			}
			if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
				t.Error("output should start with a PDF header")
			}

			w, h := mediaBox(t, out.Bytes())
			if w != float64(tt.w) || h != float64(tt.h) {
				t.Errorf("page is %gx%g, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestPDF_InvalidInput(t *testing.T) {
	var out bytes.Buffer

	if err := PDF(&out, "x", encodePNG(t, 4, 4), 0, 4); err == nil {
		t.Error("expected error for zero width")
	}
	if err := PDF(&out, "x", nil, 4, 4); err == nil {
		t.Error("expected error for empty image")
	}
	if err := PDF(&out, "x", []byte("not a png"), 4, 4); err == nil {
		t.Error("expected error for corrupt image")
	}
}
