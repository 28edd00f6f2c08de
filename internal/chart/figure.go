package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/carelytics/carelytics-cli/internal/utils"
)

// Figure is an opaque renderable: the encoded PNG plus the title it was
// rendered with. When rendering degraded, FallbackReason carries the error
// text that was folded into the title, so callers and tests can inspect why.
type Figure struct {
	Title          string
	PNG            []byte
	FallbackReason string
}

// Degraded reports whether this figure is a fallback rather than the
// requested chart.
func (f *Figure) Degraded() bool { return f.FallbackReason != "" }

// Bytes returns the encoded PNG.
func (f *Figure) Bytes() []byte { return f.PNG }

// WriteFile writes the PNG to disk atomically.
func (f *Figure) WriteFile(path string) error {
	if err := utils.SafeWriteFile(path, f.PNG); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// placeholderPNG produces a minimal blank figure. It is the last resort when
// even the fallback plot cannot render, and cannot itself fail.
func placeholderPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
