package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/carelytics/carelytics-cli/internal/analysis"
)

// renderHeatmap computes pairwise Pearson correlation over the numeric
// columns of the table and rasters the matrix: blue for -1, white for 0,
// red for +1. Needs at least two numeric columns and two complete rows.
func renderHeatmap(table *analysis.SummaryTable) (*Figure, error) {
	names, colIdx := numericColumns(table)
	if len(colIdx) < 2 {
		return nil, fmt.Errorf("correlation heatmap needs at least 2 numeric columns, have %d", len(colIdx))
	}

	// Keep only rows where every numeric column coerces.
	var flat []float64
	nrows := 0
	for _, row := range table.Rows {
		vals := make([]float64, 0, len(colIdx))
		complete := true
		for _, ci := range colIdx {
			if ci >= len(row) {
				complete = false
				break
			}
			f, ok := valueAsFloat(row[ci])
			if !ok {
				complete = false
				break
			}
			vals = append(vals, f)
		}
		if complete {
			flat = append(flat, vals...)
			nrows++
		}
	}
	if nrows < 2 {
		return nil, fmt.Errorf("correlation heatmap needs at least 2 complete rows, have %d", nrows)
	}

	data := mat.NewDense(nrows, len(colIdx), flat)
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, data, nil)

	img := drawMatrix(names, &corr)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode heatmap: %w", err)
	}
	return &Figure{Title: "Correlation heatmap", PNG: buf.Bytes()}, nil
}

func numericColumns(table *analysis.SummaryTable) (names []string, idx []int) {
	for i, name := range table.Columns {
		if _, ok := table.NumericColumn(i); ok {
			names = append(names, name)
			idx = append(idx, i)
		}
	}
	return names, idx
}

const (
	heatCell    = 64
	heatMarginL = 110
	heatMarginT = 36
)

func drawMatrix(names []string, corr *mat.SymDense) *image.RGBA {
	n := len(names)
	w := heatMarginL + n*heatCell + 20
	h := heatMarginT + n*heatCell + 20
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := corr.At(i, j)
			cell := image.Rect(
				heatMarginL+j*heatCell, heatMarginT+i*heatCell,
				heatMarginL+(j+1)*heatCell, heatMarginT+(i+1)*heatCell,
			)
			fill(img, cell, heatColor(r))
			drawLabel(img, cell.Min.X+6, cell.Min.Y+heatCell/2+4, fmt.Sprintf("%.2f", r))
		}
	}
	for i, name := range names {
		drawLabel(img, 6, heatMarginT+i*heatCell+heatCell/2+4, clip(name, 14))
		drawLabel(img, heatMarginL+i*heatCell+4, heatMarginT-10, clip(name, 8))
	}
	return img
}

// heatColor maps r in [-1, 1] to blue-white-red.
func heatColor(r float64) color.RGBA {
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if r >= 0 {
		v := uint8(255 - r*200)
		return color.RGBA{R: 255, G: v, B: v, A: 255}
	}
	v := uint8(255 + r*200)
	return color.RGBA{R: v, G: v, B: 255, A: 255}
}

func fill(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
