// Package report serializes an analysis run into a PDF document.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/carelytics/carelytics-cli/internal/analysis"
	"github.com/carelytics/carelytics-cli/internal/chart"
	"github.com/carelytics/carelytics-cli/internal/dataset"
	"github.com/carelytics/carelytics-cli/internal/profile"
)

// Meta carries source metadata for the report header.
type Meta struct {
	Source string
	Rows   int
}

// Builder assembles PDF reports. Build is a pure function of its inputs:
// a failed export leaves the dataset, summary table and figure untouched.
type Builder struct {
	// PageSize is an fpdf page size name ("Letter", "A4").
	PageSize string
	// SampleLimit bounds the rows profiled for the statistics section.
	SampleLimit int
	// SummaryLimit bounds the summary-table rows embedded as text.
	SummaryLimit int
}

// NewBuilder returns a builder with the default page size and limits.
func NewBuilder() *Builder {
	return &Builder{PageSize: "Letter", SampleLimit: 5000, SummaryLimit: 200}
}

// Build writes a PDF to path with sections: title, generation timestamp,
// descriptive statistics of the sample, the summary table head as
// preformatted text, and the chart image. Each of sample/summary/figure may
// be nil; the section then renders a "no data" placeholder instead.
func (b *Builder) Build(path string, sample *dataset.Dataset, summary *analysis.SummaryTable, fig *chart.Figure, meta *Meta) error {
	pdf := fpdf.New("P", "pt", b.PageSize, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 36)
	pdf.AddPage()

	title := "Carelytics Report"
	if meta != nil && meta.Source != "" {
		title = meta.Source
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 22, tr(title), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 13, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), "", "L", false)
	if meta != nil && meta.Rows > 0 {
		pdf.MultiCell(0, 13, fmt.Sprintf("Rows analyzed: %d", meta.Rows), "", "L", false)
	}
	pdf.Ln(10)

	b.sampleSection(pdf, tr, sample, meta)
	b.summarySection(pdf, tr, summary)
	b.chartSection(pdf, fig)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (b *Builder) sampleSection(pdf *fpdf.Fpdf, tr func(string) string, sample *dataset.Dataset, meta *Meta) {
	heading(pdf, "Summary statistics (sample)")
	if sample == nil || sample.Len() == 0 {
		placeholder(pdf, "No data sample available.")
		return
	}
	bounded := sample
	if sample.Len() > b.SampleLimit {
		bounded = sample.Head(b.SampleLimit)
	}
	source := ""
	if meta != nil {
		source = meta.Source
	}
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 10, tr(profile.Describe(bounded, source).String()), "", "L", false)
	pdf.Ln(10)
}

func (b *Builder) summarySection(pdf *fpdf.Fpdf, tr func(string) string, summary *analysis.SummaryTable) {
	heading(pdf, "Analysis result")
	if summary == nil || summary.Len() == 0 {
		placeholder(pdf, "No analysis results available.")
		return
	}
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 10, tr(summary.Head(b.SummaryLimit).String()), "", "L", false)
	pdf.Ln(10)
}

func (b *Builder) chartSection(pdf *fpdf.Fpdf, fig *chart.Figure) {
	heading(pdf, "Chart")
	if fig == nil || len(fig.Bytes()) == 0 {
		placeholder(pdf, "No chart available.")
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(fig.Bytes()))
	pdf.ImageOptions("chart", pdf.GetX(), pdf.GetY(), 450, 300, true, opts, 0, "")
	pdf.Ln(10)
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 16, text, "", "L", false)
	pdf.Ln(2)
}

func placeholder(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 13, text, "", "L", false)
	pdf.Ln(10)
}
