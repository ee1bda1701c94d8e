package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct {
	orientation string
}

// NewPDFExporter constructs a landscape PDF exporter; listings are wide.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{orientation: "L"}
}

// Render creates a PDF document with the dataset title, subtitle lines and
// table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New(e.orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(44, 62, 80)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "L", false, 0, "")
	}
	if len(data.Subtitle) > 0 {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(102, 102, 102)
		for _, line := range data.Subtitle {
			pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	colWidth := usable / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(242, 242, 242)
	for i, row := range data.Rows {
		fill := i%2 == 1
		for j := range data.Headers {
			value := ""
			if j < len(row) {
				value = row[j]
			}
			pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
