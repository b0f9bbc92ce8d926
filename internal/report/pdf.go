package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Column widths in millimetres, in Columns order.
var pdfColumnWidths = []float64{45, 15, 20, 30, 30, 30}

// PDFRenderer renders reports as A4 portrait PDF documents.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Format() string      { return "pdf" }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, rep *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; names outside it degrade instead of failing.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(rep.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, rep.PeriodLine(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, rep.CreatedLine(), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	for i, col := range Columns {
		pdf.CellFormat(pdfColumnWidths[i], 10, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rep.Rows {
		for i, cell := range row.Cells() {
			align := "R"
			if i == 0 {
				align = "L"
				cell = tr(cell)
			}
			pdf.CellFormat(pdfColumnWidths[i], 10, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, rep.GrandTotalLine(), "", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
