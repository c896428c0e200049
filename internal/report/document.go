package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
)

// DocumentRenderer produces the paginated PDF: a cover page and a content
// page carrying the plain-text summary plus the chart image. Deterministic
// for the same summary, chart bytes and timestamp.
type DocumentRenderer struct {
	catalog *i18n.Catalog
	text    *TextRenderer
}

func NewDocumentRenderer(catalog *i18n.Catalog, text *TextRenderer) *DocumentRenderer {
	return &DocumentRenderer{catalog: catalog, text: text}
}

func (r *DocumentRenderer) Render(s analysis.Summary, lang string, chartPNG []byte, now time.Time) ([]byte, error) {
	t := r.catalog.T
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Cover page
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(27, 94, 32)
	pdf.CellFormat(0, 60, "", "", 1, "", false, 0, "")
	pdf.MultiCell(0, 10, tr(t(lang, "pdf_title")), "", "C", false)

	pdf.SetDrawColor(27, 94, 32)
	pdf.Line(30, pdf.GetY()+4, 180, pdf.GetY()+4)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(33, 33, 33)
	pdf.MultiCell(0, 8, tr(strings.ToUpper(s.Identifier)), "", "C", false)
	pdf.MultiCell(0, 8, tr(t(lang, "pdf_generated", "timestamp", now.Format("2006-01-02 15:04:05"))), "", "C", false)
	pdf.MultiCell(0, 8, tr(t(lang, "pdf_mode", "mode", s.Mode)), "", "C", false)

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 6, tr(t(lang, "pdf_footer")), "", "C", false)

	// Content page
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(27, 94, 32)
	pdf.MultiCell(0, 8, tr(t(lang, "pdf_section_1")), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(33, 33, 33)
	pdf.MultiCell(0, 6, tr(PlainText(r.text.Render(s, lang))), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(27, 94, 32)
	pdf.MultiCell(0, 8, tr(t(lang, "pdf_section_2")), "", "L", false)
	pdf.Ln(2)

	if len(chartPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("stage_chart", opts, bytes.NewReader(chartPNG))
		pdf.ImageOptions("stage_chart", 15, pdf.GetY(), 180, 0, false, opts, 0, "")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("document: %v", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: output: %w", err)
	}
	return buf.Bytes(), nil
}
