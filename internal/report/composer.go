package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
)

// Bundle is one response's worth of artifacts, delivered in order: text,
// then chart, then document.
type Bundle struct {
	Text         string
	Chart        []byte
	Document     []byte
	DocumentName string
	RenderFailed bool
}

// Composer builds the three artifacts from one summary. A failing renderer
// only loses its own artifact; the text summary always survives.
type Composer struct {
	text  *TextRenderer
	chart *ChartRenderer
	doc   *DocumentRenderer
	log   *logging.Logger
}

func NewComposer(catalog *i18n.Catalog, log *logging.Logger) *Composer {
	text := NewTextRenderer(catalog)
	return &Composer{
		text:  text,
		chart: NewChartRenderer(catalog),
		doc:   NewDocumentRenderer(catalog, text),
		log:   log,
	}
}

func (c *Composer) Compose(s analysis.Summary, lang string, now time.Time) Bundle {
	b := Bundle{
		Text:         c.text.Render(s, lang),
		DocumentName: fmt.Sprintf("Risco_%s.pdf", strings.ToUpper(s.Identifier)),
	}

	chart, err := c.chart.Render(s, lang)
	if err != nil {
		c.log.Error("chart render failed", "identifier", s.Identifier, "error", err)
		b.RenderFailed = true
	} else {
		b.Chart = chart
	}

	doc, err := c.doc.Render(s, lang, b.Chart, now)
	if err != nil {
		c.log.Error("document render failed", "identifier", s.Identifier, "error", err)
		b.RenderFailed = true
	} else {
		b.Document = doc
	}

	return b
}
