package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fogleman/gg"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
)

const (
	chartWidth   = 800
	barLeft      = 190.0
	barMaxWidth  = 540.0
	barHeight    = 34.0
	barSpacing   = 56.0
	chartPadding = 70.0
)

// ChartRenderer draws the per-stage horizontal bar chart as a PNG. The bar
// colors use the same status banding as every other surface.
type ChartRenderer struct {
	catalog *i18n.Catalog
}

func NewChartRenderer(catalog *i18n.Catalog) *ChartRenderer {
	return &ChartRenderer{catalog: catalog}
}

func (r *ChartRenderer) Render(s analysis.Summary, lang string) ([]byte, error) {
	if len(s.PerStage) == 0 {
		return nil, fmt.Errorf("chart: no stage data")
	}

	height := int(chartPadding*2 + barSpacing*float64(len(s.PerStage)))
	dc := gg.NewContext(chartWidth, height)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	title := r.catalog.T(lang, "chart_title", "id", strings.ToUpper(s.Identifier))
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(title, chartWidth/2, 28, 0.5, 0.5)

	maxRisk := s.PerStage[len(s.PerStage)-1].Risk
	for _, sr := range s.PerStage {
		if sr.Risk > maxRisk {
			maxRisk = sr.Risk
		}
	}
	if maxRisk <= 0 {
		maxRisk = 1
	}

	for i, sr := range s.PerStage {
		y := chartPadding + float64(i)*barSpacing
		w := barMaxWidth * (sr.Risk / maxRisk)
		if w < 2 {
			w = 2
		}

		setStatusColor(dc, analysis.StatusFor(sr.Risk))
		dc.DrawRectangle(barLeft, y, w, barHeight)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(titleCase(sr.Stage), barLeft-12, y+barHeight/2, 1, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%.1fd", sr.Risk), barLeft+w+8, y+barHeight/2, 0, 0.5)
	}

	legend := r.catalog.T(lang, "chart_legend")
	axis := r.catalog.T(lang, "chart_axis")
	dc.SetRGB(0.35, 0.35, 0.35)
	dc.DrawStringAnchored(axis, chartWidth/2, float64(height)-40, 0.5, 0.5)
	dc.DrawStringAnchored(legend, chartWidth/2, float64(height)-18, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func setStatusColor(dc *gg.Context, st analysis.Status) {
	switch st {
	case analysis.StatusNormal:
		dc.SetRGB255(46, 125, 50)
	case analysis.StatusAlert:
		dc.SetRGB255(249, 168, 37)
	default:
		dc.SetRGB255(198, 40, 40)
	}
}
