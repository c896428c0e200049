package report

import (
	"fmt"
	"strings"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
)

const divider = "-------------------------------------------"

// TextRenderer produces the localized chat summary. It is a read-only view
// over the summary, like the other renderers.
type TextRenderer struct {
	catalog *i18n.Catalog
}

func NewTextRenderer(catalog *i18n.Catalog) *TextRenderer {
	return &TextRenderer{catalog: catalog}
}

func (r *TextRenderer) Render(s analysis.Summary, lang string) string {
	t := r.catalog.T
	status := t(lang, "status_"+string(s.Status))

	lines := []string{
		t(lang, "report_header"),
		divider,
		t(lang, "report_project", "id", strings.ToUpper(s.Identifier), "city", titleCase(s.City)),
		t(lang, "report_geology", "soil", titleCase(s.SoilType)),
		t(lang, "report_climate", "rain", fmt.Sprintf("%.0f", s.RainLevel)),
		t(lang, "report_budget", "budget", formatAmount(s.Budget)),
		divider,
		t(lang, "report_diagnosis"),
		"• " + t(lang, "report_mean_risk", "risk", fmt.Sprintf("%.1f", s.MeanRisk)),
		"• " + t(lang, "report_status", "status", status),
		"",
		t(lang, "report_worst",
			"stage", titleCase(s.WorstStage),
			"risk", fmt.Sprintf("%.1f", s.WorstStageRisk),
			"material", s.WorstMaterial),
		divider,
		t(lang, "report_insight", "material", s.WorstMaterial),
	}
	return strings.Join(lines, "\n")
}

// PlainText strips chat markup so the same summary can go into the PDF.
func PlainText(text string) string {
	return strings.NewReplacer("*", "", "`", "", "_", "").Replace(text)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) > 0 {
			words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
		}
	}
	return strings.Join(words, " ")
}

// formatAmount renders a monetary value with thousands grouping.
func formatAmount(v float64) string {
	whole := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(whole, '.')
	intPart, frac := whole[:dot], whole[dot+1:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
