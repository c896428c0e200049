package analysis

import (
	"fmt"
	"sort"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"
)

type Status string

const (
	StatusNormal   Status = "NORMAL"
	StatusAlert    Status = "ALERT"
	StatusCritical Status = "CRITICAL"
)

// Banding thresholds, in predicted days of delay. Every surface that shows a
// status (chat text, chart, document) classifies with these same bounds.
const (
	alertThreshold    = 7.0
	criticalThreshold = 10.0
)

func StatusFor(meanRisk float64) Status {
	switch {
	case meanRisk <= alertThreshold:
		return StatusNormal
	case meanRisk <= criticalThreshold:
		return StatusAlert
	default:
		return StatusCritical
	}
}

// StageRisk is the mean predicted delay for one construction stage.
type StageRisk struct {
	Stage    string  `json:"stage"`
	Material string  `json:"material"`
	Risk     float64 `json:"risk_days"`
}

// Summary is the aggregated result for one project identifier.
type Summary struct {
	Identifier     string      `json:"identifier"`
	City           string      `json:"city"`
	SoilType       string      `json:"soil_type"`
	RainLevel      float64     `json:"rain_level_mm"`
	Budget         float64     `json:"budget"`
	MeanRisk       float64     `json:"mean_risk_days"`
	WorstStage     string      `json:"worst_stage"`
	WorstStageRisk float64     `json:"worst_stage_risk_days"`
	WorstMaterial  string      `json:"worst_material"`
	Status         Status      `json:"status"`
	Mode           string      `json:"mode"`
	PerStage       []StageRisk `json:"per_stage"`
}

// Aggregate reduces per-stage predictions to a single summary. Pure: same
// inputs always produce the same summary. The worst stage is the row with
// the maximum prediction; ties break to the first occurrence in input order.
func Aggregate(identifier string, recs []records.ProjectRecord, predictions []float64) (Summary, error) {
	if len(recs) == 0 {
		return Summary{}, fmt.Errorf("aggregate: no records")
	}
	if len(recs) != len(predictions) {
		return Summary{}, fmt.Errorf("aggregate: %d records but %d predictions", len(recs), len(predictions))
	}

	sum := 0.0
	worst := 0
	for i, p := range predictions {
		sum += p
		if p > predictions[worst] {
			worst = i
		}
	}

	s := Summary{
		Identifier:     records.Normalize(identifier),
		City:           recs[0].City,
		SoilType:       recs[0].SoilType,
		RainLevel:      recs[0].RainLevel,
		Budget:         recs[0].Budget,
		MeanRisk:       sum / float64(len(predictions)),
		WorstStage:     recs[worst].Stage,
		WorstStageRisk: predictions[worst],
		WorstMaterial:  recs[worst].Material,
	}
	s.Status = StatusFor(s.MeanRisk)
	s.PerStage = perStage(recs, predictions)
	return s, nil
}

// perStage averages predictions per stage name and orders stages by rising
// risk, ties keeping first appearance, so charts come out identical for
// identical inputs.
func perStage(recs []records.ProjectRecord, predictions []float64) []StageRisk {
	type acc struct {
		order    int
		material string
		sum      float64
		n        int
	}
	byStage := make(map[string]*acc)
	var names []string
	for i, r := range recs {
		a, ok := byStage[r.Stage]
		if !ok {
			a = &acc{order: len(names), material: r.Material}
			byStage[r.Stage] = a
			names = append(names, r.Stage)
		}
		a.sum += predictions[i]
		a.n++
	}

	out := make([]StageRisk, 0, len(names))
	for _, name := range names {
		a := byStage[name]
		out = append(out, StageRisk{
			Stage:    name,
			Material: a.material,
			Risk:     a.sum / float64(a.n),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Risk < out[j].Risk })
	return out
}
