package model

import "github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"

// Value is one cell of a model-ready row.
type Value struct {
	Num         float64
	Cat         string
	Categorical bool
}

// FeatureVector is the projection of a record set restricted to, and ordered
// exactly as, the model's declared feature list.
type FeatureVector struct {
	Columns []string
	Rows    [][]Value
}

// Align builds a model-ready input: identifier and target columns are
// dropped, columns the records lack are filled with the per-type default
// (0 numeric, the sentinel category otherwise), and everything is emitted in
// the artifact's feature order. Total by design — the acceptable failure
// mode for schema drift is degraded prediction quality, not a crash.
func (a *Artifact) Align(recs []records.ProjectRecord) FeatureVector {
	vec := FeatureVector{
		Columns: a.FeatureOrder,
		Rows:    make([][]Value, 0, len(recs)),
	}

	for _, rec := range recs {
		row := make([]Value, len(a.FeatureOrder))
		for i, name := range a.FeatureOrder {
			if a.isCategorical(name) {
				cat, ok := rec.CategoricalFeature(name)
				if !ok || cat == "" {
					cat = CategoricalDefault
				}
				row[i] = Value{Cat: records.Normalize(cat), Categorical: true}
				continue
			}
			num, _ := rec.NumericFeature(name)
			row[i] = Value{Num: num}
		}
		vec.Rows = append(vec.Rows, row)
	}
	return vec
}
