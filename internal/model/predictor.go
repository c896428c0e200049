package model

import (
	"errors"
	"fmt"
)

// ErrPrediction marks failures of the model call itself. These indicate a
// data or artifact problem and are never retried.
var ErrPrediction = errors.New("prediction failed")

// Predict returns one non-negative risk-in-days estimate per input row.
// Negative ensemble outputs are clamped to zero; the model can extrapolate
// below the domain's natural floor.
func (a *Artifact) Predict(vec FeatureVector) ([]float64, error) {
	if len(vec.Columns) != len(a.FeatureOrder) {
		return nil, fmt.Errorf("%w: input has %d columns, model expects %d",
			ErrPrediction, len(vec.Columns), len(a.FeatureOrder))
	}

	out := make([]float64, 0, len(vec.Rows))
	for i, row := range vec.Rows {
		if len(row) != len(a.FeatureOrder) {
			return nil, fmt.Errorf("%w: row %d has %d values, model expects %d",
				ErrPrediction, i, len(row), len(a.FeatureOrder))
		}
		x := a.encode(row)
		sum := 0.0
		for _, t := range a.Trees {
			sum += evalTree(t, x)
		}
		pred := sum / float64(len(a.Trees))
		if pred < 0 {
			pred = 0
		}
		out = append(out, pred)
	}
	return out, nil
}

// encode turns an aligned row into the numeric vector the trees split on:
// categoricals become their level index (unseen levels get the slot past the
// last known one), numerics are standardized with the training-time scaling.
func (a *Artifact) encode(row []Value) []float64 {
	x := make([]float64, len(row))
	for i, v := range row {
		name := a.FeatureOrder[i]
		if v.Categorical {
			levels := a.Categorical[name]
			code := len(levels)
			for j, lvl := range levels {
				if lvl == v.Cat {
					code = j
					break
				}
			}
			x[i] = float64(code)
			continue
		}
		if sp, ok := a.Numeric[name]; ok {
			std := sp.Std
			if std <= 0 {
				std = 1
			}
			x[i] = (v.Num - sp.Mean) / std
			continue
		}
		x[i] = v.Num
	}
	return x
}

func evalTree(n *TreeNode, x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			if n.Left == nil {
				break
			}
			n = n.Left
		} else {
			if n.Right == nil {
				break
			}
			n = n.Right
		}
	}
	return n.Value
}
