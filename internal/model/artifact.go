package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// CategoricalDefault encodes a level the model never saw in training,
// matching the training pipeline's constant imputer.
const CategoricalDefault = "desconhecido"

type ScaleParams struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// TreeNode is one node of a regression tree. Feature indexes into the
// encoded vector laid out in FeatureOrder.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Value     float64   `json:"value"`
	Leaf      bool      `json:"leaf"`
}

// Artifact is the pre-trained prediction pipeline exported by the offline
// training job: the declared feature order, per-column encodings and the
// regression tree ensemble. Loaded once at startup, immutable afterwards.
type Artifact struct {
	FeatureOrder []string               `json:"feature_order"`
	Categorical  map[string][]string    `json:"categorical"`
	Numeric      map[string]ScaleParams `json:"numeric"`
	Trees        []*TreeNode            `json:"trees"`
}

func LoadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("model artifact: %w", err)
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if len(a.FeatureOrder) == 0 {
		return fmt.Errorf("empty feature order")
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	width := len(a.FeatureOrder)
	for i, t := range a.Trees {
		if err := checkTree(t, width); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func checkTree(n *TreeNode, width int) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if n.Leaf {
		return nil
	}
	if n.Feature < 0 || n.Feature >= width {
		return fmt.Errorf("feature index %d out of range", n.Feature)
	}
	if err := checkTree(n.Left, width); err != nil {
		return err
	}
	return checkTree(n.Right, width)
}

func (a *Artifact) isCategorical(name string) bool {
	_, ok := a.Categorical[name]
	return ok
}
