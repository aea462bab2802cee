// Package modelio loads pre-fit maintenance classifiers from versioned
// artifact files. Training happens elsewhere; this package only scores.
package modelio

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
)

// currentArtifactVersion is the artifact schema version this build reads.
const currentArtifactVersion = 1

// Supported model types.
const (
	TypeLogistic     = "logistic_regression"
	TypeRandomForest = "random_forest"
)

// Artifact is the on-disk model format. The training pipeline writes it; this
// side treats the parameters as opaque beyond what scoring needs.
type Artifact struct {
	SchemaVersion  int                  `json:"schema_version"`
	ModelType      string               `json:"model_type"`
	ModelVersion   string               `json:"model_version"`
	FeatureNames   []schema.FeatureName `json:"feature_names"`
	ImputerMedians []float64            `json:"imputer_medians"`

	Logistic *LogisticParams `json:"logistic,omitempty"`
	Forest   *ForestParams   `json:"forest,omitempty"`
}

// LogisticParams holds the fitted logistic-regression pipeline: standard
// scaler statistics plus coefficients and intercept.
type LogisticParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	ScalerMean   []float64 `json:"scaler_mean"`
	ScalerScale  []float64 `json:"scaler_scale"`
}

// ForestParams holds a fitted random forest as flattened decision trees.
type ForestParams struct {
	Trees []Tree `json:"trees"`
}

// Tree is one decision tree; nodes are indexed, node 0 is the root.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode is a split node or, when Leaf is true, a terminal node whose Value
// is the positive-class probability at that leaf.
type TreeNode struct {
	Feature   int     `json:"feature"` // Index into FeatureNames, split nodes only
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`  // Child index when value <= Threshold
	Right     int     `json:"right"` // Child index when value > Threshold
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// Load reads and validates a model artifact, returning a ready classifier.
// It fails with ErrModelIncompatible when the artifact cannot be used.
func Load(path string) (contract.Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %q: %w", path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: artifact %q is not valid JSON: %v", schema.ErrModelIncompatible, path, err)
	}
	return newClassifier(&art)
}

// newClassifier validates artifact internals and builds the classifier.
func newClassifier(art *Artifact) (contract.Classifier, error) {
	if art.SchemaVersion != currentArtifactVersion {
		return nil, fmt.Errorf("%w: artifact schema version %d, this build reads version %d",
			schema.ErrModelIncompatible, art.SchemaVersion, currentArtifactVersion)
	}
	if len(art.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: artifact declares no features", schema.ErrModelIncompatible)
	}
	if len(art.ImputerMedians) != 0 && len(art.ImputerMedians) != len(art.FeatureNames) {
		return nil, fmt.Errorf("%w: %d imputer medians for %d features",
			schema.ErrModelIncompatible, len(art.ImputerMedians), len(art.FeatureNames))
	}

	switch art.ModelType {
	case TypeLogistic:
		p := art.Logistic
		if p == nil {
			return nil, fmt.Errorf("%w: logistic_regression artifact has no logistic parameters", schema.ErrModelIncompatible)
		}
		n := len(art.FeatureNames)
		if len(p.Coefficients) != n || len(p.ScalerMean) != n || len(p.ScalerScale) != n {
			return nil, fmt.Errorf("%w: logistic parameter lengths do not match %d features",
				schema.ErrModelIncompatible, n)
		}
		return &logisticModel{base: base(art), params: p}, nil

	case TypeRandomForest:
		p := art.Forest
		if p == nil || len(p.Trees) == 0 {
			return nil, fmt.Errorf("%w: random_forest artifact has no trees", schema.ErrModelIncompatible)
		}
		for ti, tree := range p.Trees {
			if err := validateTree(tree, len(art.FeatureNames)); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", schema.ErrModelIncompatible, ti, err)
			}
		}
		return &forestModel{base: base(art), params: p}, nil

	default:
		return nil, fmt.Errorf("%w: unknown model type %q", schema.ErrModelIncompatible, art.ModelType)
	}
}

// validateTree checks node indices so scoring cannot walk out of bounds or
// loop. Children must point strictly forward, which rules out cycles.
func validateTree(tree Tree, featureCount int) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range tree.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= featureCount {
			return fmt.Errorf("node %d references feature %d of %d", i, n.Feature, featureCount)
		}
		if n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
			return fmt.Errorf("node %d has child out of range", i)
		}
		if n.Left <= i || n.Right <= i {
			return fmt.Errorf("node %d has non-forward child", i)
		}
	}
	return nil
}

// Loader owns a classifier loaded from a file path. The artifact is read once
// and treated as immutable; Reload is the only way to pick up a new file.
type Loader struct {
	mu   sync.RWMutex
	path string
	clf  contract.Classifier
}

// NewLoader loads the artifact at path and returns a reloadable handle.
func NewLoader(path string) (*Loader, error) {
	clf, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, clf: clf}, nil
}

// Classifier returns the currently loaded classifier.
func (l *Loader) Classifier() contract.Classifier {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.clf
}

// Reload re-reads the artifact file. On failure the previous classifier stays
// active and the error is returned.
func (l *Loader) Reload() error {
	clf, err := Load(l.path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.clf = clf
	l.mu.Unlock()
	return nil
}
