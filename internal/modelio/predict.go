package modelio

import (
	"math"

	"github.com/factorscope/factorscope/schema"
)

// modelBase carries the pieces shared by both classifier kinds.
type modelBase struct {
	featureNames []schema.FeatureName
	medians      []float64
	version      string
}

func base(art *Artifact) modelBase {
	return modelBase{
		featureNames: art.FeatureNames,
		medians:      art.ImputerMedians,
		version:      art.ModelVersion,
	}
}

// FeatureNames returns the features the model was fit on, in fit order.
func (m *modelBase) FeatureNames() []schema.FeatureName {
	return m.featureNames
}

// Version returns the artifact's model version string.
func (m *modelBase) Version() string {
	return m.version
}

// vectorize maps the name-keyed features into fit order, imputing NaN values
// with the fitted medians. A feature missing from the map is a schema
// mismatch: the scorer never guesses or drops columns.
func (m *modelBase) vectorize(features map[schema.FeatureName]float64) ([]float64, error) {
	x := make([]float64, len(m.featureNames))
	for i, name := range m.featureNames {
		v, ok := features[name]
		if !ok {
			return nil, schema.MissingFeatureError(name)
		}
		if math.IsNaN(v) && len(m.medians) == len(m.featureNames) {
			v = m.medians[i]
		}
		x[i] = v
	}
	return x, nil
}

// logisticModel scores with a standard-scaled logistic regression.
type logisticModel struct {
	base   modelBase
	params *LogisticParams
}

func (m *logisticModel) FeatureNames() []schema.FeatureName { return m.base.FeatureNames() }
func (m *logisticModel) Version() string                    { return m.base.Version() }

// PredictProba returns sigmoid(w . scale(x) + b).
func (m *logisticModel) PredictProba(features map[schema.FeatureName]float64) (float64, error) {
	x, err := m.base.vectorize(features)
	if err != nil {
		return 0, err
	}

	z := m.params.Intercept
	for i, v := range x {
		scale := m.params.ScalerScale[i]
		if scale == 0 {
			scale = 1 // constant feature during fit; scaling is a no-op
		}
		z += m.params.Coefficients[i] * ((v - m.params.ScalerMean[i]) / scale)
	}
	return sigmoid(z), nil
}

// forestModel averages leaf probabilities across all trees.
type forestModel struct {
	base   modelBase
	params *ForestParams
}

func (m *forestModel) FeatureNames() []schema.FeatureName { return m.base.FeatureNames() }
func (m *forestModel) Version() string                    { return m.base.Version() }

// PredictProba walks every tree to a leaf and returns the mean leaf value.
func (m *forestModel) PredictProba(features map[schema.FeatureName]float64) (float64, error) {
	x, err := m.base.vectorize(features)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, tree := range m.params.Trees {
		sum += walkTree(tree, x)
	}
	p := sum / float64(len(m.params.Trees))
	return clampUnit(p), nil
}

// walkTree descends from the root to a leaf following threshold splits.
func walkTree(tree Tree, x []float64) float64 {
	node := tree.Nodes[0]
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = tree.Nodes[node.Left]
		} else {
			node = tree.Nodes[node.Right]
		}
	}
	return node.Value
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func clampUnit(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
