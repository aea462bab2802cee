package core

import (
	"math"
	"testing"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns a fixed probability per machine feature vector,
// keyed by the downtime ratio feature for test control.
type stubClassifier struct {
	features []schema.FeatureName
	version  string
	proba    func(map[schema.FeatureName]float64) (float64, error)
}

func (s *stubClassifier) PredictProba(features map[schema.FeatureName]float64) (float64, error) {
	return s.proba(features)
}

func (s *stubClassifier) FeatureNames() []schema.FeatureName { return s.features }

func (s *stubClassifier) Version() string { return s.version }

func newStubClassifier(p float64) *stubClassifier {
	return &stubClassifier{
		features: schema.AllFeatureNames,
		version:  "test-1",
		proba:    func(map[schema.FeatureName]float64) (float64, error) { return p, nil },
	}
}

var testThresholds = schema.BandThresholds{Low: 0.3, High: 0.7}

// TestNewRiskScorer tests classifier compatibility validation.
func TestNewRiskScorer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := NewRiskScorer(newStubClassifier(0.5), testThresholds)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("nil classifier", func(t *testing.T) {
		_, err := NewRiskScorer(nil, testThresholds)
		assert.ErrorIs(t, err, schema.ErrModelIncompatible)
	})

	t.Run("unknown feature", func(t *testing.T) {
		clf := newStubClassifier(0.5)
		clf.features = []schema.FeatureName{"vibration_rms"}
		_, err := NewRiskScorer(clf, testThresholds)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrModelIncompatible)
		assert.Contains(t, err.Error(), "vibration_rms")
	})

	t.Run("invalid thresholds", func(t *testing.T) {
		_, err := NewRiskScorer(newStubClassifier(0.5), schema.BandThresholds{Low: 0.8, High: 0.2})
		assert.Error(t, err)
	})
}

// TestRiskScorerScore tests probability banding and metadata.
func TestRiskScorerScore(t *testing.T) {
	tests := []struct {
		name     string
		proba    float64
		expected schema.RiskBand
	}{
		{name: "low band", proba: 0.1, expected: schema.LowBand},
		{name: "low boundary is medium", proba: 0.3, expected: schema.MediumBand},
		{name: "medium band", proba: 0.5, expected: schema.MediumBand},
		{name: "high boundary is high", proba: 0.7, expected: schema.HighBand},
		{name: "high band", proba: 0.95, expected: schema.HighBand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRiskScorer(newStubClassifier(tt.proba), testThresholds)
			require.NoError(t, err)

			row := schema.FeatureRow{MachineID: "M1", AsOfTime: testDay}
			score, err := s.Score(&row)
			require.NoError(t, err)

			assert.Equal(t, "M1", score.MachineID)
			assert.Equal(t, testDay, score.AsOfTime)
			assert.Equal(t, tt.proba, score.Probability)
			assert.Equal(t, tt.expected, score.Band)
			assert.Equal(t, "test-1", score.ModelVersion)
		})
	}
}

// TestRiskScorerRejectsBadProbability tests that out-of-range model output
// fails instead of propagating.
func TestRiskScorerRejectsBadProbability(t *testing.T) {
	for _, p := range []float64{-0.1, 1.5, math.NaN()} {
		s, err := NewRiskScorer(newStubClassifier(p), testThresholds)
		require.NoError(t, err)

		_, err = s.Score(&schema.FeatureRow{MachineID: "M1"})
		assert.ErrorIs(t, err, schema.ErrModelIncompatible)
	}
}

// TestRiskScorerScoreAll tests batch scoring and probability-descending order.
func TestRiskScorerScoreAll(t *testing.T) {
	clf := newStubClassifier(0)
	clf.proba = func(features map[schema.FeatureName]float64) (float64, error) {
		// Use the downtime ratio feature as the probability for ordering control
		return features[schema.FeatureDowntimeRatio], nil
	}
	s, err := NewRiskScorer(clf, testThresholds)
	require.NoError(t, err)

	rows := []schema.FeatureRow{
		{MachineID: "M1", DowntimeRatio: 0.2},
		{MachineID: "M2", DowntimeRatio: 0.9},
		{MachineID: "M3", DowntimeRatio: 0.5},
	}
	scores, err := s.ScoreAll(rows)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Equal(t, "M2", scores[0].MachineID)
	assert.Equal(t, "M3", scores[1].MachineID)
	assert.Equal(t, "M1", scores[2].MachineID)
}
