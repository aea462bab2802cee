package core

import (
	"fmt"
	"math"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
)

// RiskScorer maps feature rows to failure probabilities and risk bands using
// an externally supplied, pre-fit classifier. No training logic lives here.
type RiskScorer struct {
	clf        contract.Classifier
	thresholds schema.BandThresholds
}

// NewRiskScorer validates that every feature the classifier was fit on is one
// the feature builder produces, then returns a ready scorer. A model fit on
// unknown features fails with ErrModelIncompatible up front rather than at
// the first scoring call.
func NewRiskScorer(clf contract.Classifier, thresholds schema.BandThresholds) (*RiskScorer, error) {
	if clf == nil {
		return nil, fmt.Errorf("%w: no classifier supplied", schema.ErrModelIncompatible)
	}
	if !thresholds.Valid() {
		return nil, fmt.Errorf("invalid band thresholds low=%.3f high=%.3f", thresholds.Low, thresholds.High)
	}

	known := make(map[schema.FeatureName]struct{}, len(schema.AllFeatureNames))
	for _, name := range schema.AllFeatureNames {
		known[name] = struct{}{}
	}
	for _, name := range clf.FeatureNames() {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: model expects feature %q which the feature builder does not produce",
				schema.ErrModelIncompatible, name)
		}
	}
	return &RiskScorer{clf: clf, thresholds: thresholds}, nil
}

// Score maps one feature row to a risk score. The classifier receives the
// row as a name-keyed vector, so column order can never silently drift; a
// missing feature fails with ErrSchemaMismatch.
func (s *RiskScorer) Score(row *schema.FeatureRow) (schema.RiskScore, error) {
	p, err := s.clf.PredictProba(row.Vector())
	if err != nil {
		return schema.RiskScore{}, fmt.Errorf("scoring machine %q: %w", row.MachineID, err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return schema.RiskScore{}, fmt.Errorf("%w: model returned probability %f outside [0,1]",
			schema.ErrModelIncompatible, p)
	}

	return schema.RiskScore{
		MachineID:    row.MachineID,
		AsOfTime:     row.AsOfTime,
		Probability:  p,
		Band:         s.thresholds.Band(p),
		ModelVersion: s.clf.Version(),
	}, nil
}

// ScoreAll scores every feature row and returns the results sorted by
// probability descending, so the riskiest machines rank first.
func (s *RiskScorer) ScoreAll(rows []schema.FeatureRow) ([]schema.RiskScore, error) {
	scores := make([]schema.RiskScore, 0, len(rows))
	for i := range rows {
		score, err := s.Score(&rows[i])
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	sortScores(scores)
	return scores, nil
}
