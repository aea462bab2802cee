package schema

import "time"

// DateOf truncates a timestamp to midnight UTC, the grouping key for all
// daily KPI aggregation.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BandThresholds holds the probability cutoffs for risk banding.
// A probability p maps to low when p < Low, medium when p < High,
// and high otherwise. Thresholds are configuration so operators can retune
// alerting sensitivity without retraining the model.
type BandThresholds struct {
	Low  float64 `json:"low"`  // Upper bound (exclusive) of the low band
	High float64 `json:"high"` // Upper bound (exclusive) of the medium band
}

// Band maps a probability to its risk band as a step function.
func (t BandThresholds) Band(probability float64) RiskBand {
	switch {
	case probability < t.Low:
		return LowBand
	case probability < t.High:
		return MediumBand
	default:
		return HighBand
	}
}

// Valid reports whether the thresholds are usable: both in [0,1] and ordered.
func (t BandThresholds) Valid() bool {
	return t.Low >= 0 && t.High <= 1 && t.Low < t.High
}
