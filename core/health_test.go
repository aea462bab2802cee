package core

import (
	"testing"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeHealth tests score composition and worst-first ordering.
func TestComputeHealth(t *testing.T) {
	kpis := []schema.KPIRow{
		{MachineID: "GOOD", OEE: 0.9, Availability: 0.95, Quality: 0.99},
		{MachineID: "BAD", OEE: 0.2, Availability: 0.4, Quality: 0.7},
	}
	energy := []schema.EnergyRow{
		{MachineID: "GOOD", PeakKW: 20},
		{MachineID: "GOOD", PeakKW: 20},
		{MachineID: "BAD", PeakKW: 10},
		{MachineID: "BAD", PeakKW: 50},
	}

	reports := ComputeHealth(kpis, energy)
	require.Len(t, reports, 2)

	// Worst machine first
	assert.Equal(t, "BAD", reports[0].MachineID)
	assert.Equal(t, "GOOD", reports[1].MachineID)
	assert.Less(t, reports[0].HealthScore, reports[1].HealthScore)

	good := reports[1]
	// Steady peaks give full stability credit
	assert.InDelta(t, 0.9*40+0.95*30+0.99*20+1.0*10, good.HealthScore, 0.001)
	assert.Equal(t, schema.LowBand, good.Band)

	// Breakdown components sum to the score
	var sum float64
	for _, v := range good.Breakdown {
		sum += v
	}
	assert.InDelta(t, good.HealthScore, sum, 1e-9)

	// No counted units, so the scrap component is perfect
	assert.InDelta(t, (0.9*0.4+1.0*0.3+1.0*0.3)*100, good.Sustainability, 0.001)
}

// TestSustainabilityScore tests the OEE, energy and scrap weighting.
func TestSustainabilityScore(t *testing.T) {
	tests := []struct {
		name        string
		oee         float64
		stability   float64
		good, scrap int
		expected    float64
	}{
		{name: "perfect machine", oee: 1, stability: 1, good: 100, scrap: 0, expected: 100},
		{name: "scrap drags the score", oee: 1, stability: 1, good: 50, scrap: 50, expected: 85},
		{name: "no units counted", oee: 0.5, stability: 0.5, good: 0, scrap: 0, expected: 65},
		{name: "all scrap", oee: 0, stability: 0, good: 0, scrap: 10, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sustainabilityScore(tt.oee, tt.stability, tt.good, tt.scrap), 0.001)
		})
	}
}

// TestComputeHealthBands tests the score-to-band mapping.
func TestComputeHealthBands(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected schema.RiskBand
	}{
		{name: "low risk", score: 85, expected: schema.LowBand},
		{name: "low floor", score: 80, expected: schema.LowBand},
		{name: "medium risk", score: 70, expected: schema.MediumBand},
		{name: "medium floor", score: 60, expected: schema.MediumBand},
		{name: "high risk", score: 30, expected: schema.HighBand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, healthBand(tt.score))
		})
	}
}

// TestComputeHealthOmitsMachinesWithoutKPIs tests that energy-only machines
// get no report.
func TestComputeHealthOmitsMachinesWithoutKPIs(t *testing.T) {
	energy := []schema.EnergyRow{{MachineID: "ORPHAN", PeakKW: 10}}
	reports := ComputeHealth(nil, energy)
	assert.Empty(t, reports)
}

// TestEnergyStability tests the coefficient-of-variation mapping.
func TestEnergyStability(t *testing.T) {
	assert.Equal(t, 1.0, energyStability(nil), "no data is not penalized")
	assert.Equal(t, 1.0, energyStability([]float64{15, 15, 15}))
	assert.Less(t, energyStability([]float64{5, 50}), energyStability([]float64{20, 22}))
	assert.GreaterOrEqual(t, energyStability([]float64{1, 100, 1, 100}), 0.0)
}
