package core

import (
	"testing"
	"time"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func energyRec(machine string, day time.Time, hour int, kwh, kw float64) schema.EnergyRecord {
	return schema.EnergyRecord{
		Timestamp:   day.Add(time.Duration(hour) * time.Hour),
		MachineID:   machine,
		IntervalKWh: kwh,
		PowerKW:     kw,
	}
}

// TestDailyEnergy tests daily aggregation of meter readings.
func TestDailyEnergy(t *testing.T) {
	energy := []schema.EnergyRecord{
		energyRec("M1", testDay, 0, 10, 12),
		energyRec("M1", testDay, 1, 14, 20),
		energyRec("M1", testDay, 2, 6, 16),
	}
	production := []schema.ProductionRecord{prodRec("M1", 0, 300, 20, 2.0)}

	rows := DailyEnergy(energy, production, 0)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "M1", row.MachineID)
	assert.Equal(t, testDay, row.Date)
	assert.InDelta(t, 30.0, row.KWh, 0.001)
	assert.InDelta(t, 20.0, row.PeakKW, 0.001)
	assert.InDelta(t, 16.0, row.AvgKW, 0.001)
	assert.Equal(t, 300, row.GoodCount)
	assert.InDelta(t, 0.1, row.KWhPerGood, 0.001)
	assert.False(t, row.KWhPerGoodFlagged)
}

// TestDailyEnergyZeroGoodUnits tests the flagged zero for days without good
// production.
func TestDailyEnergyZeroGoodUnits(t *testing.T) {
	energy := []schema.EnergyRecord{energyRec("M1", testDay, 0, 25, 15)}

	rows := DailyEnergy(energy, nil, 0)
	require.Len(t, rows, 1)

	assert.Equal(t, 0.0, rows[0].KWhPerGood)
	assert.True(t, rows[0].KWhPerGoodFlagged)
}

// TestDailyEnergySpikes tests spike alerts against the trailing average peak.
func TestDailyEnergySpikes(t *testing.T) {
	day2 := testDay.AddDate(0, 0, 1)
	day3 := testDay.AddDate(0, 0, 2)
	energy := []schema.EnergyRecord{
		energyRec("M1", testDay, 0, 10, 20),
		energyRec("M1", day2, 0, 10, 21), // within 1.3x of 20
		energyRec("M1", day3, 0, 10, 40), // above 1.3x of (20+21)/2
	}

	rows := DailyEnergy(energy, nil, 1.3)
	require.Len(t, rows, 3)

	assert.False(t, rows[0].SpikeAlert, "first day has no baseline")
	assert.False(t, rows[1].SpikeAlert)
	assert.True(t, rows[2].SpikeAlert)
}

// TestDailyEnergySpikeBaselinePerMachine tests that spike baselines do not
// leak across machines.
func TestDailyEnergySpikeBaselinePerMachine(t *testing.T) {
	day2 := testDay.AddDate(0, 0, 1)
	energy := []schema.EnergyRecord{
		energyRec("M1", testDay, 0, 10, 5),
		energyRec("M1", day2, 0, 10, 5),
		energyRec("M2", testDay, 0, 10, 100), // huge peak vs M1, but M2's first day
	}

	rows := DailyEnergy(energy, nil, 1.3)
	require.Len(t, rows, 3)
	assert.False(t, rows[2].SpikeAlert)
}

// TestDailyEnergyEmpty tests that no readings yield nil.
func TestDailyEnergyEmpty(t *testing.T) {
	assert.Nil(t, DailyEnergy(nil, nil, 1.3))
}
