package core

import (
	"testing"
	"time"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var featureOpts = FeatureOptions{
	Window:        24 * time.Hour,
	MinRecords:    1,
	FaultSentinel: 720 * time.Hour,
}

// TestBuildFeatureRowNoLookAhead tests that records after the as-of time
// never enter any statistic.
func TestBuildFeatureRowNoLookAhead(t *testing.T) {
	asOf := testDay.Add(12 * time.Hour)
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateRun, 3600, ""),
		eventRec("M1", 13, schema.StateDown, 3600, "BREAKDOWN"), // after asOf
	}
	production := []schema.ProductionRecord{
		prodRec("M1", 1, 100, 0, 2.0),
		prodRec("M1", 14, 100, 100, 9.0), // after asOf
	}
	energy := []schema.EnergyRecord{
		energyRec("M1", testDay, 1, 10, 15),
		energyRec("M1", testDay, 15, 99, 99), // after asOf
	}

	row, err := BuildFeatureRow("M1", events, production, energy, asOf, featureOpts)
	require.NoError(t, err)

	assert.Equal(t, 0.0, row.DowntimeRatio, "future downtime must not count")
	assert.Equal(t, 0.0, row.DownEvents)
	assert.InDelta(t, 2.0, row.AvgCycleTime, 0.001)
	assert.Equal(t, 0.0, row.ScrapRate)
	assert.InDelta(t, 15.0, row.AvgPowerKW, 0.001)
	assert.InDelta(t, 0.1, row.KWhPerGood, 0.001)
	assert.InDelta(t, featureOpts.FaultSentinel.Hours(), row.TimeSinceLastFault, 0.001,
		"future fault must not reset the sentinel")

	// The same instant replayed later must produce the identical row
	replay, err := BuildFeatureRow("M1", events, production, energy, asOf, featureOpts)
	require.NoError(t, err)
	assert.Equal(t, row, replay)
}

// TestBuildFeatureRowInsufficientHistory tests the minimum record guard.
func TestBuildFeatureRowInsufficientHistory(t *testing.T) {
	opts := featureOpts
	opts.MinRecords = 3
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateRun, 3600, ""),
		eventRec("M1", 1, schema.StateRun, 3600, ""),
	}

	_, err := BuildFeatureRow("M1", events, nil, nil, testDay.Add(2*time.Hour), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInsufficientHistory)
	assert.Contains(t, err.Error(), "M1")
}

// TestBuildFeatureRowFaultRecency tests time-since-last-fault and sentinel.
func TestBuildFeatureRowFaultRecency(t *testing.T) {
	asOf := testDay.Add(10 * time.Hour)

	t.Run("fault in history", func(t *testing.T) {
		events := []schema.EventRecord{
			eventRec("M1", 1, schema.StateDown, 1800, "BREAKDOWN"),
			eventRec("M1", 4, schema.StateDown, 1800, "BREAKDOWN"),
			eventRec("M1", 5, schema.StateDown, 600, "CHANGEOVER"), // not a fault
		}
		row, err := BuildFeatureRow("M1", events, nil, nil, asOf, featureOpts)
		require.NoError(t, err)
		assert.InDelta(t, 6.0, row.TimeSinceLastFault, 0.001, "most recent BREAKDOWN wins")
	})

	t.Run("no fault ever", func(t *testing.T) {
		events := []schema.EventRecord{eventRec("M1", 1, schema.StateRun, 3600, "")}
		row, err := BuildFeatureRow("M1", events, nil, nil, asOf, featureOpts)
		require.NoError(t, err)
		assert.Equal(t, 720.0, row.TimeSinceLastFault)
		assert.Positive(t, row.TimeSinceLastFault)
	})
}

// TestBuildFeatureRowWindowVsCumulative tests that windowed statistics exclude
// old records while runtime accumulates over the whole past.
func TestBuildFeatureRowWindowVsCumulative(t *testing.T) {
	asOf := testDay.Add(24 * time.Hour)
	old := testDay.Add(-48 * time.Hour)
	events := []schema.EventRecord{
		{Timestamp: old, MachineID: "M1", State: schema.StateRun, Duration: 7200},
		{Timestamp: old, MachineID: "M1", State: schema.StateDown, Duration: 3600, ReasonCode: "JAM"},
		eventRec("M1", 20, schema.StateRun, 3600, ""),
		eventRec("M1", 22, schema.StateDown, 3600, "JAM"),
	}

	row, err := BuildFeatureRow("M1", events, nil, nil, asOf, featureOpts)
	require.NoError(t, err)

	// Window covers only the last two events
	assert.InDelta(t, 0.5, row.DowntimeRatio, 0.001)
	assert.Equal(t, 1.0, row.DownEvents)

	// Runtime counts the old RUN event too: 7200 + 3600 seconds
	assert.InDelta(t, 3.0, row.RuntimeHours, 0.001)
}

// TestBuildFeatureRowOtherMachines tests that records from other machines are
// ignored entirely.
func TestBuildFeatureRowOtherMachines(t *testing.T) {
	asOf := testDay.Add(6 * time.Hour)
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateRun, 3600, ""),
		eventRec("M2", 1, schema.StateDown, 9999, "BREAKDOWN"),
	}

	row, err := BuildFeatureRow("M1", events, nil, nil, asOf, featureOpts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, row.DowntimeRatio)
	assert.Equal(t, 720.0, row.TimeSinceLastFault)
}

// TestBuildFeatureRows tests the per-machine batch builder skip behavior.
func TestBuildFeatureRows(t *testing.T) {
	machines := []schema.Machine{
		{MachineID: "M1", Line: "L1"},
		{MachineID: "M2", Line: "L1"}, // no events at all
	}
	events := []schema.EventRecord{eventRec("M1", 0, schema.StateRun, 3600, "")}

	rows, err := BuildFeatureRows(machines, events, nil, nil, testDay.Add(2*time.Hour), featureOpts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "M1", rows[0].MachineID)
}

// TestFeatureRowVector tests that the vector covers every canonical feature.
func TestFeatureRowVector(t *testing.T) {
	row := schema.FeatureRow{MachineID: "M1", AvgCycleTime: 2.5, RuntimeHours: 10}
	vec := row.Vector()

	require.Len(t, vec, len(schema.AllFeatureNames))
	for _, name := range schema.AllFeatureNames {
		_, ok := vec[name]
		assert.True(t, ok, "missing feature %s", name)
	}
	assert.Equal(t, 2.5, vec[schema.FeatureAvgCycleTime])
	assert.Equal(t, 10.0, vec[schema.FeatureRuntimeHours])
}
