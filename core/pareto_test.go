package core

import (
	"testing"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDowntimePareto tests reason aggregation, ordering and cumulative
// percentages.
func TestDowntimePareto(t *testing.T) {
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateDown, 70, "BREAKDOWN"),
		eventRec("M1", 1, schema.StateDown, 50, "BREAKDOWN"),
		eventRec("M2", 2, schema.StateDown, 80, "CHANGEOVER"),
		eventRec("M1", 3, schema.StateDown, 50, "STARVED"),
		eventRec("M1", 4, schema.StateRun, 9999, ""),       // non-DOWN ignored
		eventRec("M1", 5, schema.StateIdle, 500, "IGNORE"), // non-DOWN ignored
	}

	buckets := DowntimePareto(events)
	require.Len(t, buckets, 3)

	// BREAKDOWN 120, CHANGEOVER 80, STARVED 50; total 250
	assert.Equal(t, "BREAKDOWN", buckets[0].ReasonCode)
	assert.Equal(t, 1, buckets[0].Rank)
	assert.InDelta(t, 120.0, buckets[0].Downtime, 0.001)
	assert.InDelta(t, 0.48, buckets[0].Pct, 0.001)
	assert.InDelta(t, 0.48, buckets[0].CumPct, 0.001)

	assert.Equal(t, "CHANGEOVER", buckets[1].ReasonCode)
	assert.Equal(t, 2, buckets[1].Rank)
	assert.InDelta(t, 0.32, buckets[1].Pct, 0.001)
	assert.InDelta(t, 0.80, buckets[1].CumPct, 0.001)

	assert.Equal(t, "STARVED", buckets[2].ReasonCode)
	assert.Equal(t, 3, buckets[2].Rank)
	assert.InDelta(t, 0.20, buckets[2].Pct, 0.001)
	assert.InDelta(t, 1.0, buckets[2].CumPct, 0.001)
}

// TestDowntimeParetoTieBreak tests deterministic ordering for equal downtime.
func TestDowntimeParetoTieBreak(t *testing.T) {
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateDown, 100, "JAM"),
		eventRec("M1", 1, schema.StateDown, 100, "BREAKDOWN"),
	}

	buckets := DowntimePareto(events)
	require.Len(t, buckets, 2)
	assert.Equal(t, "BREAKDOWN", buckets[0].ReasonCode)
	assert.Equal(t, "JAM", buckets[1].ReasonCode)
}

// TestDowntimeParetoCumPctMonotonic tests that the cumulative column never
// decreases and ends at 1.
func TestDowntimeParetoCumPctMonotonic(t *testing.T) {
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateDown, 13, "A"),
		eventRec("M1", 1, schema.StateDown, 7, "B"),
		eventRec("M1", 2, schema.StateDown, 29, "C"),
		eventRec("M1", 3, schema.StateDown, 1, "D"),
	}

	buckets := DowntimePareto(events)
	require.NotEmpty(t, buckets)

	prev := 0.0
	for _, b := range buckets {
		assert.GreaterOrEqual(t, b.CumPct, prev)
		prev = b.CumPct
	}
	assert.InDelta(t, 1.0, buckets[len(buckets)-1].CumPct, 1e-9)
}

// TestDowntimeParetoNoDownEvents tests that runs without downtime yield nil.
func TestDowntimeParetoNoDownEvents(t *testing.T) {
	events := []schema.EventRecord{
		eventRec("M1", 0, schema.StateRun, 3600, ""),
		eventRec("M1", 1, schema.StateSetup, 600, ""),
	}
	assert.Nil(t, DowntimePareto(events))
	assert.Nil(t, DowntimePareto(nil))
}
