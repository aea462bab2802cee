package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTotalCount tests the good plus scrap sum.
func TestTotalCount(t *testing.T) {
	rec := ProductionRecord{GoodCount: 90, ScrapCount: 10}
	assert.Equal(t, 100, rec.TotalCount())

	assert.Equal(t, 0, ProductionRecord{}.TotalCount())
}

// TestDateOf tests midnight UTC truncation.
func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	tests := []struct {
		name     string
		ts       time.Time
		expected time.Time
	}{
		{
			name:     "mid-day UTC",
			ts:       time.Date(2026, 3, 2, 14, 30, 45, 123, time.UTC),
			expected: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "already midnight",
			ts:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zoned timestamp crosses date line",
			ts:       time.Date(2026, 3, 2, 3, 0, 0, 0, loc), // 2026-03-01T18:00Z
			expected: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateOf(tt.ts))
		})
	}
}

// TestBandThresholds tests the probability step function and validation.
func TestBandThresholds(t *testing.T) {
	thresholds := BandThresholds{Low: 0.3, High: 0.7}

	assert.Equal(t, LowBand, thresholds.Band(0.0))
	assert.Equal(t, LowBand, thresholds.Band(0.29))
	assert.Equal(t, MediumBand, thresholds.Band(0.3), "low bound is exclusive")
	assert.Equal(t, MediumBand, thresholds.Band(0.69))
	assert.Equal(t, HighBand, thresholds.Band(0.7), "high bound is exclusive")
	assert.Equal(t, HighBand, thresholds.Band(1.0))

	assert.True(t, thresholds.Valid())
	assert.False(t, BandThresholds{Low: 0.7, High: 0.3}.Valid())
	assert.False(t, BandThresholds{Low: -0.1, High: 0.5}.Valid())
	assert.False(t, BandThresholds{Low: 0.5, High: 1.1}.Valid())
	assert.False(t, BandThresholds{Low: 0.5, High: 0.5}.Valid())
}

// TestErrorTaxonomy tests sentinel wrapping and errors.Is matching.
func TestErrorTaxonomy(t *testing.T) {
	err := MissingColumnError("production", "good_count")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "production")
	assert.Contains(t, err.Error(), "good_count")

	err = MissingFeatureError(FeatureScrapRate)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "scrap_rate")

	err = InsufficientHistoryError("M1", 3, 10)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.True(t, IsInsufficientHistory(err))
	assert.Contains(t, err.Error(), "M1")

	assert.False(t, IsInsufficientHistory(errors.New("other")))
	assert.False(t, IsInsufficientHistory(nil))
}

// TestValidMaps tests membership of the enumerated constants.
func TestValidMaps(t *testing.T) {
	for _, mode := range []OutputMode{CSVOut, TextOut, JSONOut, ParquetOut} {
		_, ok := ValidOutputModes[mode]
		assert.True(t, ok, "mode %s", mode)
	}
	_, ok := ValidOutputModes["xml"]
	assert.False(t, ok)

	for _, backend := range []DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend} {
		_, ok := ValidDatabaseBackends[backend]
		assert.True(t, ok, "backend %s", backend)
	}

	for _, state := range []MachineState{StateRun, StateDown, StateIdle, StateSetup} {
		_, ok := ValidMachineStates[state]
		assert.True(t, ok, "state %s", state)
	}
	_, ok = ValidMachineStates["BROKEN"]
	assert.False(t, ok)
}
