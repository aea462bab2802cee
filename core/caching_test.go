package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/iocache"
	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestCachedResultNilStore tests that a missing store computes directly.
func TestCachedResultNilStore(t *testing.T) {
	calls := 0
	result, err := cachedResult(nil, "key", "oee", func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

// TestCachedResultHit tests that a fresh entry short-circuits computation.
func TestCachedResultHit(t *testing.T) {
	data, err := json.Marshal([]schema.KPIRow{{MachineID: "M1", OEE: 0.5}})
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", "key").Return(data, currentCacheVersion, time.Now().Unix(), nil)

	rows, err := cachedResult(store, "key", "oee", func() ([]schema.KPIRow, error) {
		t.Fatal("compute must not run on a cache hit")
		return nil, nil
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "M1", rows[0].MachineID)
	store.AssertExpectations(t)
}

// TestCachedResultMiss tests that a miss computes and stores the result.
func TestCachedResultMiss(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", "key").Return([]byte(nil), 0, int64(0), errors.New("cache miss"))
	store.On("Set", "key", mock.Anything, "energy", currentCacheVersion, mock.Anything).Return(nil)

	result, err := cachedResult(store, "key", "energy", func() (string, error) {
		return "computed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "computed", result)
	store.AssertExpectations(t)
}

// TestCachedResultStaleEntries tests that version and TTL mismatches fall
// through to computation.
func TestCachedResultStaleEntries(t *testing.T) {
	data, _ := json.Marshal("cached")

	tests := []struct {
		name    string
		version int
		ts      int64
	}{
		{name: "old version", version: currentCacheVersion + 1, ts: time.Now().Unix()},
		{name: "expired", version: currentCacheVersion, ts: time.Now().Add(-2 * cacheTTL).Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "key").Return(data, tt.version, tt.ts, nil)
			store.On("Set", "key", mock.Anything, "oee", currentCacheVersion, mock.Anything).Return(nil)

			result, err := cachedResult(store, "key", "oee", func() (string, error) {
				return "fresh", nil
			})
			require.NoError(t, err)
			assert.Equal(t, "fresh", result)
		})
	}
}

// TestCachedResultComputeError tests that failures never reach the store.
func TestCachedResultComputeError(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", "key").Return([]byte(nil), 0, int64(0), errors.New("cache miss"))

	_, err := cachedResult(store, "key", "oee", func() ([]schema.KPIRow, error) {
		return nil, schema.ErrNoData
	})
	assert.ErrorIs(t, err, schema.ErrNoData)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestResultCacheKey tests key determinism and sensitivity.
func TestResultCacheKey(t *testing.T) {
	base := &contract.Config{
		MachineID:     "M1",
		Line:          "L1",
		StartTime:     time.Unix(1000, 0),
		EndTime:       time.Unix(2000, 0),
		RollingWindow: 24 * time.Hour,
		MinRecords:    10,
	}

	key1 := resultCacheKey("sqlite:db", "oee", base)
	key2 := resultCacheKey("sqlite:db", "oee", base)
	assert.Equal(t, key1, key2, "same inputs must give the same key")
	assert.Len(t, key1, 64, "sha256 hex digest")

	assert.NotEqual(t, key1, resultCacheKey("sqlite:db", "pareto", base), "kind must change the key")
	assert.NotEqual(t, key1, resultCacheKey("mysql:db", "oee", base), "source identity must change the key")

	other := *base
	other.MachineID = "M2"
	assert.NotEqual(t, key1, resultCacheKey("sqlite:db", "oee", &other), "scope must change the key")
}
