// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/factorscope/factorscope/schema"
)

// DataSource defines the read operations the analysis core needs from storage.
// This allows the KPI and feature logic to be tested without a real database.
// Implementations must scan columns by name and surface ErrSchemaMismatch when
// a required column is absent.
type DataSource interface {
	// LoadMachines returns the machine master data, ordered by line then machine ID.
	LoadMachines(ctx context.Context) ([]schema.Machine, error)

	// LoadProduction returns production count records matching the filter,
	// ordered by machine ID then timestamp.
	LoadProduction(ctx context.Context, filter schema.QueryFilter) ([]schema.ProductionRecord, error)

	// LoadEvents returns machine state events matching the filter,
	// ordered by machine ID then timestamp.
	LoadEvents(ctx context.Context, filter schema.QueryFilter) ([]schema.EventRecord, error)

	// LoadEnergy returns energy meter records matching the filter,
	// ordered by machine ID then timestamp.
	LoadEnergy(ctx context.Context, filter schema.QueryFilter) ([]schema.EnergyRecord, error)

	// LoadOrders returns all production orders, ordered by due time.
	LoadOrders(ctx context.Context) ([]schema.OrderRecord, error)

	// LoadOrderSteps returns all order routing steps, ordered by order then
	// step number.
	LoadOrderSteps(ctx context.Context) ([]schema.OrderStepRecord, error)

	// Identity returns a stable string identifying the underlying database,
	// used as part of cache keys.
	Identity() string

	// Close releases the underlying connection.
	Close() error
}

// Classifier is the single capability the risk scorer depends on: mapping a
// name-keyed feature vector to a failure probability in [0,1]. Logistic
// regression and random forest artifacts are interchangeable behind it; no
// training logic lives on this side of the boundary.
type Classifier interface {
	// PredictProba returns the failure probability for the feature vector.
	// It fails with ErrSchemaMismatch when a fitted feature is missing from
	// the vector; it never silently drops or reorders features.
	PredictProba(features map[schema.FeatureName]float64) (float64, error)

	// FeatureNames returns the features the model was fit on, in fit order.
	FeatureNames() []schema.FeatureName

	// Version returns the artifact's model version string.
	Version() string
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing. Entries are tagged with the
// analysis kind that produced them so status reporting can break the cache
// down per analysis.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, kind string, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
