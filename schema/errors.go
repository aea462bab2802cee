package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers match with errors.Is; the
// wrapped messages carry the offending column or feature name.
var (
	// ErrSchemaMismatch means a required column or model feature is missing or
	// misnamed. The core never guesses column positions or reorders features.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInsufficientHistory means too few records precede the as-of time for a
	// rolling computation. The caller decides whether to skip or impute.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrModelIncompatible means the model artifact's version, type or feature
	// list is not usable with this build.
	ErrModelIncompatible = errors.New("model incompatible")

	// ErrNoData means the query returned no records for the requested range.
	ErrNoData = errors.New("no data")
)

// MissingColumnError reports a required column absent from a query result.
func MissingColumnError(table, column string) error {
	return fmt.Errorf("%w: table %q is missing required column %q", ErrSchemaMismatch, table, column)
}

// MissingFeatureError reports a model feature absent from a feature row.
func MissingFeatureError(feature FeatureName) error {
	return fmt.Errorf("%w: feature row is missing model feature %q", ErrSchemaMismatch, feature)
}

// IsInsufficientHistory reports whether err is an insufficient-history failure.
func IsInsufficientHistory(err error) bool {
	return errors.Is(err, ErrInsufficientHistory)
}

// InsufficientHistoryError reports too few records before the as-of time.
func InsufficientHistoryError(machineID string, have, want int) error {
	return fmt.Errorf("%w: machine %q has %d records before as-of time, need at least %d",
		ErrInsufficientHistory, machineID, have, want)
}
