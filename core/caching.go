package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/factorscope/factorscope/internal/contract"
)

// currentCacheVersion defines the version of the cache entry schema.
const currentCacheVersion = 1

// cacheTTL bounds how long a cached result may serve. Factory tables keep
// receiving rows, so entries go stale much faster than the underlying data
// becomes wrong; one hour keeps repeated page renders cheap without hiding
// fresh telemetry for long.
const cacheTTL = time.Hour

// cachedResult wraps a computation with result caching. Caching is purely an
// optimization: a nil store, a miss, or a decode failure all fall through to
// direct computation, never to an error. Stored entries are tagged with the
// analysis kind for status reporting.
func cachedResult[T any](store contract.CacheStore, key, kind string, compute func() (T, error)) (T, error) {
	if store == nil {
		return compute()
	}

	if data, version, ts, err := store.Get(key); err == nil {
		if version == currentCacheVersion && time.Since(time.Unix(ts, 0)) <= cacheTTL {
			var cached T
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := compute()
	if err != nil {
		return result, err
	}
	if data, err := json.Marshal(result); err == nil {
		_ = store.Set(key, data, kind, currentCacheVersion, time.Now().Unix())
	}
	return result, nil
}

// resultCacheKey creates a unique key from the data source identity, the
// analysis kind and the query parameters.
func resultCacheKey(sourceIdentity, kind string, cfg *contract.Config) string {
	key := fmt.Sprintf("%s:%s:%s:%s:%d:%d:%s:%d",
		sourceIdentity,
		kind,
		cfg.MachineID,
		cfg.Line,
		cfg.StartTime.Unix(),
		cfg.EndTime.Unix(),
		cfg.RollingWindow,
		cfg.MinRecords,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
