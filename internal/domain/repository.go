package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for the result store.
// Values are opaque encoded payloads; implementations only handle expiry.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AnalysisRecorder receives per-report counters (rows, bucket sizes, timings)
type AnalysisRecorder interface {
	ObserveAnalysis(summary Summary, elapsed time.Duration)
	ObserveStoreError(op string)
}
