package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds how long a posting may hold row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultCacheTTL is how long immutable transactions stay in the read cache.
	DefaultCacheTTL = time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyInProgress is the value an IdempotencyStore holds for a key
	// whose first request has not finished.
	IdempotencyInProgress = "processing"
)
