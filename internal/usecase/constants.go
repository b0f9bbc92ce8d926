package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request is in flight.
	IdempotencyPending = "processing"

	// DefaultReportCacheTTL is how long rendered reports stay cached.
	// Records are immutable, so a long TTL only bounds memory use.
	DefaultReportCacheTTL = 7 * 24 * time.Hour
)
