package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/ledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// CreateIfAbsent inserts account unless an account with the same id exists.
	// It returns the stored account and whether this call inserted it.
	CreateIfAbsent(ctx context.Context, tx Transaction, account *domain.Account) (*domain.Account, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDForUpdate reads the account and holds an exclusive row lock on it
	// until tx ends.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	// Post stores entry and adds delta to its account balance as one write.
	// It returns the account balance after the write.
	Post(ctx context.Context, tx Transaction, entry *domain.Entry, delta int64) (int64, error)
	GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not produce a storable response.
	Release(ctx context.Context, key string) error
}

// Metrics records business level measurements.
type Metrics interface {
	TransactionPosted(entries int, duration time.Duration)
	TransactionReplayed()
	TransactionFailed(reason string)
	AccountCreated()
}

type nopMetrics struct{}

func (nopMetrics) TransactionPosted(int, time.Duration) {}
func (nopMetrics) TransactionReplayed()                 {}
func (nopMetrics) TransactionFailed(string)             {}
func (nopMetrics) AccountCreated()                      {}
