package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledger/internal/domain"
)

// TransactionUseCase posts balanced transactions. Every posting runs inside
// a single database transaction: the transaction row, its entries and the
// balance changes are all committed together or not at all.
type TransactionUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	projector       *BalanceProjector
	idGen           IDGenerator
	cache           Cache
	cacheTTL        time.Duration
	logger          zerolog.Logger
	metrics         Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		projector:       NewBalanceProjector(entryRepo),
		idGen:           idGen,
		cacheTTL:        DefaultCacheTTL,
		logger:          zerolog.Nop(),
		metrics:         nopMetrics{},
	}
}

// SetCache enables read-through caching of posted transactions.
func (uc *TransactionUseCase) SetCache(cache Cache, ttl time.Duration) {
	uc.cache = cache
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
}

// SetLogger sets the logger used for posting events.
func (uc *TransactionUseCase) SetLogger(logger zerolog.Logger) {
	uc.logger = logger.With().Str("component", "transactions").Logger()
}

// SetMetrics sets the metrics sink.
func (uc *TransactionUseCase) SetMetrics(m Metrics) {
	uc.metrics = m
}

// EntryInput is a single requested entry. Amount is in minor units.
type EntryInput struct {
	ID        string
	AccountID string
	Direction domain.Direction
	Amount    int64
}

// CreateTransactionInput represents input for posting a transaction.
type CreateTransactionInput struct {
	// ID is optional; a new id is generated when empty. Reusing an id returns
	// the stored transaction without posting again.
	ID      string
	Name    string
	Entries []EntryInput
}

// CreateTransaction validates and posts a transaction. A transaction whose id
// is already stored is returned as is; the request payload is not compared.
// Lock and commit conflicts are returned as domain.ErrConcurrencyFailure and
// are not retried here.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	txn, replayed, err := uc.post(ctx, input)
	if err != nil {
		reason := failureReason(err)
		uc.metrics.TransactionFailed(reason)
		if reason == "concurrency" || reason == "storage" {
			uc.logger.Warn().Err(err).Str("transaction_id", input.ID).Msg("transaction rolled back")
		}
		return nil, err
	}

	if replayed {
		uc.metrics.TransactionReplayed()
		uc.logger.Debug().Str("transaction_id", txn.ID).Msg("transaction already posted")
	} else {
		uc.metrics.TransactionPosted(len(txn.Entries), time.Since(start))
		uc.logger.Info().
			Str("transaction_id", txn.ID).
			Int("entries", len(txn.Entries)).
			Msg("transaction posted")
	}

	uc.cacheTransaction(ctx, txn)

	return txn, nil
}

func (uc *TransactionUseCase) post(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, bool, error) {
	// 1. Validate before touching storage
	entries, err := buildEntries(input.Entries)
	if err != nil {
		return nil, false, err
	}
	if err := domain.ValidateEntries(entries); err != nil {
		return nil, false, err
	}

	id, err := canonicalID(input.ID)
	if err != nil {
		return nil, false, err
	}
	if id == "" {
		id = uc.idGen.Generate()
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 2. Begin transaction
	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(txCtx)

	// 3. Idempotency: an already stored transaction is returned unchanged
	existing, err := uc.transactionRepo.GetByIDTx(txCtx, tx, id)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	txn := &domain.Transaction{
		ID:        id,
		Name:      input.Name,
		CreatedAt: now,
	}

	// 4. Insert the transaction row. A concurrent request with the same id
	// that committed first makes this fail; its result is returned instead.
	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			_ = tx.Rollback(txCtx)
			return uc.committedTransaction(ctx, id)
		}
		return nil, false, err
	}

	// 5. Lock accounts in sorted order (DEADLOCK PREVENTION)
	txn.Entries = entries
	accountIDs := txn.AccountIDs()
	sort.Strings(accountIDs)

	accounts := make(map[string]*domain.Account, len(accountIDs))
	for _, accountID := range accountIDs {
		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
		if err != nil {
			return nil, false, err
		}
		accounts[accountID] = account
	}

	// 6. Store entries and project balances
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = uc.idGen.Generate()
		}
		entry.TransactionID = id
		entry.CreatedAt = now

		if err := uc.projector.Post(txCtx, tx, accounts[entry.AccountID], entry); err != nil {
			return nil, false, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionPosted,
		Payload:       domain.NewTransactionPostedEvent(txn).ToMap(),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, false, err
	}

	// 7. Commit transaction
	if err := tx.Commit(txCtx); err != nil {
		return nil, false, err
	}

	return txn, false, nil
}

func (uc *TransactionUseCase) committedTransaction(ctx context.Context, id string) (*domain.Transaction, bool, error) {
	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			// The conflicting writer rolled back after all.
			return nil, false, domain.ErrConcurrencyFailure
		}
		return nil, false, err
	}
	return txn, true, nil
}

// GetTransaction retrieves a posted transaction with its entries.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, cacheKey(id))
		if err == nil {
			var txn domain.Transaction
			if err := json.Unmarshal(data, &txn); err == nil {
				return &txn, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("transaction_id", id).Msg("transaction cache read failed")
		}
	}

	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cacheTransaction(ctx, txn)
	return txn, nil
}

func (uc *TransactionUseCase) cacheTransaction(ctx context.Context, txn *domain.Transaction) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(txn)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, cacheKey(txn.ID), data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("transaction_id", txn.ID).Msg("transaction cache write failed")
	}
}

func cacheKey(id string) string {
	return "transaction:" + id
}

func buildEntries(inputs []EntryInput) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, in := range inputs {
		entryID, err := canonicalID(in.ID)
		if err != nil {
			return nil, err
		}
		if entryID != "" {
			if _, dup := seen[entryID]; dup {
				return nil, fmt.Errorf("%w: duplicate entry id %s", domain.ErrValidation, entryID)
			}
			seen[entryID] = struct{}{}
		}
		// Account ids are canonicalized so case variants sort and lock as one row.
		accountID, err := domain.ValidateID(in.AccountID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &domain.Entry{
			ID:        entryID,
			AccountID: accountID,
			Direction: in.Direction,
			Amount:    in.Amount,
		})
	}

	return entries, nil
}

// canonicalID returns the canonical form of a client supplied id, or "" when
// none was supplied.
func canonicalID(id string) (string, error) {
	if id == "" {
		return "", nil
	}
	return domain.ValidateID(id)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvalidEntries):
		return "invalid_entries"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrConcurrencyFailure), errors.Is(err, domain.ErrDuplicateEntry):
		return "concurrency"
	default:
		return "storage"
	}
}
