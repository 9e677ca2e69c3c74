package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/infrastructure/postgres/generated"
	"github.com/iho/ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. It has no update or
// delete operations; the schema rejects both.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Post inserts the entry and adds delta to the account balance in a single
// statement, so neither write can happen without the other.
func (r *EntryRepository) Post(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, delta int64) (int64, error) {
	balance, err := queriesFor(tx).PostEntry(ctx, generated.PostEntryParams{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		AccountID:     entry.AccountID,
		Direction:     string(entry.Direction),
		Amount:        entry.Amount,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
		Delta:         delta,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, mapError(err)
	}

	return balance, nil
}

// GetByTransaction retrieves entries for a transaction.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, mapError(err)
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

func rowToEntry(row generated.TransactionEntry) *domain.Entry {
	return &domain.Entry{
		ID:            row.ID,
		TransactionID: row.TransactionID,
		AccountID:     row.AccountID,
		Direction:     domain.Direction(row.Direction),
		Amount:        row.Amount,
		CreatedAt:     row.CreatedAt.Time,
	}
}
