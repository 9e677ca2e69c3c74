package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency recomputes balances and transaction totals from entries.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	row, err := r.queries.CheckConsistency(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &domain.ConsistencyReport{
		CheckedAt:              time.Now().UTC(),
		Accounts:               row.AccountCount,
		MismatchedAccounts:     row.MismatchedAccounts,
		UnbalancedTransactions: row.UnbalancedTransactions,
	}, nil
}
