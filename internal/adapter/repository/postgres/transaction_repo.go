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

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts the transaction row. Entries are stored separately.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	var name *string
	if txn.Name != "" {
		name = &txn.Name
	}

	err := queriesFor(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:        txn.ID,
		Name:      name,
		CreatedAt: timeToPgTimestamptz(txn.CreatedAt),
	})
	return mapError(err)
}

// GetByID retrieves a committed transaction with its entries.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return getTransaction(ctx, r.queries, id)
}

// GetByIDTx retrieves a transaction with its entries inside tx.
func (r *TransactionRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return getTransaction(ctx, queriesFor(tx), id)
}

func getTransaction(ctx context.Context, queries *generated.Queries, id string) (*domain.Transaction, error) {
	row, err := queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, mapError(err)
	}

	entryRows, err := queries.ListEntriesByTransaction(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	txn := &domain.Transaction{
		ID:        row.ID,
		CreatedAt: row.CreatedAt.Time,
		Entries:   make([]*domain.Entry, 0, len(entryRows)),
	}
	if row.Name != nil {
		txn.Name = *row.Name
	}
	for _, er := range entryRows {
		txn.Entries = append(txn.Entries, rowToEntry(er))
	}

	return txn, nil
}
