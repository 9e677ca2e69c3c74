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

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// CreateIfAbsent inserts the account with a zero balance. When the id is
// already taken the stored account is returned and created is false.
func (r *AccountRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, bool, error) {
	queries := queriesFor(tx)

	row, err := queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		Name:      account.Name,
		Direction: string(account.Direction),
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
	if err == nil {
		return rowToAccount(row), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapError(err)
	}

	// ON CONFLICT DO NOTHING returned nothing: first write wins.
	existing, err := queries.GetAccountByID(ctx, account.ID)
	if err != nil {
		return nil, false, mapError(err)
	}
	return rowToAccount(existing), false, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, mapError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account with SELECT ... FOR UPDATE.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := queriesFor(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, mapError(err)
	}

	return rowToAccount(row), nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		Name:      row.Name,
		Direction: domain.Direction(row.Direction),
		Balance:   row.Balance,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
