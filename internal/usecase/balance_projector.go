package usecase

import (
	"context"
	"fmt"

	"github.com/iho/ledger/internal/domain"
)

// BalanceProjector keeps account balances equal to the sum of their entries.
// It must only be called with accounts locked by the current transaction.
type BalanceProjector struct {
	entryRepo EntryRepository
}

// NewBalanceProjector creates a new BalanceProjector.
func NewBalanceProjector(entryRepo EntryRepository) *BalanceProjector {
	return &BalanceProjector{entryRepo: entryRepo}
}

// Post stores entry and moves account.Balance by the entry's signed delta.
// Balances are allowed to go negative; an overdraft rule would be checked here
// against account.Apply(entry) before the write.
func (p *BalanceProjector) Post(ctx context.Context, tx Transaction, account *domain.Account, entry *domain.Entry) error {
	if entry.AccountID != account.ID {
		return fmt.Errorf("entry %s targets account %s, got %s", entry.ID, entry.AccountID, account.ID)
	}

	balance, err := p.entryRepo.Post(ctx, tx, entry, account.Delta(entry))
	if err != nil {
		return err
	}

	account.Balance = balance
	account.UpdatedAt = entry.CreatedAt
	return nil
}
