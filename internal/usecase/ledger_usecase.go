package usecase

import (
	"context"
	"fmt"

	"github.com/iho/ledger/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that every account balance equals the signed sum
// of its entries and that every transaction balances.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	report, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	if !report.Consistent() {
		return report, fmt.Errorf("%w: %d mismatched accounts, %d unbalanced transactions",
			domain.ErrLedgerInconsistent, report.MismatchedAccounts, report.UnbalancedTransactions)
	}

	return report, nil
}
