package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	ID        string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name      string `json:"name"         validate:"required,min=1,max=255"`
	Direction string `json:"direction"    validate:"required,oneof=debit credit"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ID:        r.ID,
		Name:      r.Name,
		Direction: domain.Direction(r.Direction),
	}
}

// EntryRequest is one entry of CreateTransactionRequest.
type EntryRequest struct {
	ID        string          `json:"id,omitempty" validate:"omitempty,uuid"`
	AccountID string          `json:"accountId"    validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"       validate:"money"`
	Direction string          `json:"direction"    validate:"required,oneof=debit credit"`
}

// CreateTransactionRequest represents a request to post a transaction.
// The entry count and balance are business rules checked by the engine.
type CreateTransactionRequest struct {
	ID      string         `json:"id,omitempty"   validate:"omitempty,uuid"`
	Name    string         `json:"name,omitempty" validate:"max=255"`
	Entries []EntryRequest `json:"entries"        validate:"required,dive"`
}

// ToUseCaseInput converts to use case input, truncating amounts to minor
// units.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	entries := make([]usecase.EntryInput, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = usecase.EntryInput{
			ID:        e.ID,
			AccountID: e.AccountID,
			Direction: domain.Direction(e.Direction),
			Amount:    domain.ToMinorUnits(e.Amount),
		}
	}

	return usecase.CreateTransactionInput{
		ID:      r.ID,
		Name:    r.Name,
		Entries: entries,
	}
}
