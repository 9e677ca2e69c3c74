package dto

import (
	"time"

	"github.com/iho/ledger/internal/domain"
)

// AccountResponse represents an account in API responses. Balance is in
// major units with two decimals, e.g. "10.45".
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Direction string    `json:"direction"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Direction: string(a.Direction),
		Balance:   domain.FormatMinorUnits(a.Balance),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Amount    string    `json:"amount"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Entries   []*EntryResponse `json:"entries"`
	CreatedAt time.Time        `json:"createdAt"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	entries := make([]*EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = &EntryResponse{
			ID:        e.ID,
			AccountID: e.AccountID,
			Amount:    domain.FormatMinorUnits(e.Amount),
			Direction: string(e.Direction),
			CreatedAt: e.CreatedAt,
		}
	}

	return &TransactionResponse{
		ID:        t.ID,
		Name:      t.Name,
		Entries:   entries,
		CreatedAt: t.CreatedAt,
	}
}

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent             bool      `json:"consistent"`
	Accounts               int64     `json:"accounts"`
	MismatchedAccounts     int64     `json:"mismatchedAccounts"`
	UnbalancedTransactions int64     `json:"unbalancedTransactions"`
	CheckedAt              time.Time `json:"checkedAt"`
}

// ConsistencyFromDomain converts a consistency report to response.
func ConsistencyFromDomain(r *domain.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:             r.Consistent(),
		Accounts:               r.Accounts,
		MismatchedAccounts:     r.MismatchedAccounts,
		UnbalancedTransactions: r.UnbalancedTransactions,
		CheckedAt:              r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
