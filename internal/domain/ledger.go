package domain

import "time"

// ConsistencyReport is the outcome of checking the ledger invariants in storage.
type ConsistencyReport struct {
	CheckedAt time.Time
	// Accounts is the number of accounts inspected.
	Accounts int64
	// MismatchedAccounts counts accounts whose balance differs from the
	// signed sum of their entries.
	MismatchedAccounts int64
	// UnbalancedTransactions counts transactions whose debit and credit
	// totals differ.
	UnbalancedTransactions int64
}

// Consistent reports whether both invariants hold.
func (r *ConsistencyReport) Consistent() bool {
	return r.MismatchedAccounts == 0 && r.UnbalancedTransactions == 0
}
