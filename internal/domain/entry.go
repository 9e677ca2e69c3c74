package domain

import "time"

// Entry is a single debit or credit line of a transaction. Entries are
// append-only: once stored they are never updated or deleted.
type Entry struct {
	CreatedAt     time.Time
	ID            string
	TransactionID string
	AccountID     string
	Direction     Direction
	Amount        int64
}
