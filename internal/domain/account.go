package domain

import (
	"fmt"
	"time"
)

// Direction is the side of the ledger an account or entry belongs to.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether d is one of the two ledger sides.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// ParseDirection converts s into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Account represents a ledger account. Balance is kept in minor units and is
// only ever changed by posting entries against the account.
type Account struct {
	ID        string
	Name      string
	Direction Direction
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Delta returns the signed balance change an entry causes on this account.
// Entries on the account's own side increase the balance, entries on the
// opposite side decrease it.
func (a *Account) Delta(entry *Entry) int64 {
	if entry.Direction == a.Direction {
		return entry.Amount
	}
	return -entry.Amount
}

// Apply returns the balance after posting entry.
func (a *Account) Apply(entry *Entry) int64 {
	return a.Balance + a.Delta(entry)
}
