package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every request shape error.
	ErrValidation = errors.New("validation failed")

	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidDirection   = fmt.Errorf("%w: direction must be debit or credit", ErrValidation)
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrInvalidIDFormat    = fmt.Errorf("%w: invalid ID format", ErrValidation)

	// ErrInvalidEntries is a business rule failure of a transaction's entries.
	ErrInvalidEntries = errors.New("invalid entries")

	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrImmutableEntry means storage refused to update or delete a posted entry.
	ErrImmutableEntry = errors.New("transaction entries are immutable")

	// ErrConcurrencyFailure is returned when a lock or commit could not be
	// obtained. The request can be retried with the same transaction id.
	ErrConcurrencyFailure = errors.New("concurrent update conflict")

	ErrDuplicateTransaction = errors.New("transaction already exists")
	ErrDuplicateEntry       = errors.New("entry already exists")

	ErrLedgerInconsistent = errors.New("ledger is inconsistent")
)
