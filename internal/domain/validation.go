package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountNameLength     = 255
	MinAccountNameLength     = 1
	MaxEntriesPerTransaction = 1000
	MinEntryAmount           = "0.01"
	MaxEntryAmount           = "1000000000000" // 1 trillion
)

var (
	minEntryAmount = decimal.RequireFromString(MinEntryAmount)
	maxEntryAmount = decimal.RequireFromString(MaxEntryAmount)
	maxEntryMinor  = ToMinorUnits(maxEntryAmount)
)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a wire amount before it is converted to minor units.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(minEntryAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrInvalidAmount, MinEntryAmount)
	}

	if amount.GreaterThan(maxEntryAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxEntryAmount)
	}

	return nil
}

// ValidateID checks that id is a UUID and returns its canonical form.
func ValidateID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}
	return parsed.String(), nil
}

// ValidateEntries checks the business rules of a transaction's entries.
// Debit and credit totals are summed separately in minor units and must match.
func ValidateEntries(entries []*Entry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction needs at least two entries, got %d", ErrInvalidEntries, len(entries))
	}

	if len(entries) > MaxEntriesPerTransaction {
		return fmt.Errorf("%w: a transaction can have at most %d entries", ErrInvalidEntries, MaxEntriesPerTransaction)
	}

	for i, e := range entries {
		if !e.Direction.Valid() {
			return fmt.Errorf("entry %d: %w", i, ErrInvalidDirection)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("entry %d: %w: must be positive", i, ErrInvalidAmount)
		}
		if e.Amount > maxEntryMinor {
			return fmt.Errorf("entry %d: %w: maximum amount is %s", i, ErrInvalidAmount, MaxEntryAmount)
		}
	}

	debits, credits := sumByDirection(entries)
	if debits == 0 || credits == 0 {
		return fmt.Errorf("%w: a transaction needs at least one debit and one credit entry", ErrInvalidEntries)
	}

	if debits != credits {
		return fmt.Errorf("%w: debits (%s) and credits (%s) must balance",
			ErrInvalidEntries, FormatMinorUnits(debits), FormatMinorUnits(credits))
	}

	return nil
}
