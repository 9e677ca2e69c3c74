package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Cash"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation parent, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		if err := ValidateAccountName(tooLong); !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.RequireFromString("0.01")); err != nil {
		t.Fatalf("expected minimum amount to be valid, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.009")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount below minimum, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge := decimal.RequireFromString(MaxEntryAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount above maximum, got %v", err)
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	got, err := ValidateID("3F2504E0-4F89-11D3-9A0C-0305E82C3301")
	if err != nil {
		t.Fatalf("expected valid uuid, got %v", err)
	}
	if got != "3f2504e0-4f89-11d3-9a0c-0305e82c3301" {
		t.Fatalf("expected canonical lower-case form, got %s", got)
	}

	if _, err := ValidateID("not-a-uuid"); !errors.Is(err, ErrInvalidIDFormat) {
		t.Fatalf("expected ErrInvalidIDFormat, got %v", err)
	}
}

func entry(d Direction, amount int64) *Entry {
	return &Entry{AccountID: "acc", Direction: d, Amount: amount}
}

func TestValidateEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []*Entry
		wantErr error
	}{
		{
			name:    "balanced pair",
			entries: []*Entry{entry(DirectionDebit, 10000), entry(DirectionCredit, 10000)},
		},
		{
			name: "balanced split",
			entries: []*Entry{
				entry(DirectionDebit, 10000),
				entry(DirectionCredit, 5000),
				entry(DirectionCredit, 5000),
			},
		},
		{
			name:    "no entries",
			entries: nil,
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "single entry",
			entries: []*Entry{entry(DirectionDebit, 100)},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "all debits",
			entries: []*Entry{entry(DirectionDebit, 100), entry(DirectionDebit, 100)},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "all credits",
			entries: []*Entry{entry(DirectionCredit, 100), entry(DirectionCredit, 100)},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "unbalanced",
			entries: []*Entry{entry(DirectionDebit, 10000), entry(DirectionCredit, 9999)},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "zero amount",
			entries: []*Entry{entry(DirectionDebit, 0), entry(DirectionCredit, 0)},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "bad direction",
			entries: []*Entry{entry("sideways", 100), entry(DirectionCredit, 100)},
			wantErr: ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntries(tt.entries)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateEntries_UnbalancedMessage(t *testing.T) {
	err := ValidateEntries([]*Entry{entry(DirectionDebit, 10000), entry(DirectionCredit, 9999)})
	if err == nil || !strings.Contains(err.Error(), "100.00") || !strings.Contains(err.Error(), "99.99") {
		t.Fatalf("expected totals in message, got %v", err)
	}
}

func TestValidateEntries_DecimalArtifacts(t *testing.T) {
	// 0.1 + 0.2 on one side against 0.3 on the other must balance exactly.
	entries := []*Entry{
		entry(DirectionDebit, ToMinorUnits(decimal.RequireFromString("0.1"))),
		entry(DirectionDebit, ToMinorUnits(decimal.RequireFromString("0.2"))),
		entry(DirectionCredit, ToMinorUnits(decimal.RequireFromString("0.3"))),
	}
	if err := ValidateEntries(entries); err != nil {
		t.Fatalf("expected balanced entries, got %v", err)
	}
}
