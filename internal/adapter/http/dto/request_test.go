package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
)

const (
	cashID    = "0190f1c2-7a3e-7b4d-9c1e-2f3a4b5c6d7e"
	revenueID = "0190f1c2-7a3e-7b4d-9c1e-2f3a4b5c6d7f"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{
		ID:        cashID,
		Name:      "Cash",
		Direction: "debit",
	}

	got := req.ToUseCaseInput()
	want := usecase.CreateAccountInput{
		ID:        cashID,
		Name:      "Cash",
		Direction: domain.DirectionDebit,
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestCreateTransactionRequest_ToUseCaseInputTruncates(t *testing.T) {
	req := &CreateTransactionRequest{
		Name: "sale",
		Entries: []EntryRequest{
			{AccountID: cashID, Amount: decimal.RequireFromString("10.459"), Direction: "debit"},
			{AccountID: revenueID, Amount: decimal.RequireFromString("10.45"), Direction: "credit"},
		},
	}

	got := req.ToUseCaseInput()

	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Entries))
	}
	if got.Entries[0].Amount != 1045 || got.Entries[1].Amount != 1045 {
		t.Fatalf("expected both amounts to be 1045 minor units, got %+v", got.Entries)
	}
	if got.Entries[0].Direction != domain.DirectionDebit {
		t.Fatalf("expected debit, got %s", got.Entries[0].Direction)
	}
}

func TestDecodeTransactionRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		field   string
	}{
		{
			name: "valid with numeric and string amounts",
			body: `{"entries":[{"accountId":"` + cashID + `","amount":10.45,"direction":"debit"},` +
				`{"accountId":"` + revenueID + `","amount":"10.45","direction":"credit"}]}`,
		},
		{
			name:    "malformed json",
			body:    `{"entries":`,
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown field",
			body:    `{"entries":[],"currency":"USD"}`,
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing entries",
			body:    `{"name":"x"}`,
			wantErr: domain.ErrValidation,
			field:   "entries",
		},
		{
			name:    "bad account id",
			body:    `{"entries":[{"accountId":"nope","amount":1,"direction":"debit"}]}`,
			wantErr: domain.ErrValidation,
			field:   "entries[0].accountId",
		},
		{
			name:    "bad direction",
			body:    `{"entries":[{"accountId":"` + cashID + `","amount":1,"direction":"up"}]}`,
			wantErr: domain.ErrValidation,
			field:   "entries[0].direction",
		},
		{
			name:    "amount below minimum",
			body:    `{"entries":[{"accountId":"` + cashID + `","amount":0.001,"direction":"debit"}]}`,
			wantErr: domain.ErrInvalidAmount,
			field:   "entries[0].amount",
		},
		{
			name:    "negative amount",
			body:    `{"entries":[{"accountId":"` + cashID + `","amount":-5,"direction":"debit"}]}`,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "bad transaction id",
			body:    `{"id":"123","entries":[]}`,
			wantErr: domain.ErrValidation,
			field:   "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateTransactionRequest
			err := Decode(strings.NewReader(tt.body), &req)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.field != "" && !strings.Contains(err.Error(), "'"+tt.field+"'") {
				t.Fatalf("expected error to name %s, got %v", tt.field, err)
			}
		})
	}
}

func TestDecodeEmptyEntriesIsNotASchemaError(t *testing.T) {
	var req CreateTransactionRequest
	if err := Decode(strings.NewReader(`{"entries":[]}`), &req); err != nil {
		t.Fatalf("entry count is a business rule, got %v", err)
	}
}

func TestDecodeAccountRequest(t *testing.T) {
	var req CreateAccountRequest

	if err := Decode(strings.NewReader(`{"name":"cash","direction":"debit"}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Decode(strings.NewReader(`{"name":"","direction":"debit"}`), &CreateAccountRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}
