package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
	"github.com/iho/ledger/internal/usecase/mocks"
)

func TestBalanceProjector_Post(t *testing.T) {
	tests := []struct {
		name        string
		account     domain.Direction
		entry       domain.Direction
		wantDelta   int64
		wantBalance int64
	}{
		{"same side increases", domain.DirectionDebit, domain.DirectionDebit, 250, 1250},
		{"opposite side decreases", domain.DirectionDebit, domain.DirectionCredit, -250, 750},
		{"credit account credited", domain.DirectionCredit, domain.DirectionCredit, 250, 1250},
		{"credit account debited", domain.DirectionCredit, domain.DirectionDebit, -250, 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			entryRepo := mocks.NewMockEntryRepository(ctrl)
			tx := mocks.NewMockTransaction(ctrl)

			account := &domain.Account{ID: "acc-1", Direction: tt.account, Balance: 1000}
			entry := &domain.Entry{ID: "e1", AccountID: "acc-1", Direction: tt.entry, Amount: 250, CreatedAt: time.Unix(100, 0)}

			entryRepo.EXPECT().Post(gomock.Any(), tx, entry, tt.wantDelta).Return(tt.wantBalance, nil)

			err := usecase.NewBalanceProjector(entryRepo).Post(context.Background(), tx, account, entry)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.Balance != tt.wantBalance {
				t.Errorf("expected balance %d, got %d", tt.wantBalance, account.Balance)
			}
			if !account.UpdatedAt.Equal(entry.CreatedAt) {
				t.Errorf("expected updated_at to follow entry")
			}
		})
	}
}

func TestBalanceProjector_PostFailureLeavesAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	account := &domain.Account{ID: "acc-1", Direction: domain.DirectionDebit, Balance: 1000}
	entry := &domain.Entry{ID: "e1", AccountID: "acc-1", Direction: domain.DirectionDebit, Amount: 5}

	entryRepo.EXPECT().Post(gomock.Any(), tx, entry, int64(5)).Return(int64(0), domain.ErrImmutableEntry)

	err := usecase.NewBalanceProjector(entryRepo).Post(context.Background(), tx, account, entry)
	if !errors.Is(err, domain.ErrImmutableEntry) {
		t.Fatalf("expected ErrImmutableEntry, got %v", err)
	}
	if account.Balance != 1000 {
		t.Errorf("balance changed on failure: %d", account.Balance)
	}
}

func TestBalanceProjector_RejectsForeignAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	err := usecase.NewBalanceProjector(entryRepo).Post(context.Background(), mocks.NewMockTransaction(ctrl),
		&domain.Account{ID: "acc-1"}, &domain.Entry{ID: "e1", AccountID: "acc-2", Amount: 1})
	if err == nil {
		t.Fatal("expected error for mismatched account")
	}
}
