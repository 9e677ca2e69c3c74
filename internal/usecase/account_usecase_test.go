package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
	"github.com/iho/ledger/internal/usecase/mocks"
)

const accountID = "0d6c7f3e-2a41-4b8e-9c15-7e3f9a2b4d60"

type accountMocks struct {
	txMgr   *mocks.MockTransactionManager
	tx      *mocks.MockTransaction
	repo    *mocks.MockAccountRepository
	outbox  *mocks.MockOutboxRepository
	idGen   *mocks.MockIDGenerator
	metrics *mocks.MockMetrics
}

func newAccountUseCase(t *testing.T) (*usecase.AccountUseCase, accountMocks) {
	ctrl := gomock.NewController(t)
	m := accountMocks{
		txMgr:   mocks.NewMockTransactionManager(ctrl),
		tx:      mocks.NewMockTransaction(ctrl),
		repo:    mocks.NewMockAccountRepository(ctrl),
		outbox:  mocks.NewMockOutboxRepository(ctrl),
		idGen:   mocks.NewMockIDGenerator(ctrl),
		metrics: mocks.NewMockMetrics(ctrl),
	}
	uc := usecase.NewAccountUseCase(m.txMgr, m.repo, m.outbox, m.idGen)
	uc.SetMetrics(m.metrics)
	return uc, m
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	t.Run("creates account and emits event", func(t *testing.T) {
		uc, m := newAccountUseCase(t)

		m.idGen.EXPECT().Generate().Return(accountID)
		m.idGen.EXPECT().Generate().Return("evt-1")
		m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.repo.EXPECT().CreateIfAbsent(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ usecase.Transaction, a *domain.Account) (*domain.Account, bool, error) {
				if a.Balance != 0 {
					t.Errorf("new account must start at zero, got %d", a.Balance)
				}
				return a, true, nil
			})
		m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
				if e.EventType != domain.EventTypeAccountCreated || e.AggregateID != accountID {
					t.Errorf("unexpected event %+v", e)
				}
				return nil
			})
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
		m.metrics.EXPECT().AccountCreated()

		acc, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			Name:      "cash",
			Direction: domain.DirectionDebit,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acc.ID != accountID || acc.Name != "cash" || acc.Direction != domain.DirectionDebit {
			t.Errorf("unexpected account %+v", acc)
		}
	})

	t.Run("existing id returns stored account without event", func(t *testing.T) {
		uc, m := newAccountUseCase(t)

		stored := &domain.Account{ID: accountID, Name: "original", Direction: domain.DirectionCredit, Balance: 500}
		m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.repo.EXPECT().CreateIfAbsent(gomock.Any(), m.tx, gomock.Any()).Return(stored, false, nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

		acc, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			ID:        accountID,
			Name:      "different",
			Direction: domain.DirectionDebit,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acc != stored {
			t.Errorf("expected stored account, got %+v", acc)
		}
	})

	t.Run("invalid input never opens a transaction", func(t *testing.T) {
		uc, _ := newAccountUseCase(t)

		_, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "", Direction: domain.DirectionDebit})
		if !errors.Is(err, domain.ErrInvalidAccountName) {
			t.Errorf("expected ErrInvalidAccountName, got %v", err)
		}

		_, err = uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "cash", Direction: "up"})
		if !errors.Is(err, domain.ErrInvalidDirection) {
			t.Errorf("expected ErrInvalidDirection, got %v", err)
		}
	})

	t.Run("repository error rolls back", func(t *testing.T) {
		uc, m := newAccountUseCase(t)

		storageErr := errors.New("connection reset")
		m.idGen.EXPECT().Generate().Return(accountID)
		m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.repo.EXPECT().CreateIfAbsent(gomock.Any(), m.tx, gomock.Any()).Return(nil, false, storageErr)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		_, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "cash", Direction: domain.DirectionDebit})
		if !errors.Is(err, storageErr) {
			t.Errorf("expected storage error, got %v", err)
		}
	})
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	uc, m := newAccountUseCase(t)

	m.repo.EXPECT().GetByID(gomock.Any(), "acc-1").Return(&domain.Account{ID: "acc-1"}, nil)
	m.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrAccountNotFound)

	acc, err := uc.GetAccount(context.Background(), "acc-1")
	if err != nil || acc.ID != "acc-1" {
		t.Fatalf("unexpected result %+v, %v", acc, err)
	}

	if _, err := uc.GetAccount(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_CreateTwiceWithSameID(t *testing.T) {
	store := mocks.NewMemoryLedger()
	uc := usecase.NewAccountUseCase(store.TxManager(), store.Accounts(), store.Outbox(), mocks.NewSequenceIDGenerator("id"))

	first, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{ID: accountID, Name: "cash", Direction: domain.DirectionDebit})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{ID: strings.ToUpper(accountID), Name: "renamed", Direction: domain.DirectionCredit})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if second.ID != accountID {
		t.Errorf("expected canonical id %s, got %s", accountID, second.ID)
	}
	if second.Name != first.Name || second.Direction != first.Direction || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("expected first write to win, got %+v vs %+v", second, first)
	}
	if n := len(store.OutboxEvents()); n != 1 {
		t.Errorf("expected one account.created event, got %d", n)
	}
}
