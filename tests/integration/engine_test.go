//go:build integration

package integration

import (
	"github.com/iho/ledger/internal/adapter/repository/postgres"
	"github.com/iho/ledger/internal/usecase"
	"github.com/iho/ledger/tests/testutil"
)

type engine struct {
	db           *testutil.TestDB
	accounts     *usecase.AccountUseCase
	transactions *usecase.TransactionUseCase
	ledger       *usecase.LedgerUseCase
	outbox       *postgres.OutboxRepository
}

func newEngine(db *testutil.TestDB) *engine {
	txManager := postgres.NewTxManager(db.Pool)
	accountRepo := postgres.NewAccountRepository(db.Pool)
	outboxRepo := postgres.NewOutboxRepository(db.Pool)
	idGen := postgres.NewULIDGenerator()

	return &engine{
		db:       db,
		accounts: usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen),
		transactions: usecase.NewTransactionUseCase(
			txManager,
			accountRepo,
			postgres.NewTransactionRepository(db.Pool),
			postgres.NewEntryRepository(db.Pool),
			outboxRepo,
			idGen,
		),
		ledger: usecase.NewLedgerUseCase(postgres.NewLedgerRepository(db.Pool)),
		outbox: outboxRepo,
	}
}
