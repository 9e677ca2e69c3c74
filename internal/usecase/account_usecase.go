package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		logger:      zerolog.Nop(),
		metrics:     nopMetrics{},
	}
}

// SetLogger sets the logger used for account events.
func (uc *AccountUseCase) SetLogger(logger zerolog.Logger) {
	uc.logger = logger.With().Str("component", "accounts").Logger()
}

// SetMetrics sets the metrics sink.
func (uc *AccountUseCase) SetMetrics(m Metrics) {
	uc.metrics = m
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	// ID is optional; a new id is generated when empty.
	ID        string
	Name      string
	Direction domain.Direction
}

// CreateAccount creates the account unless one with the same id already
// exists, in which case the stored account is returned unchanged.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if !input.Direction.Valid() {
		return nil, domain.ErrInvalidDirection
	}

	id, err := canonicalID(input.ID)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uc.idGen.Generate()
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	account := &domain.Account{
		ID:        id,
		Name:      input.Name,
		Direction: input.Direction,
		CreatedAt: now,
		UpdatedAt: now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	stored, created, err := uc.accountRepo.CreateIfAbsent(txCtx, tx, account)
	if err != nil {
		return nil, err
	}

	if created {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   stored.ID,
			AggregateType: domain.AggregateTypeAccount,
			EventType:     domain.EventTypeAccountCreated,
			Payload: domain.AccountCreatedEvent{
				AccountID: stored.ID,
				Name:      stored.Name,
				Direction: string(stored.Direction),
			}.ToMap(),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if created {
		uc.metrics.AccountCreated()
		uc.logger.Info().Str("account_id", stored.ID).Str("direction", string(stored.Direction)).Msg("account created")
	} else {
		uc.logger.Debug().Str("account_id", stored.ID).Msg("account already exists")
	}

	return stored, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}
