package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/ledger/internal/domain"
)

// PostgreSQL error codes the ledger reacts to.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014"
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	// Raised by the transaction_entries_immutable trigger.
	pgErrImmutableEntry = "LD001"
)

// Constraint names from the schema migrations.
const (
	constraintTransactionsPKey       = "transactions_pkey"
	constraintEntriesPKey            = "transaction_entries_pkey"
	constraintEntriesAccountFKey     = "transaction_entries_account_id_fkey"
	constraintEntriesTransactionFKey = "transaction_entries_transaction_id_fkey"
)

// mapError translates driver errors into domain errors. Errors without a
// domain meaning are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable, pgErrQueryCanceled:
			return fmt.Errorf("%w: %w", domain.ErrConcurrencyFailure, err)
		case pgErrImmutableEntry:
			return fmt.Errorf("%w: %w", domain.ErrImmutableEntry, err)
		case pgErrUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintTransactionsPKey:
				return domain.ErrDuplicateTransaction
			case constraintEntriesPKey:
				return domain.ErrDuplicateEntry
			}
		case pgErrForeignKeyViolation:
			switch pgErr.ConstraintName {
			case constraintEntriesAccountFKey:
				return domain.ErrAccountNotFound
			case constraintEntriesTransactionFKey:
				return domain.ErrTransactionNotFound
			}
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrConcurrencyFailure, err)
	}

	return err
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
