package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listEntriesByTransaction = `-- name: ListEntriesByTransaction :many
SELECT id, transaction_id, account_id, direction, amount, created_at
FROM transaction_entries
WHERE transaction_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListEntriesByTransaction(ctx context.Context, transactionID string) ([]TransactionEntry, error) {
	rows, err := q.db.Query(ctx, listEntriesByTransaction, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionEntry
	for rows.Next() {
		var i TransactionEntry
		if err := rows.Scan(
			&i.ID,
			&i.TransactionID,
			&i.AccountID,
			&i.Direction,
			&i.Amount,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const postEntry = `-- name: PostEntry :one
WITH inserted AS (
    INSERT INTO transaction_entries (id, transaction_id, account_id, direction, amount, created_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING account_id, created_at
)
UPDATE accounts
SET balance = accounts.balance + $7::bigint,
    updated_at = inserted.created_at
FROM inserted
WHERE accounts.id = inserted.account_id
RETURNING accounts.balance
`

type PostEntryParams struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transaction_id"`
	AccountID     string             `json:"account_id"`
	Direction     string             `json:"direction"`
	Amount        int64              `json:"amount"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Delta         int64              `json:"delta"`
}

func (q *Queries) PostEntry(ctx context.Context, arg PostEntryParams) (int64, error) {
	row := q.db.QueryRow(ctx, postEntry,
		arg.ID,
		arg.TransactionID,
		arg.AccountID,
		arg.Direction,
		arg.Amount,
		arg.CreatedAt,
		arg.Delta,
	)
	var balance int64
	err := row.Scan(&balance)
	return balance, err
}
