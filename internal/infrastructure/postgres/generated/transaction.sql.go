package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, name, created_at)
VALUES ($1, $2, $3)
`

type CreateTransactionParams struct {
	ID        string             `json:"id"`
	Name      *string            `json:"name"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction, arg.ID, arg.Name, arg.CreatedAt)
	return err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, name, created_at FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}
