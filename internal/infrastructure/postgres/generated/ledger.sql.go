package generated

import (
	"context"
)

const checkConsistency = `-- name: CheckConsistency :one
WITH entry_sums AS (
    SELECT e.account_id,
           SUM(CASE WHEN e.direction = a.direction THEN e.amount ELSE -e.amount END)::bigint AS total
    FROM transaction_entries e
    JOIN accounts a ON a.id = e.account_id
    GROUP BY e.account_id
), transaction_sums AS (
    SELECT transaction_id,
           SUM(CASE WHEN direction = 'debit' THEN amount ELSE 0 END)::bigint AS debits,
           SUM(CASE WHEN direction = 'credit' THEN amount ELSE 0 END)::bigint AS credits
    FROM transaction_entries
    GROUP BY transaction_id
)
SELECT
    (SELECT COUNT(*) FROM accounts)::bigint AS account_count,
    (SELECT COUNT(*) FROM accounts a
        LEFT JOIN entry_sums s ON s.account_id = a.id
        WHERE a.balance <> COALESCE(s.total, 0))::bigint AS mismatched_accounts,
    (SELECT COUNT(*) FROM transaction_sums
        WHERE debits <> credits)::bigint AS unbalanced_transactions
`

type CheckConsistencyRow struct {
	AccountCount           int64 `json:"account_count"`
	MismatchedAccounts     int64 `json:"mismatched_accounts"`
	UnbalancedTransactions int64 `json:"unbalanced_transactions"`
}

func (q *Queries) CheckConsistency(ctx context.Context) (CheckConsistencyRow, error) {
	row := q.db.QueryRow(ctx, checkConsistency)
	var i CheckConsistencyRow
	err := row.Scan(&i.AccountCount, &i.MismatchedAccounts, &i.UnbalancedTransactions)
	return i, err
}
