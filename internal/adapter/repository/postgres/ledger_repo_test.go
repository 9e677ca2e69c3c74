package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_CheckConsistency(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta("WITH entry_sums AS")).
		WillReturnRows(pgxmock.NewRows([]string{"account_count", "mismatched_accounts", "unbalanced_transactions"}).
			AddRow(int64(12), int64(1), int64(0)))

	report, err := newLedgerRepository(pool).CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), report.Accounts)
	assert.Equal(t, int64(1), report.MismatchedAccounts)
	assert.False(t, report.Consistent())
	assertExpectations(t, pool)
}
