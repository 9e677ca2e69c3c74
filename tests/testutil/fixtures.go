package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/infrastructure/postgres"
	"github.com/iho/ledger/internal/infrastructure/postgres/generated"
)

// RunMain runs the package tests against PostgreSQL. DATABASE_URL is used
// when set; otherwise a disposable container is started for the run.
// Migrations are applied either way.
func RunMain(m *testing.M) int {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		url, terminate, err := StartPostgres(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start postgres: %v\n", err)
			return 1
		}
		defer terminate()
		dbURL = url
		os.Setenv("DATABASE_URL", dbURL)
	}

	if err := postgres.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		return 1
	}

	return m.Run()
}

// StartPostgres starts a PostgreSQL container and returns its connection URL.
func StartPostgres(ctx context.Context) (string, func(), error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", nil, err
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", nil, err
	}

	return url, func() { _ = container.Terminate(ctx) }, nil
}

// TestDB provides test database connections. Tests share one database and
// isolate themselves by using fresh ids, so nothing is truncated.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL. The pool is closed when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:      dbURL,
		MaxConns:         50,
		LockTimeout:      5 * time.Second,
		StatementTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
}

// CreateTestAccount inserts an account with a zero balance.
func (db *TestDB) CreateTestAccount(ctx context.Context, name string, direction domain.Direction) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	ts := pgtype.Timestamptz{Time: now, Valid: true}

	row, err := db.Queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        GenerateID(),
		Name:      name,
		Direction: string(direction),
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return &domain.Account{
		ID:        row.ID,
		Name:      row.Name,
		Direction: domain.Direction(row.Direction),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Balance reads the stored balance of an account in minor units.
func (db *TestDB) Balance(ctx context.Context, accountID string) int64 {
	db.t.Helper()

	row, err := db.Queries.GetAccountByID(ctx, accountID)
	if err != nil {
		db.t.Fatalf("failed to read account %s: %v", accountID, err)
	}
	return row.Balance
}

// CountRows counts rows of table matching a single-column equality.
func (db *TestDB) CountRows(ctx context.Context, table, column, value string) int {
	db.t.Helper()

	var n int
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s = $1", table, column)
	if err := db.Pool.QueryRow(ctx, query, value).Scan(&n); err != nil {
		db.t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// GenerateID generates a time-ordered id in UUID form.
func GenerateID() string {
	return uuid.UUID(ulid.Make()).String()
}
