package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/ledger/internal/adapter/http/dto"
	"github.com/iho/ledger/internal/client"
	"github.com/iho/ledger/internal/infrastructure/config"
	"github.com/iho/ledger/internal/infrastructure/logger"
	"github.com/iho/ledger/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	timeout time.Duration
	retries uint64
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Ledger CLI tool",
		Long:          `A command line interface for interacting with the ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("LEDGER_URL", "http://localhost:8080"), "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().Uint64Var(&opts.retries, "retries", 5, "Retries for conflicts and server errors")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log retried requests")

	rootCmd.AddCommand(
		accountsCmd(opts),
		transactionsCmd(opts),
		ledgerCmd(opts),
		migrateCmd(),
	)

	return rootCmd
}

func (o *options) client(cmd *cobra.Command) *client.Client {
	clientOpts := []client.Option{client.WithRetry(o.retries, 50*time.Millisecond)}
	if o.verbose {
		clientOpts = append(clientOpts, client.WithLogger(logger.New(logger.Config{
			Level:  "debug",
			Format: "console",
			Output: cmd.ErrOrStderr(),
		})))
	}
	return client.New(o.baseURL, clientOpts...)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var id, direction string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			acc, err := opts.client(cmd).CreateAccount(ctx, dto.CreateAccountRequest{
				ID:        id,
				Name:      args[0],
				Direction: direction,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), acc)
		},
	}
	createCmd.Flags().StringVar(&id, "id", "", "Account id (UUID); generated by the server when empty")
	createCmd.Flags().StringVar(&direction, "direction", "debit", "Normal balance direction: debit or credit")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show an account and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			acc, err := opts.client(cmd).GetAccount(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), acc)
		},
	}

	cmd.AddCommand(createCmd, getCmd)
	return cmd
}

func transactionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	var id, name string
	createCmd := &cobra.Command{
		Use:   "create ACCOUNT:DIRECTION:AMOUNT...",
		Short: "Post a balanced transaction",
		Example: "  ledgerctl transactions create --name sale \\\n" +
			"    0190f5a4-7c1e-7a3b-9f2d-5c8e1a2b3c4d:debit:10.45 \\\n" +
			"    0190f5a4-7c1e-7a3b-9f2d-5c8e1a2b3c4e:credit:10.45",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]dto.EntryRequest, 0, len(args))
			for _, arg := range args {
				entry, err := parseEntry(arg)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			txn, err := opts.client(cmd).CreateTransaction(ctx, dto.CreateTransactionRequest{
				ID:      id,
				Name:    name,
				Entries: entries,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), txn)
		},
	}
	createCmd.Flags().StringVar(&id, "id", "", "Transaction id (UUID); generated locally when empty")
	createCmd.Flags().StringVar(&name, "name", "", "Transaction name")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a posted transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			txn, err := opts.client(cmd).GetTransaction(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), txn)
		},
	}

	cmd.AddCommand(createCmd, getCmd)
	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			report, err := opts.client(cmd).CheckConsistency(ctx)
			if report == nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Consistent {
				fmt.Fprintln(out, "Consistency check PASSED")
			} else {
				fmt.Fprintln(out, "Consistency check FAILED")
			}
			fmt.Fprintf(out, "Accounts:                %d\n", report.Accounts)
			fmt.Fprintf(out, "Mismatched accounts:     %d\n", report.MismatchedAccounts)
			fmt.Fprintf(out, "Unbalanced transactions: %d\n", report.UnbalancedTransactions)
			return err
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL; defaults to DATABASE_URL")

	resolve := func() (string, error) {
		if databaseURL != "" {
			return databaseURL, nil
		}
		cfg, err := config.Load()
		if err != nil {
			return "", err
		}
		return cfg.DatabaseURL, nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := resolve()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(url, cliLogger(cmd))
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := resolve()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(url, cliLogger(cmd))
		},
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	return logger.New(logger.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})
}

// parseEntry parses ACCOUNT:DIRECTION:AMOUNT.
func parseEntry(s string) (dto.EntryRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return dto.EntryRequest{}, fmt.Errorf("invalid entry %q: want ACCOUNT:DIRECTION:AMOUNT", s)
	}

	direction := strings.ToLower(parts[1])
	if direction != "debit" && direction != "credit" {
		return dto.EntryRequest{}, fmt.Errorf("invalid entry %q: direction must be debit or credit", s)
	}

	amount, err := decimal.NewFromString(parts[2])
	if err != nil {
		return dto.EntryRequest{}, fmt.Errorf("invalid entry %q: %w", s, err)
	}

	return dto.EntryRequest{
		AccountID: parts[0],
		Direction: direction,
		Amount:    amount,
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Join(errors.New("failed to print response"), err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
