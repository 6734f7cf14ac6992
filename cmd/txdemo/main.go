package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"txboundary/internal/application"
	"txboundary/internal/bootstrap"
	"txboundary/internal/config"
	"txboundary/internal/infrastructure/logx"
	"txboundary/internal/infrastructure/sqlite"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() { _ = godotenv.Load() }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "txdemo",
		Short:         "Show commit/rollback decisions of transaction boundaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScenariosCmd())
	root.AddCommand(newOrderCmd())
	return root
}

func newScenariosCmd() *cobra.Command {
	var dbPath, policyFile string
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Run the runtime, checked, rollback-for and success scenarios against SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				dir, err := os.MkdirTemp("", "txdemo-*")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				dbPath = filepath.Join(dir, "demo.db")
			}
			overrides, err := config.LoadPolicies(policyFile)
			if err != nil {
				return err
			}
			return runScenarios(cmd.Context(), cmd.OutOrStdout(), dbPath, application.PolicyOverrides(overrides))
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: temporary file)")
	cmd.Flags().StringVar(&policyFile, "policy", "", "YAML file with per-boundary rollback_for codes")
	return cmd
}

func runScenarios(ctx context.Context, out io.Writer, dbPath string, overrides application.PolicyOverrides) error {
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	demo := application.NewRollbackDemo(sqlite.NewTxManager(db), sqlite.NewOrderRepo(db), logx.L(), overrides)
	_, _ = fmt.Fprintln(out, "scenario\toutcome\tpersisted\terror")
	for _, sc := range application.Scenarios() {
		res, err := demo.Run(ctx, sc)
		if res.Outcome.Decision == 0 {
			return fmt.Errorf("scenario %s: %w", sc, err)
		}
		msg := "-"
		if err != nil {
			msg = err.Error()
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\t%t\t%s\n", sc, res.Outcome.Decision, res.Persisted, msg)
	}
	return nil
}

func newOrderCmd() *cobra.Command {
	var idemKey string
	cmd := &cobra.Command{
		Use:   "order <username>",
		Short: "Place an order against the configured storage (STORAGE, DATABASE_URL, SQLITE_PATH)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := bootstrap.InitOrderService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			var idem *string
			if idemKey != "" {
				idem = &idemKey
			}
			res, err := svc.PlaceOrder(cmd.Context(), args[0], idem)
			if res.Outcome.Decision == 0 {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "outcome=%s", res.Outcome.Decision)
			if res.Order.ID != "" {
				_, _ = fmt.Fprintf(w, " order=%s status=%s", res.Order.ID, res.Order.PayStatus)
			}
			if err != nil {
				_, _ = fmt.Fprintf(w, " error=%q", err.Error())
			}
			_, _ = fmt.Fprintln(w)
			if res.Outcome.RolledBack() && err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&idemKey, "idempotency-key", "", "reject a second order with the same key")
	return cmd
}
