package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoice-studio/internal/adapters/cli"
	"invoice-studio/internal/adapters/repl"
	"invoice-studio/internal/ai"
	"invoice-studio/internal/app"
	"invoice-studio/internal/config"
	"invoice-studio/internal/core"
	"invoice-studio/internal/db"
	"invoice-studio/internal/logger"
	"invoice-studio/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var jsonOut bool
	var invoiceType string

	root := &cobra.Command{
		Use:           "studio",
		Short:         "Bilingual command-bar engine for invoice records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Start the interactive command bar",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			repl.Run(cmd.Context(), svc, bufio.NewReader(os.Stdin))
			return nil
		},
	})

	execCmd := &cobra.Command{
		Use:   `exec "<command>"`,
		Short: "Execute one command and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return cli.Exec(cmd.Context(), svc, args[0], jsonOut)
		},
	}
	execCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the result payload as JSON")
	root.AddCommand(execCmd)

	extractCmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract an invoice draft from a purchase order text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			svc, cleanup, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			t := core.TypeTax
			if invoiceType == "normal" {
				t = core.TypeNormal
			}
			draft, err := svc.ExtractInvoiceDraft(cmd.Context(), string(text), t)
			if err != nil {
				return err
			}

			fmt.Printf("Extracted draft (confidence %.2f, %d line(s), %d skipped)\n",
				draft.Confidence, len(draft.Invoice.Items), draft.Skipped)
			fmt.Printf("  Customer : %s\n", draft.Invoice.CustomerName)
			fmt.Printf("  Currency : %s\n", draft.Invoice.Currency)
			fmt.Printf("  Total    : %s\n", draft.Invoice.Total.StringFixed(2))
			return nil
		},
	}
	extractCmd.Flags().StringVar(&invoiceType, "type", "tax", "invoice type for the draft: tax or normal")
	root.AddCommand(extractCmd)

	return root
}

// buildService wires the application service from the environment. With no
// DATABASE_URL the in-memory store is used, which is enough to try the
// command grammar but persists nothing.
func buildService(ctx context.Context) (app.ApplicationService, func(), error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	var st core.Store
	cleanup := func() {}
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		st = store.NewPostgres(pool)
		cleanup = pool.Close
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store (nothing is persisted)")
		st = store.NewMemory()
	}

	var extractor *ai.Extractor
	if cfg.OpenAIAPIKey != "" {
		extractor = ai.NewExtractor(cfg.OpenAIAPIKey, log)
	}

	return app.NewAppService(st, extractor, log), cleanup, nil
}
