// Command taxprep tracks business transactions for Schedule C style
// tax preparation: it imports bank exports (CSV, QIF), assigns
// expense/income categories, and reports profit/loss summaries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/cli"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/config"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/importer"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/log"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/services"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  *storage.SQLiteRepository
	ledger *services.LedgerService
}

// runWithApp wires config, logging and the store, runs fn, and closes
// the store afterward.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	store, err := cli.InitSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ledger: services.NewLedgerService(store, importer.New(logger), logger),
	}
	return fn(cmd.Context(), a)
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taxprep",
		Short: "Track business transactions and profit/loss for tax prep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(importCmd(), categorizeCmd(), reportCmd(), transactionsCmd(), categoriesCmd())
	return root
}

func importCmd() *cobra.Command {
	var account int
	var layout string
	var year int

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import CSV or QIF bank export files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				opts := importer.DefaultOptions(a.cfg)
				if cmd.Flags().Changed("account") {
					opts.AccountID = account
				}
				if cmd.Flags().Changed("layout") {
					opts.Layout = layout
				}
				if cmd.Flags().Changed("year") {
					opts.TaxYear = year
				}

				results, err := a.ledger.ImportFiles(ctx, args, opts)
				if err != nil {
					return err
				}
				for _, res := range results {
					fmt.Printf("%s: imported %d transactions (%s)\n", res.Path, res.Imported, res.Format)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&account, "account", 1, "account id for CSV rows (1=bank, 2=credit card)")
	cmd.Flags().StringVar(&layout, "layout", config.LayoutStatement,
		fmt.Sprintf("CSV column layout (%s|%s)", config.LayoutStatement, config.LayoutDetailed))
	cmd.Flags().IntVar(&year, "year", 0, "tax year to stamp on imported rows (default: current year)")
	return cmd
}

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <id=category>...",
		Short: "Assign categories to transactions",
		Long: `Assign categories to transactions.

Each argument is a transaction id and a category name joined by "=".
A category of "-" clears the assignment. All edits are staged, then
committed together:

  taxprep categorize 12=rent '13=office expense' 14=-`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				for _, arg := range args {
					id, name, err := splitEdit(arg)
					if err != nil {
						return err
					}
					if name == "-" {
						a.ledger.StageClear(id)
						continue
					}
					cat, err := a.ledger.CategoryByName(ctx, strings.ToLower(name))
					if err != nil {
						return err
					}
					a.ledger.StageCategory(id, cat.ID)
				}

				staged := a.ledger.PendingCount()
				if err := a.ledger.Commit(ctx); err != nil {
					return err
				}
				fmt.Printf("committed %d category edits\n", staged)
				return nil
			})
		},
	}
	return cmd
}

func splitEdit(arg string) (int64, string, error) {
	idStr, name, found := strings.Cut(arg, "=")
	if !found || name == "" {
		return 0, "", fmt.Errorf("invalid edit %q: expected <id>=<category>", arg)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid transaction id %q", idStr)
	}
	return id, name, nil
}

func reportCmd() *cobra.Command {
	var year int
	var allYears bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show revenue, expenses and profit/loss for a tax year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				scope := year
				if allYears {
					scope = 0
				}
				summary, err := a.store.Summary(ctx, scope)
				if err != nil {
					return err
				}
				printSummary(summary, allYears)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "tax year to report")
	cmd.Flags().BoolVar(&allYears, "all-years", false, "report across all tax years")
	return cmd
}

func printSummary(s core.YearSummary, allYears bool) {
	if allYears {
		fmt.Println("Tax summary (all years)")
	} else {
		fmt.Printf("Tax summary for %d\n", s.TaxYear)
	}
	fmt.Printf("  Revenue:  %s\n", s.Revenue.Format())
	fmt.Printf("  Expenses: %s\n", absFormat(s.Expenses))

	profit := s.Profit()
	if profit.Cents >= 0 {
		fmt.Printf("  Profit:   %s\n", profit.Format())
	} else {
		fmt.Printf("  Loss:     %s\n", absFormat(profit))
	}

	if len(s.ByCategory) == 0 {
		fmt.Println("\nNo categorized expenses found")
		return
	}
	fmt.Println("\nExpenses by category:")
	for _, ct := range s.ByCategory {
		fmt.Printf("  %-24s %12s\n", titleCase(ct.Name), absFormat(ct.Amount))
	}
}

func transactionsCmd() *cobra.Command {
	var year int
	var allYears bool

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions with their category assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				scope := year
				if allYears {
					scope = 0
				}
				records, err := a.store.ListTransactions(ctx, scope)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No transactions found")
					return nil
				}
				fmt.Printf("%-6s %-12s %-32s %14s  %s\n", "ID", "Date", "Payee", "Amount", "Category")
				for _, rec := range records {
					category := rec.Category
					if category == "" {
						category = "unassigned"
					}
					fmt.Printf("%-6d %-12s %-32s %14s  %s\n",
						rec.ID, rec.Date, truncate(rec.Payee, 32), rec.Amount.Format(), category)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "tax year to list")
	cmd.Flags().BoolVar(&allYears, "all-years", false, "list across all tax years")
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				categories, err := a.store.ListCategories(ctx)
				if err != nil {
					return err
				}
				for _, c := range categories {
					fmt.Println(c.Name)
				}
				return nil
			})
		},
	}
}

// absFormat renders the magnitude of an amount, the way the summary
// screen shows expenses and losses.
func absFormat(m core.Money) string {
	if m.Cents < 0 {
		m = core.Money{Cents: -m.Cents}
	}
	return m.Format()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
