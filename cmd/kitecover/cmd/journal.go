package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"kitecover/config"
	"kitecover/internal/adapters/logger"
	"kitecover/internal/adapters/sqlite"
	"kitecover/internal/ports"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show locally recorded order submissions",
	Long: `Print today's placed-order count from the local journal and, when a
symbol is given, its most recent records.

Reads only the local database; the broker is not contacted.

Example:
  kitecover journal
  kitecover journal --symbol TCS --limit 5`,
	RunE: runJournal,
}

var (
	journalSymbol string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalSymbol, "symbol", "", "show recent records for this symbol")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 10, "maximum records to show")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	journal, err := sqlite.NewJournal(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		return fmt.Errorf("init order journal: %w", err)
	}
	defer journal.Close()

	return printJournal(cmd.Context(), journal, journalSymbol, journalLimit, cmd.OutOrStdout())
}

// printJournal writes today's submission count and, for a given symbol, its
// most recent records.
func printJournal(ctx context.Context, journal ports.OrderJournal, symbol string, limit int, w io.Writer) error {
	count, err := journal.CountToday(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Orders recorded today: %d\n", count)

	if symbol == "" {
		return nil
	}
	records, err := journal.RecentBySymbol(ctx, symbol, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(w, "No records for %s\n", symbol)
		return nil
	}
	fmt.Fprintf(w, "\n%-18s %-5s %-6s %-11s %8s %10s  %s\n", "ORDER ID", "SIDE", "TYPE", "LEG", "QTY", "PRICE", "PLACED AT")
	for _, r := range records {
		fmt.Fprintf(w, "%-18s %-5s %-6s %-11s %8d %10.2f  %s\n",
			r.BrokerOrderID, r.TransactionType, r.OrderType, r.Leg, r.Quantity, r.Price,
			r.PlacedAt.Local().Format(time.RFC3339))
	}
	return nil
}
