package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kitecover/internal/domain"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show current orders and positions",
	Long: `Print the combined view of positions (with derived side and
absolute quantity) and orders (with net pending quantity).`,
	RunE: runSummary,
}

var summaryScope string

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryScope, "scope", "day", "position book to include: day or net")
}

func runSummary(cmd *cobra.Command, args []string) error {
	d, session, err := authenticate(cmd.Context())
	if err != nil {
		return err
	}
	defer d.journal.Close()

	records, err := session.AllOrdersAndPositions(cmd.Context(), domain.PositionScope(summaryScope))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No orders or positions")
		return nil
	}
	fmt.Printf("%-12s %-5s %10s  %s\n", "SYMBOL", "SIDE", "QTY", "TYPE")
	for _, r := range records {
		fmt.Printf("%-12s %-5s %10.0f  %s\n", r.Tradingsymbol, r.TransactionType, r.Quantity, r.RecordType)
	}

	nilPos, err := session.IsNilPositions(cmd.Context())
	if err != nil {
		return err
	}
	nilOrders, err := session.IsNilOrders(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("\nflat positions: %v, no pending orders: %v\n", nilPos, nilOrders)
	return nil
}
