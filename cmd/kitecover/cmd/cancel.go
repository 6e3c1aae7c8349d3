package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kitecover/internal/ports"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel all pending orders",
	Long: `Cancel every order with net pending quantity, re-checking a bounded
number of times. Orders still pending after the bound is exceeded are
reported but do not fail the command.`,
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	d, session, err := authenticate(cmd.Context())
	if err != nil {
		return err
	}
	defer d.journal.Close()

	if err := session.CancelAllOrders(cmd.Context()); err != nil {
		if errors.Is(err, ports.ErrCancelIncomplete) {
			// Partial success: the broker kept some pending quantity.
			fmt.Printf("Warning: %v\n", err)
			return nil
		}
		return err
	}
	fmt.Println("All orders cancelled")
	return nil
}
