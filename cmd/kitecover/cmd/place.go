package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kitecover/internal/app"
	"kitecover/internal/intents"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Synthesize and place cover orders from an intent file",
	Long: `Read a trade intent table from a YAML file, synthesize cover-order
pairs (entry leg plus protective stop) against current market prices, and
submit them.

Example:
  kitecover place -f intents.yaml
  kitecover place -f intents.yaml --dry-run`,
	RunE: runPlace,
}

var (
	placeIntentsPath string
	placeDryRun      bool
	placeTag         string
)

func init() {
	rootCmd.AddCommand(placeCmd)

	placeCmd.Flags().StringVarP(&placeIntentsPath, "file", "f", "", "path to intent file (YAML) (required)")
	placeCmd.Flags().BoolVar(&placeDryRun, "dry-run", false, "print payloads without placing them")
	placeCmd.Flags().StringVar(&placeTag, "tag", "kitecover", "tag attached to every placed order")
	placeCmd.MarkFlagRequired("file")
}

func runPlace(cmd *cobra.Command, args []string) error {
	table, err := intents.Load(placeIntentsPath)
	if err != nil {
		return err
	}

	d, session, err := authenticate(cmd.Context())
	if err != nil {
		return err
	}
	defer d.journal.Close()

	synth, err := app.NewOrderSynthesizer(d.broker, d.logger)
	if err != nil {
		return err
	}

	payloads, err := synth.BuildCoverOrders(cmd.Context(), table, app.OrderExtras{
		Exchange: d.cfg.Exchange,
		Product:  d.cfg.Product,
		Validity: d.cfg.Validity,
		Variety:  d.cfg.Variety,
		Tag:      placeTag,
	})
	if err != nil {
		return fmt.Errorf("synthesize orders: %w", err)
	}

	if placeDryRun {
		fmt.Printf("%d payloads (not placed):\n", len(payloads))
		for _, p := range payloads {
			line := fmt.Sprintf("  %-5s %-12s %-6s qty=%-6d price=%.2f", p.TransactionType, p.Tradingsymbol, p.OrderType, p.Quantity, p.Price)
			if p.TriggerPrice != 0 {
				line += fmt.Sprintf(" trigger=%.2f", p.TriggerPrice)
			}
			fmt.Println(line)
		}
		return nil
	}

	orderIDs, err := session.PlaceOrders(cmd.Context(), payloads)
	if err != nil {
		return fmt.Errorf("placed %d of %d orders: %w", len(orderIDs), len(payloads), err)
	}
	fmt.Printf("Placed %d orders\n", len(orderIDs))
	for _, id := range orderIDs {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
