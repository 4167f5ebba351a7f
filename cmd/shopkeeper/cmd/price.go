package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price <product-id> <price>",
	Short: "Set a product's selling price",
	Long: `Change a product's selling price. Pricing above the default price
reduces demand in proportion to the product's price sensitivity.

Example:
  shopkeeper price linear-red 39.99`,
	Args: cobra.ExactArgs(2),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	price, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("price %q: %w", args[1], err)
	}

	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := engine.SetPrice(cmd.Context(), args[0], price); err != nil {
		return err
	}
	fmt.Printf("%s now sells for %s\n", args[0], price.StringFixed(2))
	return nil
}
