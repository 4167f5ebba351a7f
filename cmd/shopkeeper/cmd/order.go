package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyeddy/shopkeeper/purchasing"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order <vendor-id> <product-id=qty> [product-id=qty ...]",
	Short: "Place a vendor purchase order",
	Long: `Place a purchase order with a vendor. Each line is product-id=quantity;
tier pricing and shipping are resolved at placement and the unit cost is
frozen into the order.

Examples:
  shopkeeper order switchworks linear-red=100
  shopkeeper order keebsupply silent-ink=50 keycaps-pbt=20`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	vendorID := args[0]

	var items []purchasing.ItemRequest
	for _, arg := range args[1:] {
		product, qtyStr, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("line %q must be product-id=quantity", arg)
		}
		qty, err := strconv.ParseInt(qtyStr, 10, 64)
		if err != nil || qty <= 0 {
			return fmt.Errorf("line %q: quantity must be a positive integer", arg)
		}
		items = append(items, purchasing.ItemRequest{ProductID: product, Quantity: qty})
	}

	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	po, total, err := engine.PlaceOrder(cmd.Context(), vendorID, items)
	if err != nil {
		return err
	}

	fmt.Printf("Order %s placed with %s for %s, expected %s\n",
		po.ID, vendorID, total.StringFixed(2), po.ExpectedArrival.Format("2006-01-02"))
	return nil
}
