package cmd

import (
	"fmt"

	"github.com/rustyeddy/shopkeeper/analytics"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current financial position",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusHistoryDays int

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusHistoryDays, "history", 7, "days of sales history to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	s, err := analytics.StatusSummary(ctx, store)
	if err != nil {
		return err
	}
	net, err := analytics.NDayNetAverage(ctx, store, 7)
	if err != nil {
		return err
	}

	fmt.Printf("Date:             %s\n", s.Date.Format("Monday, January 2 2006"))
	fmt.Printf("Cash:             %s\n", s.Cash.StringFixed(2))
	fmt.Printf("Unpaid payables:  %s\n", s.UnpaidPayables.StringFixed(2))
	fmt.Printf("Outstanding debt: %s\n", s.OutstandingDebt.StringFixed(2))
	fmt.Printf("Inventory value:  %s\n", s.InventoryValue.StringFixed(2))
	fmt.Printf("Open orders:      %d\n", s.OpenOrders)
	fmt.Printf("Daily burn rate:  %s\n", s.DailyBurnRate.StringFixed(2))
	fmt.Printf("7-day avg net:    %s\n", net.StringFixed(2))

	if statusHistoryDays > 0 {
		history, err := analytics.SalesHistory(ctx, store, statusHistoryDays)
		if err != nil {
			return err
		}
		if len(history) > 0 {
			fmt.Printf("\nSales, last %d days:\n", statusHistoryDays)
			for _, dr := range history {
				fmt.Printf("  %s  %s\n", dr.Date.Format("2006-01-02"), dr.Revenue.StringFixed(2))
			}
		}
	}
	return nil
}
