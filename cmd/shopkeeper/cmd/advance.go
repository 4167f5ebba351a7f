package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var advanceCmd = &cobra.Command{
	Use:   "advance [days]",
	Short: "Advance the simulated clock",
	Long: `Run the daily pipeline for the given number of days (default 1):
order arrivals, customer sales, recurring bills, vendor payments, loan
installments, market events and product unlocks.

Examples:
  shopkeeper advance
  shopkeeper advance 30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdvance,
}

func init() {
	rootCmd.AddCommand(advanceCmd)
}

func runAdvance(cmd *cobra.Command, args []string) error {
	days := 1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("days must be a non-negative integer, got %q", args[0])
		}
		days = n
	}

	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := engine.Advance(cmd.Context(), days)
	if err != nil {
		return err
	}

	for _, ev := range events {
		fmt.Printf("%s  %-16s %s\n", ev.Day.Format("2006-01-02"), ev.Kind, ev.Message)
	}

	date, err := engine.Date(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("It is now %s\n", date.Format("Monday, January 2 2006"))
	return nil
}
