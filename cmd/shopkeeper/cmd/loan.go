package cmd

import (
	"fmt"

	"github.com/rustyeddy/shopkeeper/loan"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var hundred = decimal.NewFromInt(100)

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "List, accept and review loans",
}

var loanOffersCmd = &cobra.Command{
	Use:   "offers",
	Short: "List available loan offers",
	Args:  cobra.NoArgs,
	RunE:  runLoanOffers,
}

var loanAcceptCmd = &cobra.Command{
	Use:   "accept <offer-id>",
	Short: "Accept a loan offer",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoanAccept,
}

var loanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the business's loans",
	Args:  cobra.NoArgs,
	RunE:  runLoanList,
}

func init() {
	rootCmd.AddCommand(loanCmd)
	loanCmd.AddCommand(loanOffersCmd)
	loanCmd.AddCommand(loanAcceptCmd)
	loanCmd.AddCommand(loanListCmd)
}

func runLoanOffers(cmd *cobra.Command, args []string) error {
	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, o := range engine.LoanOffers() {
		fmt.Printf("%-10s %s: %s at %s%% over %d months, payment %s/mo\n",
			o.ID, o.Name, o.Principal.StringFixed(2),
			o.AnnualRate.Mul(hundred).StringFixed(1), o.TermMonths,
			loan.MonthlyPayment(o).StringFixed(2))
	}
	return nil
}

func runLoanAccept(cmd *cobra.Command, args []string) error {
	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	ln, err := engine.AcceptLoan(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Loan accepted: %s in cash, %s/mo starting %s\n",
		ln.Principal.StringFixed(2), ln.Payment.StringFixed(2), ln.NextPayment.Format("2006-01-02"))
	return nil
}

func runLoanList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	loans, err := store.Loans(cmd.Context())
	if err != nil {
		return err
	}
	for _, ln := range loans {
		fmt.Printf("%s  %-7s outstanding %s of %s, payment %s next %s\n",
			ln.ID, ln.Status, ln.Outstanding.StringFixed(2), ln.Principal.StringFixed(2),
			ln.Payment.StringFixed(2), ln.NextPayment.Format("2006-01-02"))
	}
	return nil
}
