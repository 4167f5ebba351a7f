// Package loan handles borrowing: fixed-payment amortization offers, draw
// down at acceptance, and the monthly interest/principal split.
package loan

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/pkg/id"
	"github.com/shopspring/decimal"
)

// Offer is a loan available to accept: principal at an annual rate over a
// fixed term.
type Offer struct {
	ID         string
	Name       string
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
}

// MonthlyPayment is the standard annuity payment for the offer, rounded to
// cents. A zero rate divides the principal evenly over the term.
func MonthlyPayment(o Offer) decimal.Decimal {
	n := decimal.NewFromInt(int64(o.TermMonths))
	if o.AnnualRate.IsZero() {
		return o.Principal.Div(n).Round(2)
	}
	p, _ := o.Principal.Float64()
	annual, _ := o.AnnualRate.Float64()
	r := annual / 12
	payment := p * r / (1 - math.Pow(1+r, float64(-o.TermMonths)))
	return decimal.NewFromFloat(payment).Round(2)
}

// Accept draws the offer down: cash in, Loans Payable up, first payment due
// on the first of the following month.
func Accept(ctx context.Context, store ledger.Store, day time.Time, o Offer) (ledger.Loan, error) {
	if !o.Principal.IsPositive() || o.TermMonths <= 0 {
		return ledger.Loan{}, fmt.Errorf("%w: loan offer needs positive principal and term", ledger.ErrInvalidInput)
	}

	ln := ledger.Loan{
		ID:          id.New(),
		Principal:   o.Principal,
		Outstanding: o.Principal,
		AnnualRate:  o.AnnualRate,
		Payment:     MonthlyPayment(o),
		NextPayment: firstOfNextMonth(day),
		Status:      ledger.LoanActive,
	}

	err := store.InTx(ctx, func(st ledger.Store) error {
		if err := st.CreateLoan(ctx, ln); err != nil {
			return err
		}
		desc := fmt.Sprintf("Loan disbursement: %s", o.Name)
		return st.AppendTransaction(ctx, ledger.Transaction{
			ID:   id.New(),
			Date: day,
			Lines: []ledger.Line{
				ledger.Debit(ledger.AcctCash, o.Principal, desc),
				ledger.Credit(ledger.AcctLoans, o.Principal, desc),
			},
		})
	})
	if err != nil {
		return ledger.Loan{}, err
	}
	return ln, nil
}

// Payment is the outcome of one due loan installment.
type Payment struct {
	Loan      ledger.Loan
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Paid      bool
	PaidOff   bool
}

// ProcessPayments services every active loan whose payment date has been
// reached. Each installment splits into interest (one month's share of the
// annual rate on the outstanding balance) and principal. The final
// installment shrinks to whatever clears the balance; a loan the cash
// balance cannot cover waits without rescheduling, retrying daily.
func ProcessPayments(ctx context.Context, store ledger.Store, day time.Time) ([]Payment, error) {
	due, err := store.DueLoans(ctx, day)
	if err != nil {
		return nil, err
	}

	var out []Payment
	for _, ln := range due {
		interest := ln.Outstanding.Mul(ln.AnnualRate).Div(decimal.NewFromInt(12)).Round(2)
		total := ln.Payment
		principal := total.Sub(interest)
		if principal.GreaterThan(ln.Outstanding) {
			principal = ln.Outstanding
			total = principal.Add(interest)
		}

		desc := fmt.Sprintf("Loan payment on %s", ln.ID)
		err := store.InTx(ctx, func(st ledger.Store) error {
			if err := st.AppendTransaction(ctx, ledger.Transaction{
				ID:   id.New(),
				Date: day,
				Lines: []ledger.Line{
					ledger.Debit(ledger.AcctLoans, principal, desc),
					ledger.Debit(ledger.AcctInterest, interest, desc),
					ledger.Credit(ledger.AcctCash, total, desc),
				},
			}); err != nil {
				return err
			}

			ln.Outstanding = ln.Outstanding.Sub(principal)
			ln.NextPayment = firstOfNextMonth(ln.NextPayment)
			if !ln.Outstanding.IsPositive() {
				ln.Outstanding = decimal.Zero
				ln.Status = ledger.LoanPaid
			}
			return st.UpdateLoan(ctx, ln)
		})
		if err != nil {
			if ledger.Declined(err) {
				out = append(out, Payment{Loan: ln, Interest: interest, Principal: principal, Paid: false})
				continue
			}
			return nil, err
		}
		out = append(out, Payment{
			Loan:      ln,
			Interest:  interest,
			Principal: principal,
			Paid:      true,
			PaidOff:   ln.Status == ledger.LoanPaid,
		})
	}
	return out, nil
}

func firstOfNextMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month()+1, 1, 0, 0, 0, 0, day.Location())
}
