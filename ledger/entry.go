// Package ledger holds the two append-only ledgers that are the system of
// record for the simulation: the double-entry financial ledger and the
// per-product inventory ledger. Every other table is a projection that must
// stay re-derivable from them.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Line is one side of a double-entry posting. Exactly one of Debit or Credit
// must be positive; the other must be zero.
type Line struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// Transaction is a balanced group of lines sharing one id and posting date.
type Transaction struct {
	ID    string
	Date  time.Time
	Lines []Line
}

// Entry is a persisted ledger line as read back from the store.
type Entry struct {
	EntryID       int64
	TransactionID string
	Date          time.Time
	AccountID     string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
}

// Debit builds a debit line.
func Debit(accountID string, amount decimal.Decimal, desc string) Line {
	return Line{AccountID: accountID, Debit: amount, Description: desc}
}

// Credit builds a credit line.
func Credit(accountID string, amount decimal.Decimal, desc string) Line {
	return Line{AccountID: accountID, Credit: amount, Description: desc}
}

// Validate checks the transaction before any mutation: a non-empty balanced
// group whose lines each carry exactly one positive side.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	if len(t.Lines) == 0 {
		return fmt.Errorf("%w: transaction has no lines", ErrInvalidInput)
	}

	var debits, credits decimal.Decimal
	for i, ln := range t.Lines {
		if ln.AccountID == "" {
			return fmt.Errorf("%w: line %d has no account", ErrInvalidInput, i)
		}
		if ln.Debit.IsNegative() || ln.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", ErrInvalidInput, i)
		}
		debitSet := ln.Debit.IsPositive()
		creditSet := ln.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("%w: line %d must set exactly one of debit or credit", ErrInvalidInput, i)
		}
		debits = debits.Add(ln.Debit)
		credits = credits.Add(ln.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits %s != credits %s", ErrUnbalanced, debits, credits)
	}
	return nil
}

// signedDelta is the balance effect of a line under the asset-normal
// convention used for cached balances: debits increase, credits decrease.
func (l Line) signedDelta() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}
