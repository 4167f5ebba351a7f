package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account for balance constraints and reporting.
type AccountType string

const (
	TypeChecking   AccountType = "CHECKING"
	TypeSavings    AccountType = "SAVINGS"
	TypeCreditCard AccountType = "CREDIT_CARD"
	TypeCash       AccountType = "CASH"
	TypeLoan       AccountType = "LOAN"
	TypeFixedAsset AccountType = "FIXED_ASSET"
	TypeEquity     AccountType = "EQUITY"

	// Nominal accounts (revenue/expense) carry no balance floor; they exist
	// so sales, COGS, interest and operating costs land on named accounts
	// that analytics can aggregate.
	TypeRevenue AccountType = "REVENUE"
	TypeExpense AccountType = "EXPENSE"
)

// Account is a named financial account. The id is immutable and is what
// ledger rows reference; Name is display-only and may be changed at any
// time without rewriting history.
//
// Balance follows the asset-normal convention (debits − credits) for every
// account type, so a credit-card balance is negative while money is owed.
type Account struct {
	ID          string
	Name        string
	Type        AccountType
	Balance     decimal.Decimal
	CreditLimit *decimal.Decimal
}

var validTypes = map[AccountType]bool{
	TypeChecking:   true,
	TypeSavings:    true,
	TypeCreditCard: true,
	TypeCash:       true,
	TypeLoan:       true,
	TypeFixedAsset: true,
	TypeEquity:     true,
	TypeRevenue:    true,
	TypeExpense:    true,
}

// Validate rejects malformed accounts before any mutation.
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}
	if !validTypes[a.Type] {
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, a.Type)
	}
	if a.CreditLimit != nil && a.CreditLimit.IsNegative() {
		return fmt.Errorf("%w: credit limit cannot be negative", ErrInvalidInput)
	}
	return nil
}

// checkBalance enforces the type-specific floor on a prospective balance.
// Asset accounts cannot go below zero; credit cards may go negative down to
// -limit; loan, equity and nominal accounts are unconstrained.
func (a Account) checkBalance(next decimal.Decimal) error {
	switch a.Type {
	case TypeChecking, TypeSavings, TypeCash, TypeFixedAsset:
		if next.IsNegative() {
			return fmt.Errorf("%w: account %q would go to %s", ErrInsufficientFunds, a.Name, next)
		}
	case TypeCreditCard:
		limit := decimal.Zero
		if a.CreditLimit != nil {
			limit = *a.CreditLimit
		}
		if next.LessThan(limit.Neg()) {
			return fmt.Errorf("%w: account %q would go to %s (limit %s)", ErrCreditLimit, a.Name, next, limit)
		}
	}
	return nil
}
