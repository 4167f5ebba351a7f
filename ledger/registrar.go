package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/shopkeeper/pkg/id"
	"github.com/shopspring/decimal"
)

// Well-known account ids the simulation pipeline posts against. The config
// seeds them; ids are stable even if the business renames the accounts.
const (
	AcctCash      = "cash"
	AcctInventory = "inventory"
	AcctPayable   = "accounts-payable"
	AcctRevenue   = "sales-revenue"
	AcctCOGS      = "cogs"
	AcctMarketing = "marketing-expense"
	AcctInterest  = "interest-expense"
	AcctLoans     = "loans-payable"
	AcctEquity    = "equity"
)

// Registrar manages named accounts on top of the store: opening them with a
// balanced equity entry, renaming, transfers and reconciliation.
type Registrar struct {
	store Store
}

func NewRegistrar(store Store) *Registrar {
	return &Registrar{store: store}
}

// Open creates the account and, for a non-zero opening balance, posts the
// balancing entry against Equity: a positive balance debits the new account,
// a negative one credits it.
func (r *Registrar) Open(ctx context.Context, a Account, opening decimal.Decimal, asOf time.Time) error {
	a.Balance = decimal.Zero
	if err := a.Validate(); err != nil {
		return err
	}

	return r.store.InTx(ctx, func(st Store) error {
		if err := st.CreateAccount(ctx, a); err != nil {
			return err
		}
		if opening.IsZero() {
			return nil
		}

		txn := Transaction{ID: id.New(), Date: asOf}
		if opening.IsPositive() {
			txn.Lines = []Line{
				Debit(a.ID, opening, descOpening),
				Credit(AcctEquity, opening, descOpening),
			}
		} else {
			txn.Lines = []Line{
				Debit(AcctEquity, opening.Neg(), descOpening),
				Credit(a.ID, opening.Neg(), descOpening),
			}
		}
		return st.AppendTransaction(ctx, txn)
	})
}

// Rename changes the display name only; ledger history keeps pointing at the
// immutable account id.
func (r *Registrar) Rename(ctx context.Context, accountID, name string) error {
	return r.store.RenameAccount(ctx, accountID, name)
}

// Balance returns the cached balance.
func (r *Registrar) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	a, err := r.store.Account(ctx, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return a.Balance, nil
}

// Deposit records an owner contribution into the account.
func (r *Registrar) Deposit(ctx context.Context, day time.Time, accountID string, amount decimal.Decimal, desc string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidInput)
	}
	if desc == "" {
		desc = "Owner deposit"
	}
	return r.store.AppendTransaction(ctx, Transaction{
		ID:   id.New(),
		Date: day,
		Lines: []Line{
			Debit(accountID, amount, desc),
			Credit(AcctEquity, amount, desc),
		},
	})
}

// Withdraw records an owner draw out of the account. The account's balance
// floor still applies.
func (r *Registrar) Withdraw(ctx context.Context, day time.Time, accountID string, amount decimal.Decimal, desc string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidInput)
	}
	if desc == "" {
		desc = "Owner draw"
	}
	return r.store.AppendTransaction(ctx, Transaction{
		ID:   id.New(),
		Date: day,
		Lines: []Line{
			Debit(AcctEquity, amount, desc),
			Credit(accountID, amount, desc),
		},
	})
}

// Transfer moves money between two accounts as a single balanced
// transaction. Type constraints apply: the source cannot overdraw and a
// credit card cannot exceed its limit.
func (r *Registrar) Transfer(ctx context.Context, day time.Time, fromID, toID string, amount decimal.Decimal, desc string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidInput)
	}
	if fromID == toID {
		return fmt.Errorf("%w: transfer needs two distinct accounts", ErrInvalidInput)
	}
	if desc == "" {
		desc = "Account transfer"
	}

	return r.store.AppendTransaction(ctx, Transaction{
		ID:   id.New(),
		Date: day,
		Lines: []Line{
			Debit(toID, amount, desc),
			Credit(fromID, amount, desc),
		},
	})
}

// Reconcile verifies the cached balance equals the signed sum of the
// account's ledger rows.
func (r *Registrar) Reconcile(ctx context.Context, accountID string) error {
	a, err := r.store.Account(ctx, accountID)
	if err != nil {
		return err
	}
	sum, err := r.store.AccountLedgerSum(ctx, accountID)
	if err != nil {
		return err
	}
	if !a.Balance.Equal(sum) {
		return fmt.Errorf("account %q cached balance %s != ledger sum %s", accountID, a.Balance, sum)
	}
	return nil
}
