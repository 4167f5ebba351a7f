package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedAccounts(t *testing.T, s *SQLite, accounts ...Account) {
	t.Helper()
	ctx := context.Background()
	for _, a := range accounts {
		require.NoError(t, s.CreateAccount(ctx, a))
	}
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, table := range []string{
		"accounts", "financial_ledger", "inventory_ledger", "products",
		"vendors", "discount_tiers", "purchase_orders", "purchase_order_items",
		"accounts_payable", "recurring_items", "loans", "campaigns",
		"market_events", "sim_state",
	} {
		assert.True(t, found[table], "missing table %s", table)
	}
}

func TestAppendTransactionUpdatesBalances(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s,
		Account{ID: "cash", Name: "Cash", Type: TypeChecking, Balance: dec("1000.00")},
		Account{ID: "rent", Name: "Rent", Type: TypeExpense},
	)

	err := s.AppendTransaction(ctx, Transaction{
		ID:   "txn-1",
		Date: day("2026-01-05"),
		Lines: []Line{
			Debit("rent", dec("250.00"), "January rent"),
			Credit("cash", dec("250.00"), "January rent"),
		},
	})
	require.NoError(t, err)

	cash, err := s.Account(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("750.00")), "cash = %s", cash.Balance)

	rent, err := s.Account(ctx, "rent")
	require.NoError(t, err)
	assert.True(t, rent.Balance.Equal(dec("250.00")), "rent = %s", rent.Balance)

	tb, err := s.TrialBalance(ctx)
	require.NoError(t, err)
	assert.True(t, tb.IsZero(), "trial balance = %s", tb)

	sum, err := s.AccountLedgerSum(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("-250.00")))
}

func TestAppendTransactionUnbalanced(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s,
		Account{ID: "cash", Name: "Cash", Type: TypeChecking, Balance: dec("100")},
		Account{ID: "rent", Name: "Rent", Type: TypeExpense},
	)

	err := s.AppendTransaction(ctx, Transaction{
		ID:   "txn-bad",
		Date: day("2026-01-05"),
		Lines: []Line{
			Debit("rent", dec("10"), "x"),
			Credit("cash", dec("20"), "x"),
		},
	})
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestInsufficientFundsLeavesNoRows(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s,
		Account{ID: "cash", Name: "Cash", Type: TypeChecking, Balance: dec("100.00")},
		Account{ID: "rent", Name: "Rent", Type: TypeExpense},
	)

	err := s.AppendTransaction(ctx, Transaction{
		ID:   "txn-over",
		Date: day("2026-01-05"),
		Lines: []Line{
			Debit("rent", dec("150.00"), "too much"),
			Credit("cash", dec("150.00"), "too much"),
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, Declined(err))

	// The decline must not leave partial state behind.
	cash, err := s.Account(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("100.00")))

	entries, err := s.AccountEntries(ctx, "rent", day("2020-01-01"), day("2030-01-01"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeclineInsideEnclosingTxLeavesBalancesIntact(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s,
		Account{ID: "cash", Name: "Cash", Type: TypeChecking, Balance: dec("100.00")},
		Account{ID: "rent", Name: "Rent", Type: TypeExpense},
	)

	// The daily pipeline swallows declines and carries on inside one
	// enclosing transaction, which then commits. No account may be touched
	// by the declined append. Map iteration varies the account order, so
	// run it several times.
	for i := 0; i < 10; i++ {
		err := s.InTx(ctx, func(st Store) error {
			err := st.AppendTransaction(ctx, Transaction{
				ID:   fmt.Sprintf("bill-%d", i),
				Date: day("2026-01-05"),
				Lines: []Line{
					Debit("rent", dec("500.00"), "Warehouse rent"),
					Credit("cash", dec("500.00"), "Warehouse rent"),
				},
			})
			require.ErrorIs(t, err, ErrInsufficientFunds)
			return nil
		})
		require.NoError(t, err)
	}

	cash, err := s.Account(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("100.00")), "cash = %s", cash.Balance)

	rent, err := s.Account(ctx, "rent")
	require.NoError(t, err)
	assert.True(t, rent.Balance.IsZero(), "rent = %s", rent.Balance)

	for _, id := range []string{"cash", "rent"} {
		sum, err := s.AccountLedgerSum(ctx, id)
		require.NoError(t, err)
		assert.True(t, sum.IsZero(), "%s ledger sum = %s", id, sum)
	}
}

func TestCreditCardLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	limit := dec("500.00")
	seedAccounts(t, s,
		Account{ID: "cc", Name: "Card", Type: TypeCreditCard, CreditLimit: &limit},
		Account{ID: "supplies", Name: "Supplies", Type: TypeExpense},
	)

	charge := func(id string, amount string) error {
		return s.AppendTransaction(ctx, Transaction{
			ID:   id,
			Date: day("2026-01-05"),
			Lines: []Line{
				Debit("supplies", dec(amount), "supplies"),
				Credit("cc", dec(amount), "supplies"),
			},
		})
	}

	require.NoError(t, charge("txn-1", "400.00"))

	cc, err := s.Account(ctx, "cc")
	require.NoError(t, err)
	assert.True(t, cc.Balance.Equal(dec("-400.00")), "owed balances are negative, got %s", cc.Balance)

	err = charge("txn-2", "200.00")
	assert.ErrorIs(t, err, ErrCreditLimit)

	require.NoError(t, charge("txn-3", "100.00"))
}

func TestRenameKeepsHistory(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s,
		Account{ID: "cash", Name: "Cash", Type: TypeChecking, Balance: dec("100")},
		Account{ID: "fees", Name: "Fees", Type: TypeExpense},
	)

	require.NoError(t, s.AppendTransaction(ctx, Transaction{
		ID:   "txn-1",
		Date: day("2026-01-05"),
		Lines: []Line{
			Debit("fees", dec("10"), "fee"),
			Credit("cash", dec("10"), "fee"),
		},
	}))

	require.NoError(t, s.RenameAccount(ctx, "cash", "Main Checking"))

	a, err := s.Account(ctx, "cash")
	require.NoError(t, err)
	assert.Equal(t, "Main Checking", a.Name)

	entries, err := s.AccountEntries(ctx, "cash", day("2020-01-01"), day("2030-01-01"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cash", entries[0].AccountID)

	err = s.RenameAccount(ctx, "nope", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryChain(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	entry := func(id string, change, after int64, typ EntryType) InventoryEntry {
		return InventoryEntry{
			ID: id, TransactionID: "txn-" + id, ProductID: "widget",
			Date: day("2026-01-05"), Type: typ,
			QuantityChange: change, UnitCost: dec("4.00"), QuantityAfter: after,
		}
	}

	require.NoError(t, s.AppendInventory(ctx, []InventoryEntry{entry("e1", 10, 10, EntryPurchase)}))
	require.NoError(t, s.AppendInventory(ctx, []InventoryEntry{entry("e2", -4, 6, EntrySale)}))

	qoh, err := s.QuantityOnHand(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(6), qoh)

	// Quantity-after must extend the chain.
	err = s.AppendInventory(ctx, []InventoryEntry{entry("e3", -2, 3, EntrySale)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Selling below zero is rejected outright.
	err = s.AppendInventory(ctx, []InventoryEntry{entry("e4", -10, -4, EntrySale)})
	assert.ErrorIs(t, err, ErrNegativeStock)

	qoh, err = s.QuantityOnHand(ctx, "nothing")
	require.NoError(t, err)
	assert.Zero(t, qoh)
}

func TestInTxRollsBackWholeUnit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s,
		Account{ID: "cash", Name: "Cash", Type: TypeChecking, Balance: dec("1000")},
		Account{ID: "fees", Name: "Fees", Type: TypeExpense},
	)

	err := s.InTx(ctx, func(st Store) error {
		if err := st.AppendTransaction(ctx, Transaction{
			ID:   "txn-ok",
			Date: day("2026-01-05"),
			Lines: []Line{
				Debit("fees", dec("10"), "fee"),
				Credit("cash", dec("10"), "fee"),
			},
		}); err != nil {
			return err
		}
		// Second write busts the cash floor and should unwind the first.
		return st.AppendTransaction(ctx, Transaction{
			ID:   "txn-bust",
			Date: day("2026-01-05"),
			Lines: []Line{
				Debit("fees", dec("5000"), "fee"),
				Credit("cash", dec("5000"), "fee"),
			},
		})
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	cash, err := s.Account(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("1000")), "day rolled back, got %s", cash.Balance)
}

func TestSimStateRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SimDate(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	start := day("2026-01-01")
	require.NoError(t, s.SetStartDate(ctx, start))
	require.NoError(t, s.SetSimDate(ctx, start))

	got, err := s.SimDate(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(start))

	require.NoError(t, s.SetSimDate(ctx, start.AddDate(0, 0, 3)))
	got, err = s.SimDate(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(day("2026-01-04")))

	first, err := s.StartDate(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(start))
}

func TestLowestQuote(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateVendor(ctx, Vendor{
		ID: "v1", Name: "Vendor One",
		MinimumOrder: dec("0"), ShippingFlatFee: dec("0"), ShippingRate: dec("0"),
	}, []DiscountTier{
		{ProductID: "widget", MinQuantity: 1, UnitCost: dec("5.00")},
		{ProductID: "widget", MinQuantity: 100, UnitCost: dec("4.25")},
	}))

	q, err := s.LowestQuote(ctx, "widget")
	require.NoError(t, err)
	assert.True(t, q.Equal(dec("4.25")))

	_, err = s.LowestQuote(ctx, "gadget")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecurringValidationAndStamp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateRecurring(ctx, RecurringItem{
		ID: "bad", Description: "x", Amount: dec("10"),
		Cadence: CadenceMonthly, DueDay: 32, AccountID: "rent",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, s.CreateRecurring(ctx, RecurringItem{
		ID: "rent", Description: "Rent", Amount: dec("100"),
		Cadence: CadenceMonthly, DueDay: 1, AccountID: "rent-expense",
	}))

	require.NoError(t, s.SetRecurringProcessed(ctx, "rent", day("2026-02-01")))

	// The stamp never moves backwards.
	err = s.SetRecurringProcessed(ctx, "rent", day("2026-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := s.RecurringItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].LastProcessed)
	assert.True(t, items[0].LastProcessed.Equal(day("2026-02-01")))
}

func TestProductAttributesRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProduct(ctx, Product{
		ID: "widget", Name: "Widget", CategoryID: "stuff",
		BaseDemand: 10, PriceSensitivity: 1,
		DefaultPrice: dec("9.99"), CurrentPrice: dec("9.99"),
		Attributes: map[string]string{"color": "blue"},
	}))

	p, err := s.Product(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, "blue", p.Attributes["color"])
	assert.False(t, p.Unlocked)

	require.NoError(t, s.SetProductUnlocked(ctx, "widget"))
	p, err = s.Product(ctx, "widget")
	require.NoError(t, err)
	assert.True(t, p.Unlocked)
}
