package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newTestStore(t *testing.T) *ledger.SQLite {
	t.Helper()

	s, err := ledger.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	for _, a := range []ledger.Account{
		{ID: ledger.AcctCash, Name: "Cash", Type: ledger.TypeChecking, Balance: dec("10000.00")},
		{ID: ledger.AcctRevenue, Name: "Sales Revenue", Type: ledger.TypeRevenue},
		{ID: "rent-expense", Name: "Rent", Type: ledger.TypeExpense},
	} {
		require.NoError(t, s.CreateAccount(ctx, a))
	}
	require.NoError(t, s.SetStartDate(ctx, day("2026-01-01")))
	require.NoError(t, s.SetSimDate(ctx, day("2026-01-01")))
	return s
}

func postSale(t *testing.T, s *ledger.SQLite, id, d, amount string) {
	t.Helper()
	require.NoError(t, s.AppendTransaction(context.Background(), ledger.Transaction{
		ID:   id,
		Date: day(d),
		Lines: []ledger.Line{
			ledger.Debit(ledger.AcctCash, dec(amount), "sale"),
			ledger.Credit(ledger.AcctRevenue, dec(amount), "sale"),
		},
	}))
}

func TestDailyBurnRate(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	rate, err := DailyBurnRate(ctx, s)
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	require.NoError(t, s.CreateRecurring(ctx, ledger.RecurringItem{
		ID: "rent", Description: "Rent", Amount: dec("1800.00"),
		Cadence: ledger.CadenceMonthly, DueDay: 1, AccountID: "rent-expense",
	}))
	require.NoError(t, s.CreateRecurring(ctx, ledger.RecurringItem{
		ID: "payroll", Description: "Payroll", Amount: dec("900.00"),
		Cadence: ledger.CadenceMonthly, DueDay: 15, AccountID: "rent-expense",
	}))
	// Weekly and income items stay out of the monthly burn projection.
	require.NoError(t, s.CreateRecurring(ctx, ledger.RecurringItem{
		ID: "cleaning", Description: "Cleaning", Amount: dec("100.00"),
		Cadence: ledger.CadenceWeekly, DueDay: 1, AccountID: "rent-expense",
	}))
	require.NoError(t, s.CreateRecurring(ctx, ledger.RecurringItem{
		ID: "sublease", Description: "Sublease", Amount: dec("600.00"),
		Cadence: ledger.CadenceMonthly, DueDay: 1, AccountID: ledger.AcctRevenue, Income: true,
	}))

	rate, err = DailyBurnRate(ctx, s)
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("90.00")), "2700/30, got %s", rate)
}

func TestNDayNetAverageYoungBusiness(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	// Three days of activity against a 7-day window: the average divides by
	// the days actually operated, not by seven.
	postSale(t, s, "s1", "2026-01-01", "100.00")
	postSale(t, s, "s2", "2026-01-02", "200.00")
	postSale(t, s, "s3", "2026-01-03", "300.00")
	require.NoError(t, s.SetSimDate(ctx, day("2026-01-03")))

	avg, err := NDayNetAverage(ctx, s, 7)
	require.NoError(t, err)
	assert.True(t, avg.Equal(dec("200.00")), "600/3, got %s", avg)
}

func TestNDayNetAverageFullWindow(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	// Ten days in, a 7-day window divides by seven and only sees the last
	// seven days.
	postSale(t, s, "old", "2026-01-01", "7000.00")
	postSale(t, s, "recent", "2026-01-08", "140.00")
	require.NoError(t, s.SetSimDate(ctx, day("2026-01-10")))

	avg, err := NDayNetAverage(ctx, s, 7)
	require.NoError(t, err)
	assert.True(t, avg.Equal(dec("20.00")), "140/7, got %s", avg)
}

func TestNDayNetAverageNoActivity(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	avg, err := NDayNetAverage(context.Background(), s, 7)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())
}

func TestSalesHistory(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	postSale(t, s, "s1", "2026-01-02", "150.00")
	postSale(t, s, "s2", "2026-01-02", "50.00")
	postSale(t, s, "s3", "2026-01-04", "75.00")
	require.NoError(t, s.SetSimDate(ctx, day("2026-01-05")))

	history, err := SalesHistory(ctx, s, 7)
	require.NoError(t, err)
	require.Len(t, history, 2, "days without sales are absent")
	assert.True(t, history[0].Date.Equal(day("2026-01-02")))
	assert.True(t, history[0].Revenue.Equal(dec("200.00")))
	assert.True(t, history[1].Date.Equal(day("2026-01-04")))
	assert.True(t, history[1].Revenue.Equal(dec("75.00")))
}

func TestStatusSummary(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRecurring(ctx, ledger.RecurringItem{
		ID: "rent", Description: "Rent", Amount: dec("3000.00"),
		Cadence: ledger.CadenceMonthly, DueDay: 1, AccountID: "rent-expense",
	}))
	require.NoError(t, s.CreateLoan(ctx, ledger.Loan{
		ID: "l1", Principal: dec("5000.00"), Outstanding: dec("4000.00"),
		AnnualRate: dec("0.1"), Payment: dec("250.00"),
		NextPayment: day("2026-02-01"), Status: ledger.LoanActive,
	}))

	status, err := StatusSummary(ctx, s)
	require.NoError(t, err)
	assert.True(t, status.Date.Equal(day("2026-01-01")))
	assert.True(t, status.Cash.Equal(dec("10000.00")))
	assert.True(t, status.OutstandingDebt.Equal(dec("4000.00")))
	assert.True(t, status.UnpaidPayables.IsZero())
	assert.True(t, status.InventoryValue.IsZero())
	assert.Zero(t, status.OpenOrders)
	assert.True(t, status.DailyBurnRate.Equal(dec("100.00")))
}
