// Package analytics computes read-only financial summaries from the
// ledgers: position snapshots, burn rate and trailing performance.
package analytics

import (
	"context"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/shopspring/decimal"
)

// Status is a point-in-time snapshot of the business's position.
type Status struct {
	Date            time.Time
	Cash            decimal.Decimal
	UnpaidPayables  decimal.Decimal
	OutstandingDebt decimal.Decimal
	InventoryValue  decimal.Decimal
	OpenOrders      int
	DailyBurnRate   decimal.Decimal
}

// StatusSummary assembles the current position snapshot.
func StatusSummary(ctx context.Context, store ledger.Store) (Status, error) {
	var s Status

	day, err := store.SimDate(ctx)
	if err != nil {
		return s, err
	}
	s.Date = day

	cash, err := store.Account(ctx, ledger.AcctCash)
	if err != nil {
		return s, err
	}
	s.Cash = cash.Balance

	if s.UnpaidPayables, err = store.TotalUnpaidPayables(ctx); err != nil {
		return s, err
	}
	if s.OutstandingDebt, err = store.TotalOutstandingDebt(ctx); err != nil {
		return s, err
	}
	if s.InventoryValue, err = store.InventoryValuation(ctx); err != nil {
		return s, err
	}

	open, err := store.OpenOrders(ctx)
	if err != nil {
		return s, err
	}
	s.OpenOrders = len(open)

	if s.DailyBurnRate, err = DailyBurnRate(ctx, store); err != nil {
		return s, err
	}
	return s, nil
}

// DailyBurnRate spreads the monthly recurring expense load over a 30-day
// month.
func DailyBurnRate(ctx context.Context, store ledger.Store) (decimal.Decimal, error) {
	monthly, err := store.MonthlyRecurringExpenseTotal(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return monthly.Div(decimal.NewFromInt(30)).Round(2), nil
}

// NDayNetAverage is the average daily net (revenue minus expenses) over the
// trailing n days. A business younger than n days averages over the days it
// has actually been operating, so early numbers are not diluted by empty
// days before the start.
func NDayNetAverage(ctx context.Context, store ledger.Store, n int) (decimal.Decimal, error) {
	day, err := store.SimDate(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	divisor := int64(n)
	if first, err := store.FirstActivity(ctx); err != nil {
		return decimal.Decimal{}, err
	} else if first != nil {
		elapsed := int64(day.Sub(*first).Hours()/24) + 1
		if elapsed < divisor {
			divisor = elapsed
		}
	}
	if divisor <= 0 {
		return decimal.Zero, nil
	}

	from := day.AddDate(0, 0, -(n - 1))
	nets, err := store.NetByDay(ctx, from, day)
	if err != nil {
		return decimal.Decimal{}, err
	}

	total := decimal.Zero
	for _, dn := range nets {
		total = total.Add(dn.Net)
	}
	return total.Div(decimal.NewFromInt(divisor)).Round(2), nil
}

// SalesHistory returns gross sales revenue per day over the trailing n days,
// oldest first. Days without sales are absent.
func SalesHistory(ctx context.Context, store ledger.Store, n int) ([]ledger.DayRevenue, error) {
	day, err := store.SimDate(ctx)
	if err != nil {
		return nil, err
	}
	from := day.AddDate(0, 0, -(n - 1))
	return store.RevenueByDay(ctx, from, day)
}
