// Package demand turns product parameters, promotions and the calendar into
// units sold per simulated day, and posts the resulting inventory and
// financial entries.
package demand

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/pkg/id"
	"github.com/shopspring/decimal"
)

// weekdayFactors index by time.Weekday (Sunday first).
var weekdayFactors = [7]float64{1.2, 0.9, 0.95, 1.0, 1.1, 1.4, 1.5}

// averageCostWindow is how many recent purchases feed the trailing average.
const averageCostWindow = 10

// Boost is the single best demand multiplier among active campaigns and
// market events that match the product, floored at 1.0.
func Boost(p ledger.Product, campaigns []ledger.Campaign, events []ledger.MarketEvent) float64 {
	boost := 1.0
	for _, c := range campaigns {
		if c.Matches(p) && c.Boost > boost {
			boost = c.Boost
		}
	}
	for _, e := range events {
		if e.Matches(p) && e.Boost > boost {
			boost = e.Boost
		}
	}
	return boost
}

// PriceFactor penalizes pricing above the default: 1 at the default price,
// falling linearly with the product's sensitivity, floored at 0.
func PriceFactor(p ledger.Product) float64 {
	def, _ := p.DefaultPrice.Float64()
	cur, _ := p.CurrentPrice.Float64()
	if def == 0 {
		return 1
	}
	f := 1 - p.PriceSensitivity*(cur-def)/def
	return math.Max(0, f)
}

// TrendFactor compounds 10% growth per elapsed simulated year.
func TrendFactor(start, day time.Time) float64 {
	years := day.Sub(start).Hours() / 24 / 365.25
	return math.Pow(1.10, years)
}

// SeasonalFactor is a phase-shifted annual sine wave peaking in late spring.
func SeasonalFactor(day time.Time) float64 {
	doy := float64(day.YearDay())
	return 1 + 0.3*math.Sin(2*math.Pi*(doy-80)/365.25)
}

// WeekdayFactor weights weekends up and early weekdays down.
func WeekdayFactor(day time.Time) float64 {
	return weekdayFactors[day.Weekday()]
}

// Units computes the day's demand for a product before stock clamping.
// jitter is the uniform [0.9, 1.1] noise sample for the day.
func Units(p ledger.Product, boost float64, start, day time.Time, jitter float64) int64 {
	daily := p.BaseDemand / 7 * boost
	adjusted := daily *
		TrendFactor(start, day) *
		SeasonalFactor(day) *
		WeekdayFactor(day) *
		PriceFactor(p) *
		jitter
	if adjusted <= 0 {
		return 0
	}
	return int64(math.Round(adjusted))
}

// AverageCost is the mean unit cost of the most recent Purchase entries,
// falling back to the lowest vendor quote before any purchase history.
func AverageCost(ctx context.Context, store ledger.Store, productID string) (decimal.Decimal, error) {
	costs, err := store.RecentPurchaseCosts(ctx, productID, averageCostWindow)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(costs) == 0 {
		return store.LowestQuote(ctx, productID)
	}
	sum := decimal.Zero
	for _, c := range costs {
		sum = sum.Add(c)
	}
	return sum.Div(decimal.NewFromInt(int64(len(costs)))).Round(4), nil
}

// Sale is one product's sales outcome for the day.
type Sale struct {
	Product ledger.Product
	Units   int64
	Revenue decimal.Decimal
	Cost    decimal.Decimal
}

// ProcessSales runs the demand model for every unlocked product with stock
// on hand, clamps to availability, and posts the inventory movement plus the
// revenue and cost-of-goods entries.
func ProcessSales(ctx context.Context, store ledger.Store, start, day time.Time, rng *rand.Rand) ([]Sale, error) {
	products, err := store.Products(ctx)
	if err != nil {
		return nil, err
	}

	campaigns, err := store.ActiveCampaigns(ctx, day)
	if err != nil {
		return nil, err
	}
	events, err := store.ActiveMarketEvents(ctx, day)
	if err != nil {
		return nil, err
	}

	var out []Sale
	for _, p := range products {
		if !p.Unlocked {
			continue
		}
		stock, err := store.QuantityOnHand(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if stock <= 0 {
			continue
		}

		jitter := 0.9 + 0.2*rng.Float64()
		units := Units(p, Boost(p, campaigns, events), start, day, jitter)
		if units > stock {
			units = stock
		}
		if units <= 0 {
			continue
		}

		avgCost, err := AverageCost(ctx, store, p.ID)
		if err != nil {
			return nil, err
		}

		qty := decimal.NewFromInt(units)
		revenue := p.CurrentPrice.Mul(qty)
		cogs := avgCost.Mul(qty)
		txnID := id.New()

		err = store.InTx(ctx, func(st ledger.Store) error {
			if err := st.AppendInventory(ctx, []ledger.InventoryEntry{{
				ID:             id.New(),
				TransactionID:  txnID,
				ProductID:      p.ID,
				Date:           day,
				Type:           ledger.EntrySale,
				QuantityChange: -units,
				UnitCost:       avgCost,
				QuantityAfter:  stock - units,
			}}); err != nil {
				return err
			}
			desc := "Customer sales: " + p.Name
			return st.AppendTransaction(ctx, ledger.Transaction{
				ID:   txnID,
				Date: day,
				Lines: []ledger.Line{
					ledger.Debit(ledger.AcctCash, revenue, desc),
					ledger.Credit(ledger.AcctRevenue, revenue, desc),
					ledger.Debit(ledger.AcctCOGS, cogs, desc),
					ledger.Credit(ledger.AcctInventory, cogs, desc),
				},
			})
		})
		if err != nil {
			return nil, err
		}

		out = append(out, Sale{Product: p, Units: units, Revenue: revenue, Cost: cogs})
	}
	return out, nil
}
