package purchasing

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
		{ID: ledger.AcctInventory, Name: "Inventory", Type: ledger.TypeFixedAsset},
		{ID: ledger.AcctPayable, Name: "Accounts Payable", Type: ledger.TypeLoan},
	} {
		require.NoError(t, s.CreateAccount(ctx, a))
	}
	return s
}

func seedVendor(t *testing.T, s *ledger.SQLite, v ledger.Vendor, tiers []ledger.DiscountTier) {
	t.Helper()
	require.NoError(t, s.CreateVendor(context.Background(), v, tiers))
}

func TestSelectTier(t *testing.T) {
	t.Parallel()

	tiers := []ledger.DiscountTier{
		{MinQuantity: 1, MaxQuantity: 49, UnitCost: dec("14.50")},
		{MinQuantity: 50, MaxQuantity: 199, UnitCost: dec("12.75")},
		{MinQuantity: 200, UnitCost: dec("11.00")},
	}

	tier, err := SelectTier(tiers, 10)
	require.NoError(t, err)
	assert.True(t, tier.UnitCost.Equal(dec("14.50")))

	tier, err = SelectTier(tiers, 50)
	require.NoError(t, err)
	assert.True(t, tier.UnitCost.Equal(dec("12.75")))

	tier, err = SelectTier(tiers, 10000)
	require.NoError(t, err)
	assert.True(t, tier.UnitCost.Equal(dec("11.00")))

	// Overlapping brackets: the greatest lower bound wins.
	overlapping := []ledger.DiscountTier{
		{MinQuantity: 1, UnitCost: dec("20.00")},
		{MinQuantity: 100, UnitCost: dec("15.00")},
	}
	tier, err = SelectTier(overlapping, 150)
	require.NoError(t, err)
	assert.True(t, tier.UnitCost.Equal(dec("15.00")))

	_, err = SelectTier([]ledger.DiscountTier{{MinQuantity: 100, UnitCost: dec("1")}}, 10)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestShippingCost(t *testing.T) {
	t.Parallel()

	flat := ledger.Vendor{ShippingFlatFee: dec("25.00"), ShippingRate: dec("0")}
	assert.True(t, ShippingCost(flat, dec("1000")).Equal(dec("25.00")))

	mixed := ledger.Vendor{ShippingFlatFee: dec("10.00"), ShippingRate: dec("0.02")}
	assert.True(t, ShippingCost(mixed, dec("1000")).Equal(dec("30.00")))
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	// 2026-01-07 is a Wednesday; five business days later is the next
	// Wednesday, skipping the weekend.
	got := AddBusinessDays(day("2026-01-07"), 5)
	assert.True(t, got.Equal(day("2026-01-14")), "got %s", got)

	// Starting on a Saturday, one business day lands on Monday.
	got = AddBusinessDays(day("2026-01-10"), 1)
	assert.True(t, got.Equal(day("2026-01-12")), "got %s", got)

	got = AddBusinessDays(day("2026-01-07"), 0)
	assert.True(t, got.Equal(day("2026-01-07")))
}

func TestPlaceOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedVendor(t, s, ledger.Vendor{
		ID: "v1", Name: "Vendor One", Reliability: 0.9,
		LeadTimeDays: 5, PaymentTermsDays: 30,
		MinimumOrder: dec("200.00"), ShippingFlatFee: dec("25.00"), ShippingRate: dec("0"),
	}, []ledger.DiscountTier{
		{ProductID: "widget", MinQuantity: 1, MaxQuantity: 49, UnitCost: dec("14.50")},
		{ProductID: "widget", MinQuantity: 50, UnitCost: dec("12.75")},
	})

	po, total, err := PlaceOrder(ctx, s, day("2026-01-07"), "v1",
		[]ItemRequest{{ProductID: "widget", Quantity: 100}})
	require.NoError(t, err)

	// 100 x 12.75 = 1275 subtotal + 25 shipping.
	assert.True(t, total.Equal(dec("1300.00")), "total = %s", total)
	assert.Equal(t, ledger.OrderPending, po.Status)
	assert.True(t, po.ExpectedArrival.Equal(day("2026-01-14")), "eta = %s", po.ExpectedArrival)

	// Shipping folds into the frozen unit cost.
	items, err := s.OrderItems(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitCost.Equal(dec("13.00")), "unit cost = %s", items[0].UnitCost)

	// Placement accrues Inventory against Accounts Payable at the grand total.
	inv, err := s.Account(ctx, ledger.AcctInventory)
	require.NoError(t, err)
	assert.True(t, inv.Balance.Equal(dec("1300.00")))

	ap, err := s.Account(ctx, ledger.AcctPayable)
	require.NoError(t, err)
	assert.True(t, ap.Balance.Equal(dec("-1300.00")))

	// The payable exists but has no due date until goods arrive.
	unpaid, err := s.TotalUnpaidPayables(ctx)
	require.NoError(t, err)
	assert.True(t, unpaid.Equal(dec("1300.00")))

	due, err := s.DuePayables(ctx, day("2030-01-01"))
	require.NoError(t, err)
	assert.Empty(t, due, "due date unset until arrival")

	// Cash is untouched at placement.
	cash, err := s.Account(ctx, ledger.AcctCash)
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("10000.00")))
}

func TestPlaceOrderBelowMinimum(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	seedVendor(t, s, ledger.Vendor{
		ID: "v1", Name: "Vendor One",
		MinimumOrder: dec("500.00"), ShippingFlatFee: dec("0"), ShippingRate: dec("0"),
	}, []ledger.DiscountTier{
		{ProductID: "widget", MinQuantity: 1, UnitCost: dec("10.00")},
	})

	_, _, err := PlaceOrder(ctx, s, day("2026-01-07"), "v1",
		[]ItemRequest{{ProductID: "widget", Quantity: 10}})
	assert.ErrorIs(t, err, ledger.ErrBelowMinimumOrder)
	assert.True(t, ledger.Declined(err))

	// A declined order leaves nothing behind.
	open, err := s.OpenOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestPlaceOrderValidation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := PlaceOrder(ctx, s, day("2026-01-07"), "v1", nil)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, _, err = PlaceOrder(ctx, s, day("2026-01-07"), "missing",
		[]ItemRequest{{ProductID: "widget", Quantity: 1}})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
