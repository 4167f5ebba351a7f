package purchasing

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeTestOrder(t *testing.T, s *ledger.SQLite, reliability float64) ledger.PurchaseOrder {
	t.Helper()
	seedVendor(t, s, ledger.Vendor{
		ID: "v1", Name: "Vendor One", Reliability: reliability,
		LeadTimeDays: 5, PaymentTermsDays: 14,
		MinimumOrder: dec("0"), ShippingFlatFee: dec("0"), ShippingRate: dec("0"),
	}, []ledger.DiscountTier{
		{ProductID: "widget", MinQuantity: 1, UnitCost: dec("10.00")},
	})

	po, _, err := PlaceOrder(context.Background(), s, day("2026-01-07"), "v1",
		[]ItemRequest{{ProductID: "widget", Quantity: 20}})
	require.NoError(t, err)
	return po
}

func TestProcessArrivalsDelivers(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	po := placeTestOrder(t, s, 1.0) // perfectly reliable, never delays
	rng := rand.New(rand.NewSource(1))

	// Before the ETA nothing happens.
	got, err := ProcessArrivals(ctx, s, day("2026-01-13"), rng)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ProcessArrivals(ctx, s, day("2026-01-14"), rng)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Delayed)
	assert.True(t, got[0].DueDate.Equal(day("2026-01-28")), "due = terms after actual arrival")

	qoh, err := s.QuantityOnHand(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(20), qoh)

	open, err := s.OpenOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	due, err := s.DuePayables(ctx, day("2026-01-28"))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, po.ID, due[0].OrderID)

	// Delivered is terminal; the order never comes back around.
	got, err = ProcessArrivals(ctx, s, day("2026-01-15"), rng)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProcessArrivalsDelaysOnce(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	placeTestOrder(t, s, 0.0) // always misses the reliability roll
	rng := rand.New(rand.NewSource(7))

	got, err := ProcessArrivals(ctx, s, day("2026-01-14"), rng)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Delayed)
	newETA := got[0].NewETA
	assert.True(t, newETA.After(day("2026-01-14")))

	// Nothing received yet.
	qoh, err := s.QuantityOnHand(ctx, "widget")
	require.NoError(t, err)
	assert.Zero(t, qoh)

	// The roll happens exactly once: at the pushed ETA the delayed order
	// delivers unconditionally, even with zero reliability.
	got, err = ProcessArrivals(ctx, s, newETA, rng)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Delayed)

	qoh, err = s.QuantityOnHand(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(20), qoh)
}

func TestSettlePayables(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	po := placeTestOrder(t, s, 1.0)
	rng := rand.New(rand.NewSource(1))

	_, err := ProcessArrivals(ctx, s, day("2026-01-14"), rng)
	require.NoError(t, err)

	// Not due yet.
	got, err := SettlePayables(ctx, s, day("2026-01-27"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = SettlePayables(ctx, s, day("2026-01-28"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Paid)
	assert.Equal(t, po.ID, got[0].Payable.OrderID)

	cash, err := s.Account(ctx, ledger.AcctCash)
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("9800.00")), "cash = %s", cash.Balance)

	ap, err := s.Account(ctx, ledger.AcctPayable)
	require.NoError(t, err)
	assert.True(t, ap.Balance.IsZero())

	unpaid, err := s.TotalUnpaidPayables(ctx)
	require.NoError(t, err)
	assert.True(t, unpaid.IsZero())
}

func TestSettlePayablesInsufficientCash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	placeTestOrder(t, s, 1.0)
	rng := rand.New(rand.NewSource(1))

	_, err := ProcessArrivals(ctx, s, day("2026-01-14"), rng)
	require.NoError(t, err)

	// Drain cash below the invoice amount.
	require.NoError(t, s.CreateAccount(ctx, ledger.Account{ID: "sink", Name: "Sink", Type: ledger.TypeExpense}))
	require.NoError(t, s.AppendTransaction(ctx, ledger.Transaction{
		ID:   "drain",
		Date: day("2026-01-20"),
		Lines: []ledger.Line{
			ledger.Debit("sink", dec("9900.00"), "drain"),
			ledger.Credit(ledger.AcctCash, dec("9900.00"), "drain"),
		},
	}))

	got, err := SettlePayables(ctx, s, day("2026-01-28"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Paid)

	// Still unpaid and still due: it retries the next day.
	due, err := s.DuePayables(ctx, day("2026-01-29"))
	require.NoError(t, err)
	assert.Len(t, due, 1)
}
