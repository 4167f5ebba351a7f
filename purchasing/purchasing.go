// Package purchasing manages vendor orders: tiered pricing at placement,
// shipping allocation, delay risk at arrival, and settlement of the
// payables they create.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/pkg/id"
	"github.com/shopspring/decimal"
)

// ItemRequest is one product/quantity pair in an order being placed.
type ItemRequest struct {
	ProductID string
	Quantity  int64
}

// SelectTier picks the volume-discount tier whose bracket contains qty.
// When brackets overlap, the tightest fit — the greatest lower bound — wins
// deterministically.
func SelectTier(tiers []ledger.DiscountTier, qty int64) (ledger.DiscountTier, error) {
	var (
		best  ledger.DiscountTier
		found bool
	)
	for _, t := range tiers {
		if !t.Contains(qty) {
			continue
		}
		if !found || t.MinQuantity > best.MinQuantity {
			best = t
			found = true
		}
	}
	if !found {
		return ledger.DiscountTier{}, fmt.Errorf("%w: no price tier covers quantity %d", ledger.ErrInvalidInput, qty)
	}
	return best, nil
}

// ShippingCost computes the vendor's shipping charge on a subtotal: the flat
// fee plus the variable rate share when the vendor uses one.
func ShippingCost(v ledger.Vendor, subtotal decimal.Decimal) decimal.Decimal {
	return v.ShippingFlatFee.Add(subtotal.Mul(v.ShippingRate)).Round(2)
}

// AddBusinessDays walks forward the given number of Monday–Friday days,
// skipping weekends.
func AddBusinessDays(start time.Time, days int) time.Time {
	d := start
	for added := 0; added < days; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return d
}

// PlaceOrder resolves tier pricing for every line, rejects orders below the
// vendor's minimum, folds shipping into each line's frozen unit cost
// proportionally to its subtotal share, and records the order, its payable
// (due date unset until arrival) and the Inventory/Accounts-Payable accrual.
func PlaceOrder(ctx context.Context, store ledger.Store, day time.Time, vendorID string, items []ItemRequest) (ledger.PurchaseOrder, decimal.Decimal, error) {
	if len(items) == 0 {
		return ledger.PurchaseOrder{}, decimal.Decimal{}, fmt.Errorf("%w: order has no items", ledger.ErrInvalidInput)
	}

	vendor, err := store.Vendor(ctx, vendorID)
	if err != nil {
		return ledger.PurchaseOrder{}, decimal.Decimal{}, err
	}

	type pricedLine struct {
		req      ItemRequest
		unitCost decimal.Decimal
		subtotal decimal.Decimal
	}

	var (
		lines    []pricedLine
		subtotal decimal.Decimal
	)
	for _, req := range items {
		if req.Quantity <= 0 {
			return ledger.PurchaseOrder{}, decimal.Decimal{}, fmt.Errorf("%w: quantity must be positive", ledger.ErrInvalidInput)
		}
		tiers, err := store.Tiers(ctx, vendorID, req.ProductID)
		if err != nil {
			return ledger.PurchaseOrder{}, decimal.Decimal{}, err
		}
		tier, err := SelectTier(tiers, req.Quantity)
		if err != nil {
			return ledger.PurchaseOrder{}, decimal.Decimal{}, err
		}
		lineSubtotal := tier.UnitCost.Mul(decimal.NewFromInt(req.Quantity))
		lines = append(lines, pricedLine{req: req, unitCost: tier.UnitCost, subtotal: lineSubtotal})
		subtotal = subtotal.Add(lineSubtotal)
	}

	if subtotal.LessThan(vendor.MinimumOrder) {
		return ledger.PurchaseOrder{}, decimal.Decimal{}, fmt.Errorf("%w: subtotal %s below %s minimum %s",
			ledger.ErrBelowMinimumOrder, subtotal, vendor.Name, vendor.MinimumOrder)
	}

	shipping := ShippingCost(vendor, subtotal)
	grandTotal := subtotal.Add(shipping)

	po := ledger.PurchaseOrder{
		ID:              id.New(),
		VendorID:        vendorID,
		OrderDate:       day,
		ExpectedArrival: AddBusinessDays(day, vendor.LeadTimeDays),
		Status:          ledger.OrderPending,
	}

	orderItems := make([]ledger.OrderItem, 0, len(lines))
	for _, ln := range lines {
		unitCost := ln.unitCost
		if subtotal.IsPositive() {
			allocated := ln.subtotal.Div(subtotal).Mul(shipping)
			unitCost = unitCost.Add(allocated.Div(decimal.NewFromInt(ln.req.Quantity))).Round(4)
		}
		orderItems = append(orderItems, ledger.OrderItem{
			OrderID:   po.ID,
			ProductID: ln.req.ProductID,
			Quantity:  ln.req.Quantity,
			UnitCost:  unitCost,
		})
	}

	err = store.InTx(ctx, func(st ledger.Store) error {
		if err := st.CreateOrder(ctx, po, orderItems); err != nil {
			return err
		}
		if err := st.CreatePayable(ctx, ledger.Payable{
			ID:       id.New(),
			OrderID:  po.ID,
			VendorID: vendorID,
			Amount:   grandTotal,
			Created:  day,
			Status:   ledger.PayableUnpaid,
		}); err != nil {
			return err
		}
		desc := fmt.Sprintf("Goods on order from %s", vendor.Name)
		return st.AppendTransaction(ctx, ledger.Transaction{
			ID:   po.ID,
			Date: day,
			Lines: []ledger.Line{
				ledger.Debit(ledger.AcctInventory, grandTotal, desc),
				ledger.Credit(ledger.AcctPayable, grandTotal, desc),
			},
		})
	})
	if err != nil {
		return ledger.PurchaseOrder{}, decimal.Decimal{}, err
	}
	return po, grandTotal, nil
}
