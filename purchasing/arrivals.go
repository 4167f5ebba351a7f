package purchasing

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/pkg/id"
)

// Arrival is the outcome of one order's arrival check.
type Arrival struct {
	Order      ledger.PurchaseOrder
	VendorName string
	Delayed    bool
	NewETA     time.Time // set when Delayed
	DueDate    time.Time // set when delivered
	Items      []ledger.OrderItem
}

// ProcessArrivals handles every undelivered order whose expected date has
// been reached. A Pending order rolls the vendor-reliability coin exactly
// once: on a miss it becomes Delayed with a new ETA pushed 3–10 business
// days out. Delayed orders deliver unconditionally when their pushed ETA
// arrives. Delivery increments inventory at the frozen unit cost and only
// then fixes the payable's due date, counted from the actual arrival.
func ProcessArrivals(ctx context.Context, store ledger.Store, day time.Time, rng *rand.Rand) ([]Arrival, error) {
	orders, err := store.ArrivableOrders(ctx, day)
	if err != nil {
		return nil, err
	}

	var out []Arrival
	for _, po := range orders {
		vendor, err := store.Vendor(ctx, po.VendorID)
		if err != nil {
			return nil, err
		}

		if po.Status == ledger.OrderPending && rng.Float64() > vendor.Reliability {
			offset := 3 + rng.Intn(8) // 3..10 business days
			po.Status = ledger.OrderDelayed
			po.ExpectedArrival = AddBusinessDays(po.ExpectedArrival, offset)
			if err := store.UpdateOrder(ctx, po); err != nil {
				return nil, err
			}
			out = append(out, Arrival{Order: po, VendorName: vendor.Name, Delayed: true, NewETA: po.ExpectedArrival})
			continue
		}

		items, err := store.OrderItems(ctx, po.ID)
		if err != nil {
			return nil, err
		}

		for _, it := range items {
			qoh, err := store.QuantityOnHand(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			err = store.AppendInventory(ctx, []ledger.InventoryEntry{{
				ID:             id.New(),
				TransactionID:  po.ID,
				ProductID:      it.ProductID,
				Date:           day,
				Type:           ledger.EntryPurchase,
				QuantityChange: it.Quantity,
				UnitCost:       it.UnitCost,
				QuantityAfter:  qoh + it.Quantity,
			}})
			if err != nil {
				return nil, fmt.Errorf("receive order %s: %w", po.ID, err)
			}
		}

		arrived := day
		po.Status = ledger.OrderDelivered
		po.ActualArrival = &arrived
		if err := store.UpdateOrder(ctx, po); err != nil {
			return nil, err
		}

		due := day.AddDate(0, 0, vendor.PaymentTermsDays)
		if err := store.SetPayableDue(ctx, po.ID, due); err != nil {
			return nil, err
		}

		out = append(out, Arrival{Order: po, VendorName: vendor.Name, DueDate: due, Items: items})
	}
	return out, nil
}

// Settlement is the outcome of one due payable: paid, or declined for lack
// of cash (in which case it stays due and is retried the next day).
type Settlement struct {
	Payable ledger.Payable
	Paid    bool
}

// SettlePayables pays every payable due on or before day, cash permitting.
func SettlePayables(ctx context.Context, store ledger.Store, day time.Time) ([]Settlement, error) {
	due, err := store.DuePayables(ctx, day)
	if err != nil {
		return nil, err
	}

	var out []Settlement
	for _, p := range due {
		cash, err := store.Account(ctx, ledger.AcctCash)
		if err != nil {
			return nil, err
		}
		if cash.Balance.LessThan(p.Amount) {
			out = append(out, Settlement{Payable: p, Paid: false})
			continue
		}

		desc := fmt.Sprintf("Payment for order %s", p.OrderID)
		err = store.InTx(ctx, func(st ledger.Store) error {
			if err := st.AppendTransaction(ctx, ledger.Transaction{
				ID:   id.New(),
				Date: day,
				Lines: []ledger.Line{
					ledger.Debit(ledger.AcctPayable, p.Amount, desc),
					ledger.Credit(ledger.AcctCash, p.Amount, desc),
				},
			}); err != nil {
				return err
			}
			return st.MarkPayablePaid(ctx, p.ID, day)
		})
		if err != nil {
			if ledger.Declined(err) {
				out = append(out, Settlement{Payable: p, Paid: false})
				continue
			}
			return nil, err
		}
		out = append(out, Settlement{Payable: p, Paid: true})
	}
	return out, nil
}
