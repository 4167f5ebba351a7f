package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType distinguishes the two inventory movements.
type EntryType string

const (
	EntryPurchase EntryType = "PURCHASE"
	EntrySale     EntryType = "SALE"
)

// InventoryEntry is one row of the per-product inventory ledger.
// QuantityAfter is derived (previous on-hand + QuantityChange) and must
// never be negative; the store rejects entries that break the chain.
type InventoryEntry struct {
	ID             string
	TransactionID  string
	ProductID      string
	Date           time.Time
	Type           EntryType
	QuantityChange int64
	UnitCost       decimal.Decimal
	QuantityAfter  int64
}

// Validate checks shape only; chain consistency is enforced at append time
// against the stored quantity-on-hand.
func (e InventoryEntry) Validate() error {
	if e.ID == "" || e.ProductID == "" {
		return fmt.Errorf("%w: inventory entry needs id and product", ErrInvalidInput)
	}
	switch e.Type {
	case EntryPurchase:
		if e.QuantityChange <= 0 {
			return fmt.Errorf("%w: purchase quantity must be positive", ErrInvalidInput)
		}
	case EntrySale:
		if e.QuantityChange >= 0 {
			return fmt.Errorf("%w: sale quantity must be negative", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown inventory entry type %q", ErrInvalidInput, e.Type)
	}
	if e.UnitCost.IsNegative() {
		return fmt.Errorf("%w: unit cost cannot be negative", ErrInvalidInput)
	}
	if e.QuantityAfter < 0 {
		return fmt.Errorf("%w: quantity on hand for %s would be %d", ErrNegativeStock, e.ProductID, e.QuantityAfter)
	}
	return nil
}
