package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item with its demand parameters. Attributes are
// free-form tags (e.g. switch type, sound profile) that market events match
// against.
type Product struct {
	ID               string
	Name             string
	CategoryID       string
	BaseDemand       float64
	PriceSensitivity float64
	DefaultPrice     decimal.Decimal
	CurrentPrice     decimal.Decimal
	Unlocked         bool
	Attributes       map[string]string
}

// Vendor supplies products under tiered pricing. Reliability is the
// probability an order arrives on its expected date rather than slipping.
type Vendor struct {
	ID               string
	Name             string
	Reliability      float64
	LeadTimeDays     int
	PaymentTermsDays int
	MinimumOrder     decimal.Decimal
	ShippingFlatFee  decimal.Decimal
	ShippingRate     decimal.Decimal // variable portion applied to subtotal; zero for flat-only
}

// DiscountTier is one [MinQuantity, MaxQuantity] price bracket for a
// vendor+product pair. MaxQuantity zero means the bracket is open-ended.
type DiscountTier struct {
	VendorID    string
	ProductID   string
	MinQuantity int64
	MaxQuantity int64
	UnitCost    decimal.Decimal
}

// Contains reports whether qty falls inside the bracket.
func (t DiscountTier) Contains(qty int64) bool {
	if qty < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == 0 || qty <= t.MaxQuantity
}

// OrderStatus is the purchase-order lifecycle. Delivered is terminal;
// Delayed loops until the pushed ETA is reached.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderDelayed   OrderStatus = "DELAYED"
	OrderDelivered OrderStatus = "DELIVERED"
)

// PurchaseOrder tracks a vendor order from placement to delivery.
type PurchaseOrder struct {
	ID              string
	VendorID        string
	OrderDate       time.Time
	ExpectedArrival time.Time
	ActualArrival   *time.Time
	Status          OrderStatus
}

// OrderItem is one line of a purchase order. UnitCost is frozen at
// placement and already includes the item's allocated share of shipping.
type OrderItem struct {
	OrderID   string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// PayableStatus is the accounts-payable lifecycle. Paid is terminal.
type PayableStatus string

const (
	PayableUnpaid PayableStatus = "UNPAID"
	PayablePaid   PayableStatus = "PAID"
)

// Payable is the obligation created when an order is placed. Due stays nil
// until the goods actually arrive.
type Payable struct {
	ID       string
	OrderID  string
	VendorID string
	Amount   decimal.Decimal
	Created  time.Time
	Due      *time.Time
	Paid     *time.Time
	Status   PayableStatus
}

// Cadence is how often a recurring item bills.
type Cadence string

const (
	CadenceDaily   Cadence = "DAILY"
	CadenceWeekly  Cadence = "WEEKLY"
	CadenceMonthly Cadence = "MONTHLY"
	CadenceYearly  Cadence = "YEARLY"
)

// RecurringItem is a recurring expense or income obligation. DueDay is the
// day of month for monthly/yearly cadences and the weekday (0 = Sunday) for
// weekly; DueMonth applies to yearly only. LastProcessed, once set, only
// moves forward, one billing period per successful post.
type RecurringItem struct {
	ID            string
	Description   string
	Amount        decimal.Decimal
	Cadence       Cadence
	DueDay        int
	DueMonth      time.Month
	AccountID     string // nominal account the posting lands on
	Income        bool
	LastProcessed *time.Time
}

// LoanStatus is the loan lifecycle. Paid is terminal.
type LoanStatus string

const (
	LoanActive LoanStatus = "ACTIVE"
	LoanPaid   LoanStatus = "PAID"
)

// Loan is an amortizing obligation with a fixed monthly payment.
type Loan struct {
	ID          string
	Principal   decimal.Decimal
	Outstanding decimal.Decimal
	AnnualRate  decimal.Decimal
	Payment     decimal.Decimal
	NextPayment time.Time
	Status      LoanStatus
}

// CampaignTarget selects which products a marketing campaign boosts.
type CampaignTarget string

const (
	TargetProduct  CampaignTarget = "PRODUCT"
	TargetCategory CampaignTarget = "CATEGORY"
	TargetAll      CampaignTarget = "ALL"
)

// Campaign is a paid, time-boxed demand boost.
type Campaign struct {
	ID       string
	Name     string
	Target   CampaignTarget
	TargetID string
	Start    time.Time
	End      time.Time
	Boost    float64
	Cost     decimal.Decimal
}

// Active reports whether the campaign window covers the given day.
func (c Campaign) Active(day time.Time) bool {
	return !day.Before(c.Start) && !day.After(c.End)
}

// Matches reports whether the campaign applies to the product.
func (c Campaign) Matches(p Product) bool {
	switch c.Target {
	case TargetProduct:
		return c.TargetID == p.ID
	case TargetCategory:
		return c.TargetID == p.CategoryID
	case TargetAll:
		return true
	}
	return false
}

// MarketEvent is a market-driven demand boost. Filters match product
// attributes; an absent filter key matches anything.
type MarketEvent struct {
	ID          string
	Name        string
	Description string
	Start       time.Time
	End         time.Time
	Boost       float64
	Filters     map[string]string
}

// Active reports whether the event window covers the given day.
func (e MarketEvent) Active(day time.Time) bool {
	return !day.Before(e.Start) && !day.After(e.End)
}

// Matches reports whether every filter agrees with the product's attributes.
func (e MarketEvent) Matches(p Product) bool {
	for k, want := range e.Filters {
		if p.Attributes[k] != want {
			return false
		}
	}
	return true
}
