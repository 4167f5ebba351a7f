package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DayNet is one simulated day's revenue minus expenses.
type DayNet struct {
	Date time.Time
	Net  decimal.Decimal
}

// DayRevenue is one simulated day's gross sales revenue.
type DayRevenue struct {
	Date    time.Time
	Revenue decimal.Decimal
}

// Store is the persistence surface the simulation core runs against.
//
// Appends are all-or-nothing: a multi-line ledger write is never partially
// observable. InTx groups several operations into one atomic unit — the
// orchestrator wraps each simulated day in it so a technical failure rolls
// the whole day back while prior days stay committed.
type Store interface {
	// Atomic grouping. Calling InTx on a store that is already inside a
	// transaction just runs fn against the same unit.
	InTx(ctx context.Context, fn func(Store) error) error

	// Financial ledger
	AppendTransaction(ctx context.Context, tx Transaction) error
	AccountEntries(ctx context.Context, accountID string, from, to time.Time) ([]Entry, error)
	TrialBalance(ctx context.Context) (decimal.Decimal, error)
	AccountLedgerSum(ctx context.Context, accountID string) (decimal.Decimal, error)
	SumCredits(ctx context.Context, accountID string) (decimal.Decimal, error)
	NetByDay(ctx context.Context, from, to time.Time) ([]DayNet, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]DayRevenue, error)
	FirstActivity(ctx context.Context) (*time.Time, error)

	// Accounts
	CreateAccount(ctx context.Context, a Account) error
	Account(ctx context.Context, id string) (Account, error)
	Accounts(ctx context.Context) ([]Account, error)
	RenameAccount(ctx context.Context, id, name string) error

	// Inventory ledger
	AppendInventory(ctx context.Context, entries []InventoryEntry) error
	QuantityOnHand(ctx context.Context, productID string) (int64, error)
	RecentPurchaseCosts(ctx context.Context, productID string, limit int) ([]decimal.Decimal, error)
	InventoryValuation(ctx context.Context) (decimal.Decimal, error)

	// Products
	CreateProduct(ctx context.Context, p Product) error
	Product(ctx context.Context, id string) (Product, error)
	Products(ctx context.Context) ([]Product, error)
	SetProductPrice(ctx context.Context, id string, price decimal.Decimal) error
	SetProductUnlocked(ctx context.Context, id string) error

	// Vendors and pricing tiers
	CreateVendor(ctx context.Context, v Vendor, tiers []DiscountTier) error
	Vendor(ctx context.Context, id string) (Vendor, error)
	Vendors(ctx context.Context) ([]Vendor, error)
	Tiers(ctx context.Context, vendorID, productID string) ([]DiscountTier, error)
	LowestQuote(ctx context.Context, productID string) (decimal.Decimal, error)

	// Purchase orders
	CreateOrder(ctx context.Context, po PurchaseOrder, items []OrderItem) error
	UpdateOrder(ctx context.Context, po PurchaseOrder) error
	OrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	ArrivableOrders(ctx context.Context, asOf time.Time) ([]PurchaseOrder, error)
	OpenOrders(ctx context.Context) ([]PurchaseOrder, error)

	// Accounts payable
	CreatePayable(ctx context.Context, p Payable) error
	SetPayableDue(ctx context.Context, orderID string, due time.Time) error
	DuePayables(ctx context.Context, asOf time.Time) ([]Payable, error)
	MarkPayablePaid(ctx context.Context, id string, paid time.Time) error
	TotalUnpaidPayables(ctx context.Context) (decimal.Decimal, error)

	// Recurring obligations
	CreateRecurring(ctx context.Context, r RecurringItem) error
	RecurringItems(ctx context.Context) ([]RecurringItem, error)
	SetRecurringProcessed(ctx context.Context, id string, date time.Time) error
	MonthlyRecurringExpenseTotal(ctx context.Context) (decimal.Decimal, error)

	// Loans
	CreateLoan(ctx context.Context, l Loan) error
	Loans(ctx context.Context) ([]Loan, error)
	DueLoans(ctx context.Context, asOf time.Time) ([]Loan, error)
	UpdateLoan(ctx context.Context, l Loan) error
	TotalOutstandingDebt(ctx context.Context) (decimal.Decimal, error)

	// Campaigns and market events
	CreateCampaign(ctx context.Context, c Campaign) error
	ActiveCampaigns(ctx context.Context, day time.Time) ([]Campaign, error)
	CreateMarketEvent(ctx context.Context, e MarketEvent) error
	ActiveMarketEvents(ctx context.Context, day time.Time) ([]MarketEvent, error)

	// Simulated clock, one row per business
	SimDate(ctx context.Context) (time.Time, error)
	SetSimDate(ctx context.Context, day time.Time) error
	StartDate(ctx context.Context) (time.Time, error)
	SetStartDate(ctx context.Context, day time.Time) error
}
