package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// descOpening marks opening-balance postings so activity-based analytics can
// skip them.
const descOpening = "Opening balance"

// OpeningDescription is the description used on account opening entries.
func OpeningDescription() string { return descOpening }

// Monetary aggregation happens in Go over exact decimal strings; SQL SUM()
// would coerce the TEXT columns to floats and break the trial-balance
// guarantee.

func (s *SQLite) AccountEntries(ctx context.Context, accountID string, from, to time.Time) ([]Entry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT entry_id, transaction_id, transaction_date, account_id, debit, credit, description
		FROM financial_ledger
		WHERE account_id = ? AND transaction_date >= ? AND transaction_date <= ?
		ORDER BY entry_id ASC`, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e             Entry
			debit, credit string
		)
		if err := rows.Scan(&e.EntryID, &e.TransactionID, &e.Date, &e.AccountID, &debit, &credit, &e.Description); err != nil {
			return nil, err
		}
		if e.Debit, err = scanDec(debit); err != nil {
			return nil, err
		}
		if e.Credit, err = scanDec(credit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TrialBalance returns total debits minus total credits across all history.
// It is zero for any set of committed balanced transactions.
func (s *SQLite) TrialBalance(ctx context.Context) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT debit, credit FROM financial_ledger`)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var debit, credit string
		if err := rows.Scan(&debit, &credit); err != nil {
			return decimal.Decimal{}, err
		}
		d, err := scanDec(debit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		c, err := scanDec(credit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(d).Sub(c)
	}
	return total, rows.Err()
}

// AccountLedgerSum recomputes an account's balance from its ledger rows.
// It must always agree with the cached Account.Balance.
func (s *SQLite) AccountLedgerSum(ctx context.Context, accountID string) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT debit, credit FROM financial_ledger WHERE account_id = ?`, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var debit, credit string
		if err := rows.Scan(&debit, &credit); err != nil {
			return decimal.Decimal{}, err
		}
		d, err := scanDec(debit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		c, err := scanDec(credit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(d).Sub(c)
	}
	return total, rows.Err()
}

// SumCredits totals all credits ever posted to an account (e.g. cumulative
// sales revenue for unlock rules).
func (s *SQLite) SumCredits(ctx context.Context, accountID string) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT credit FROM financial_ledger WHERE account_id = ?`, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var credit string
		if err := rows.Scan(&credit); err != nil {
			return decimal.Decimal{}, err
		}
		c, err := scanDec(credit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(c)
	}
	return total, rows.Err()
}

// NetByDay aggregates revenue minus expenses per calendar day over [from, to].
// Days without activity are omitted.
func (s *SQLite) NetByDay(ctx context.Context, from, to time.Time) ([]DayNet, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.transaction_date, l.debit, l.credit, a.type
		FROM financial_ledger l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.type IN (?, ?) AND l.transaction_date >= ? AND l.transaction_date <= ?`,
		string(TypeRevenue), string(TypeExpense), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			ts            time.Time
			debit, credit string
			typ           string
		)
		if err := rows.Scan(&ts, &debit, &credit, &typ); err != nil {
			return nil, err
		}
		d, err := scanDec(debit)
		if err != nil {
			return nil, err
		}
		c, err := scanDec(credit)
		if err != nil {
			return nil, err
		}
		key := ts.Format("2006-01-02")
		switch AccountType(typ) {
		case TypeRevenue:
			byDay[key] = byDay[key].Add(c).Sub(d)
		case TypeExpense:
			byDay[key] = byDay[key].Sub(d).Add(c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortedDayNets(byDay)
}

// RevenueByDay aggregates gross revenue credits per calendar day.
func (s *SQLite) RevenueByDay(ctx context.Context, from, to time.Time) ([]DayRevenue, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.transaction_date, l.credit
		FROM financial_ledger l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.type = ? AND l.transaction_date >= ? AND l.transaction_date <= ?`,
		string(TypeRevenue), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			ts     time.Time
			credit string
		)
		if err := rows.Scan(&ts, &credit); err != nil {
			return nil, err
		}
		c, err := scanDec(credit)
		if err != nil {
			return nil, err
		}
		key := ts.Format("2006-01-02")
		byDay[key] = byDay[key].Add(c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DayRevenue, 0, len(keys))
	for _, k := range keys {
		day, err := time.Parse("2006-01-02", k)
		if err != nil {
			return nil, err
		}
		out = append(out, DayRevenue{Date: day, Revenue: byDay[k]})
	}
	return out, nil
}

func sortedDayNets(byDay map[string]decimal.Decimal) ([]DayNet, error) {
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DayNet, 0, len(keys))
	for _, k := range keys {
		day, err := time.Parse("2006-01-02", k)
		if err != nil {
			return nil, err
		}
		out = append(out, DayNet{Date: day, Net: byDay[k]})
	}
	return out, nil
}

// FirstActivity returns the date of the earliest non-opening ledger entry,
// or nil when the books only hold opening balances.
func (s *SQLite) FirstActivity(ctx context.Context) (*time.Time, error) {
	var ts sql.NullTime
	err := s.q.QueryRowContext(ctx, `
		SELECT MIN(transaction_date) FROM financial_ledger WHERE description != ?`,
		descOpening).Scan(&ts)
	if err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}
	t := ts.Time
	return &t, nil
}

// QuantityOnHand returns the latest quantity-on-hand for a product, zero if
// the product has no inventory history yet.
func (s *SQLite) QuantityOnHand(ctx context.Context, productID string) (int64, error) {
	var qoh int64
	err := s.q.QueryRowContext(ctx, `
		SELECT quantity_after FROM inventory_ledger
		WHERE product_id = ? ORDER BY entry_id DESC LIMIT 1`, productID).Scan(&qoh)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return qoh, nil
}

// RecentPurchaseCosts returns the unit costs of the most recent Purchase
// entries, newest first.
func (s *SQLite) RecentPurchaseCosts(ctx context.Context, productID string, limit int) ([]decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT unit_cost FROM inventory_ledger
		WHERE product_id = ? AND type = ?
		ORDER BY entry_id DESC LIMIT ?`, productID, string(EntryPurchase), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []decimal.Decimal
	for rows.Next() {
		var cost string
		if err := rows.Scan(&cost); err != nil {
			return nil, err
		}
		d, err := scanDec(cost)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InventoryValuation values current stock at each product's mean historical
// purchase cost.
func (s *SQLite) InventoryValuation(ctx context.Context) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT il.product_id, il.quantity_after
		FROM inventory_ledger il
		WHERE il.entry_id = (SELECT MAX(entry_id) FROM inventory_ledger WHERE product_id = il.product_id)`)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	type holding struct {
		productID string
		qty       int64
	}
	var holdings []holding
	for rows.Next() {
		var h holding
		if err := rows.Scan(&h.productID, &h.qty); err != nil {
			return decimal.Decimal{}, err
		}
		if h.qty > 0 {
			holdings = append(holdings, h)
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, err
	}

	total := decimal.Zero
	for _, h := range holdings {
		costs, err := s.RecentPurchaseCosts(ctx, h.productID, 1<<30)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if len(costs) == 0 {
			continue
		}
		sum := decimal.Zero
		for _, c := range costs {
			sum = sum.Add(c)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(costs))))
		total = total.Add(avg.Mul(decimal.NewFromInt(h.qty)))
	}
	return total, nil
}

func (s *SQLite) Product(ctx context.Context, id string) (Product, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT product_id, name, category_id, base_demand, price_sensitivity,
		       default_price, current_price, unlocked, attributes
		FROM products WHERE product_id = ?`, id)
	return scanProduct(row)
}

func (s *SQLite) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT product_id, name, category_id, base_demand, price_sensitivity,
		       default_price, current_price, unlocked, attributes
		FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(r rowScanner) (Product, error) {
	var (
		p                  Product
		defPrice, curPrice string
		unlocked           int
		attrs              string
	)
	err := r.Scan(&p.ID, &p.Name, &p.CategoryID, &p.BaseDemand, &p.PriceSensitivity,
		&defPrice, &curPrice, &unlocked, &attrs)
	if err == sql.ErrNoRows {
		return Product{}, fmt.Errorf("%w: product", ErrNotFound)
	}
	if err != nil {
		return Product{}, err
	}
	if p.DefaultPrice, err = scanDec(defPrice); err != nil {
		return Product{}, err
	}
	if p.CurrentPrice, err = scanDec(curPrice); err != nil {
		return Product{}, err
	}
	p.Unlocked = unlocked != 0
	if err := unmarshalTags(attrs, &p.Attributes); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *SQLite) Vendor(ctx context.Context, id string) (Vendor, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT vendor_id, name, reliability, lead_time_days, payment_terms_days,
		       minimum_order, shipping_flat_fee, shipping_rate
		FROM vendors WHERE vendor_id = ?`, id)
	return scanVendor(row)
}

func (s *SQLite) Vendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT vendor_id, name, reliability, lead_time_days, payment_terms_days,
		       minimum_order, shipping_flat_fee, shipping_rate
		FROM vendors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVendor(r rowScanner) (Vendor, error) {
	var (
		v                Vendor
		minOrder         string
		flatFee, rateStr string
	)
	err := r.Scan(&v.ID, &v.Name, &v.Reliability, &v.LeadTimeDays, &v.PaymentTermsDays,
		&minOrder, &flatFee, &rateStr)
	if err == sql.ErrNoRows {
		return Vendor{}, fmt.Errorf("%w: vendor", ErrNotFound)
	}
	if err != nil {
		return Vendor{}, err
	}
	if v.MinimumOrder, err = scanDec(minOrder); err != nil {
		return Vendor{}, err
	}
	if v.ShippingFlatFee, err = scanDec(flatFee); err != nil {
		return Vendor{}, err
	}
	if v.ShippingRate, err = scanDec(rateStr); err != nil {
		return Vendor{}, err
	}
	return v, nil
}

func (s *SQLite) Tiers(ctx context.Context, vendorID, productID string) ([]DiscountTier, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT vendor_id, product_id, min_quantity, max_quantity, unit_cost
		FROM discount_tiers
		WHERE vendor_id = ? AND product_id = ?
		ORDER BY min_quantity ASC`, vendorID, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiscountTier
	for rows.Next() {
		var (
			t    DiscountTier
			cost string
		)
		if err := rows.Scan(&t.VendorID, &t.ProductID, &t.MinQuantity, &t.MaxQuantity, &cost); err != nil {
			return nil, err
		}
		if t.UnitCost, err = scanDec(cost); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LowestQuote is the cheapest tier price any vendor offers for the product.
// Used as the average-cost fallback before any purchase history exists.
func (s *SQLite) LowestQuote(ctx context.Context, productID string) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT unit_cost FROM discount_tiers WHERE product_id = ?`, productID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	var lowest *decimal.Decimal
	for rows.Next() {
		var cost string
		if err := rows.Scan(&cost); err != nil {
			return decimal.Decimal{}, err
		}
		d, err := scanDec(cost)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if lowest == nil || d.LessThan(*lowest) {
			lowest = &d
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, err
	}
	if lowest == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: no quotes for product %q", ErrNotFound, productID)
	}
	return *lowest, nil
}

func (s *SQLite) OrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT order_id, product_id, quantity, unit_cost
		FROM purchase_order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var (
			it   OrderItem
			cost string
		)
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Quantity, &cost); err != nil {
			return nil, err
		}
		if it.UnitCost, err = scanDec(cost); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ArrivableOrders lists undelivered orders whose expected arrival has been
// reached.
func (s *SQLite) ArrivableOrders(ctx context.Context, asOf time.Time) ([]PurchaseOrder, error) {
	return s.orders(ctx, `
		SELECT order_id, vendor_id, order_date, expected_arrival, actual_arrival, status
		FROM purchase_orders
		WHERE status IN (?, ?) AND expected_arrival <= ?
		ORDER BY expected_arrival ASC`,
		string(OrderPending), string(OrderDelayed), asOf)
}

func (s *SQLite) OpenOrders(ctx context.Context) ([]PurchaseOrder, error) {
	return s.orders(ctx, `
		SELECT order_id, vendor_id, order_date, expected_arrival, actual_arrival, status
		FROM purchase_orders
		WHERE status IN (?, ?)
		ORDER BY expected_arrival ASC`,
		string(OrderPending), string(OrderDelayed))
}

func (s *SQLite) orders(ctx context.Context, query string, args ...any) ([]PurchaseOrder, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchaseOrder
	for rows.Next() {
		var (
			po     PurchaseOrder
			actual sql.NullTime
			status string
		)
		if err := rows.Scan(&po.ID, &po.VendorID, &po.OrderDate, &po.ExpectedArrival, &actual, &status); err != nil {
			return nil, err
		}
		if actual.Valid {
			t := actual.Time
			po.ActualArrival = &t
		}
		po.Status = OrderStatus(status)
		out = append(out, po)
	}
	return out, rows.Err()
}

// DuePayables lists unpaid payables whose fixed due date has been reached.
// Payables with no due date yet (goods not arrived) are never due.
func (s *SQLite) DuePayables(ctx context.Context, asOf time.Time) ([]Payable, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT payable_id, order_id, vendor_id, amount, created, due, paid, status
		FROM accounts_payable
		WHERE status = ? AND due IS NOT NULL AND due <= ?
		ORDER BY due ASC`, string(PayableUnpaid), asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayable(r rowScanner) (Payable, error) {
	var (
		p         Payable
		amount    string
		due, paid sql.NullTime
		status    string
	)
	if err := r.Scan(&p.ID, &p.OrderID, &p.VendorID, &amount, &p.Created, &due, &paid, &status); err != nil {
		return Payable{}, err
	}
	var err error
	if p.Amount, err = scanDec(amount); err != nil {
		return Payable{}, err
	}
	if due.Valid {
		t := due.Time
		p.Due = &t
	}
	if paid.Valid {
		t := paid.Time
		p.Paid = &t
	}
	p.Status = PayableStatus(status)
	return p, nil
}

func (s *SQLite) TotalUnpaidPayables(ctx context.Context) (decimal.Decimal, error) {
	return s.sumColumn(ctx,
		`SELECT amount FROM accounts_payable WHERE status = ?`, string(PayableUnpaid))
}

func (s *SQLite) RecurringItems(ctx context.Context) ([]RecurringItem, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT item_id, description, amount, cadence, due_day, due_month, account_id, income, last_processed
		FROM recurring_items ORDER BY due_day, description`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecurringItem
	for rows.Next() {
		var (
			r        RecurringItem
			amount   string
			cadence  string
			dueMonth int
			income   int
			last     sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Description, &amount, &cadence, &r.DueDay, &dueMonth, &r.AccountID, &income, &last); err != nil {
			return nil, err
		}
		if r.Amount, err = scanDec(amount); err != nil {
			return nil, err
		}
		r.Cadence = Cadence(cadence)
		r.DueMonth = time.Month(dueMonth)
		r.Income = income != 0
		if last.Valid {
			t := last.Time
			r.LastProcessed = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MonthlyRecurringExpenseTotal feeds the daily burn-rate projection.
func (s *SQLite) MonthlyRecurringExpenseTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.sumColumn(ctx, `
		SELECT amount FROM recurring_items WHERE cadence = ? AND income = 0`,
		string(CadenceMonthly))
}

func (s *SQLite) Loans(ctx context.Context) ([]Loan, error) {
	return s.loans(ctx, `
		SELECT loan_id, principal, outstanding, annual_rate, payment, next_payment, status
		FROM loans ORDER BY loan_id`)
}

func (s *SQLite) DueLoans(ctx context.Context, asOf time.Time) ([]Loan, error) {
	return s.loans(ctx, `
		SELECT loan_id, principal, outstanding, annual_rate, payment, next_payment, status
		FROM loans WHERE status = ? AND next_payment <= ?
		ORDER BY next_payment ASC`, string(LoanActive), asOf)
}

func (s *SQLite) loans(ctx context.Context, query string, args ...any) ([]Loan, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var (
			l                                   Loan
			principal, outstanding, rate, paymt string
			status                              string
		)
		if err := rows.Scan(&l.ID, &principal, &outstanding, &rate, &paymt, &l.NextPayment, &status); err != nil {
			return nil, err
		}
		if l.Principal, err = scanDec(principal); err != nil {
			return nil, err
		}
		if l.Outstanding, err = scanDec(outstanding); err != nil {
			return nil, err
		}
		if l.AnnualRate, err = scanDec(rate); err != nil {
			return nil, err
		}
		if l.Payment, err = scanDec(paymt); err != nil {
			return nil, err
		}
		l.Status = LoanStatus(status)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLite) TotalOutstandingDebt(ctx context.Context) (decimal.Decimal, error) {
	return s.sumColumn(ctx,
		`SELECT outstanding FROM loans WHERE status = ?`, string(LoanActive))
}

func (s *SQLite) ActiveCampaigns(ctx context.Context, day time.Time) ([]Campaign, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT campaign_id, name, target_type, target_id, start_date, end_date, boost, cost
		FROM campaigns
		WHERE start_date <= ? AND end_date >= ?`, day, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		var (
			c      Campaign
			target string
			cost   string
		)
		if err := rows.Scan(&c.ID, &c.Name, &target, &c.TargetID, &c.Start, &c.End, &c.Boost, &cost); err != nil {
			return nil, err
		}
		c.Target = CampaignTarget(target)
		if c.Cost, err = scanDec(cost); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) ActiveMarketEvents(ctx context.Context, day time.Time) ([]MarketEvent, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT event_id, name, description, start_date, end_date, boost, filters
		FROM market_events
		WHERE start_date <= ? AND end_date >= ?`, day, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MarketEvent
	for rows.Next() {
		var (
			e       MarketEvent
			filters string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Start, &e.End, &e.Boost, &filters); err != nil {
			return nil, err
		}
		if err := unmarshalTags(filters, &e.Filters); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) sumColumn(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return decimal.Decimal{}, err
		}
		d, err := scanDec(v)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}
