package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// every store method runs identically inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLite is the Store implementation backed by a single SQLite file.
type SQLite struct {
	db *sql.DB // nil when this value is bound to an open transaction
	q  querier
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path and applies the
// schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, q: db}, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InTx runs fn inside one SQLite transaction. When the receiver is already
// transactional the call is flattened into the enclosing unit, which is what
// lets AppendTransaction stay atomic on its own yet join a per-day unit when
// the orchestrator provides one.
func (s *SQLite) InTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	child := &SQLite{q: tx}
	if err := fn(child); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanDec(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad decimal %q: %w", s, err)
	}
	return d, nil
}

func nullDec(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := scanDec(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// AppendTransaction atomically inserts all lines of a balanced transaction
// and rolls the cached account balances forward, enforcing each account's
// balance floor. The cached balance therefore always equals the signed sum
// of that account's ledger rows.
func (s *SQLite) AppendTransaction(ctx context.Context, txn Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	return s.InTx(ctx, func(st Store) error {
		ss := st.(*SQLite)

		deltas := map[string]decimal.Decimal{}
		for _, ln := range txn.Lines {
			deltas[ln.AccountID] = deltas[ln.AccountID].Add(ln.signedDelta())
		}

		// Check every floor before touching anything. InTx flattens inside
		// an enclosing transaction, so a decline raised mid-write could not
		// be rolled back there; declining up front leaves no mutation at all.
		type update struct {
			accountID string
			next      decimal.Decimal
		}
		updates := make([]update, 0, len(deltas))
		for acctID, delta := range deltas {
			acct, err := ss.Account(ctx, acctID)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", txn.ID, err)
			}
			next := acct.Balance.Add(delta)
			if err := acct.checkBalance(next); err != nil {
				return err
			}
			updates = append(updates, update{acctID, next})
		}
		for _, u := range updates {
			_, err := ss.q.ExecContext(ctx,
				`UPDATE accounts SET balance = ? WHERE account_id = ?`,
				u.next.String(), u.accountID)
			if err != nil {
				return fmt.Errorf("update balance: %w", err)
			}
		}

		for _, ln := range txn.Lines {
			_, err := ss.q.ExecContext(ctx, `
				INSERT INTO financial_ledger
				(transaction_id, transaction_date, account_id, debit, credit, description)
				VALUES (?, ?, ?, ?, ?, ?)`,
				txn.ID, txn.Date, ln.AccountID,
				ln.Debit.String(), ln.Credit.String(), ln.Description)
			if err != nil {
				return fmt.Errorf("insert ledger line: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) CreateAccount(ctx context.Context, a Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	var limit any
	if a.CreditLimit != nil {
		limit = a.CreditLimit.String()
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts (account_id, name, type, balance, credit_limit)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Balance.String(), limit)
	if err != nil {
		return fmt.Errorf("create account %q: %w", a.ID, err)
	}
	return nil
}

func (s *SQLite) Account(ctx context.Context, id string) (Account, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT account_id, name, type, balance, credit_limit
		FROM accounts WHERE account_id = ?`, id)
	return scanAccount(row)
}

func (s *SQLite) Accounts(ctx context.Context) ([]Account, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT account_id, name, type, balance, credit_limit
		FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (Account, error) {
	var (
		a       Account
		typ     string
		balance string
		limit   sql.NullString
	)
	err := r.Scan(&a.ID, &a.Name, &typ, &balance, &limit)
	if err == sql.ErrNoRows {
		return Account{}, fmt.Errorf("%w: account", ErrNotFound)
	}
	if err != nil {
		return Account{}, err
	}
	a.Type = AccountType(typ)
	if a.Balance, err = scanDec(balance); err != nil {
		return Account{}, err
	}
	if a.CreditLimit, err = nullDec(limit); err != nil {
		return Account{}, err
	}
	return a, nil
}

// RenameAccount changes the display name only. Ledger rows reference the
// immutable account id, so history is never rewritten.
func (s *SQLite) RenameAccount(ctx context.Context, id, name string) error {
	if name == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE accounts SET name = ? WHERE account_id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: account %q", ErrNotFound, id)
	}
	return nil
}

// AppendInventory inserts inventory entries, verifying each one extends its
// product's quantity chain without going negative.
func (s *SQLite) AppendInventory(ctx context.Context, entries []InventoryEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no inventory entries", ErrInvalidInput)
	}

	return s.InTx(ctx, func(st Store) error {
		ss := st.(*SQLite)
		for _, e := range entries {
			if err := e.Validate(); err != nil {
				return err
			}
			qoh, err := ss.QuantityOnHand(ctx, e.ProductID)
			if err != nil {
				return err
			}
			if qoh+e.QuantityChange != e.QuantityAfter {
				return fmt.Errorf("%w: product %s quantity chain broken (%d%+d != %d)",
					ErrInvalidInput, e.ProductID, qoh, e.QuantityChange, e.QuantityAfter)
			}
			_, err = ss.q.ExecContext(ctx, `
				INSERT INTO inventory_ledger
				(id, transaction_id, product_id, transaction_date, type, quantity_change, unit_cost, quantity_after)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				e.ID, e.TransactionID, e.ProductID, e.Date, string(e.Type),
				e.QuantityChange, e.UnitCost.String(), e.QuantityAfter)
			if err != nil {
				return fmt.Errorf("insert inventory entry: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) CreateProduct(ctx context.Context, p Product) error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("%w: product needs id and name", ErrInvalidInput)
	}
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO products
		(product_id, name, category_id, base_demand, price_sensitivity, default_price, current_price, unlocked, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CategoryID, p.BaseDemand, p.PriceSensitivity,
		p.DefaultPrice.String(), p.CurrentPrice.String(), boolInt(p.Unlocked), string(attrs))
	if err != nil {
		return fmt.Errorf("create product %q: %w", p.ID, err)
	}
	return nil
}

func (s *SQLite) SetProductPrice(ctx context.Context, id string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE products SET current_price = ? WHERE product_id = ?`, price.String(), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: product %q", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) SetProductUnlocked(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE products SET unlocked = 1 WHERE product_id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: product %q", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) CreateVendor(ctx context.Context, v Vendor, tiers []DiscountTier) error {
	if v.ID == "" || v.Name == "" {
		return fmt.Errorf("%w: vendor needs id and name", ErrInvalidInput)
	}
	return s.InTx(ctx, func(st Store) error {
		ss := st.(*SQLite)
		_, err := ss.q.ExecContext(ctx, `
			INSERT INTO vendors
			(vendor_id, name, reliability, lead_time_days, payment_terms_days, minimum_order, shipping_flat_fee, shipping_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.Name, v.Reliability, v.LeadTimeDays, v.PaymentTermsDays,
			v.MinimumOrder.String(), v.ShippingFlatFee.String(), v.ShippingRate.String())
		if err != nil {
			return fmt.Errorf("create vendor %q: %w", v.ID, err)
		}
		for _, t := range tiers {
			_, err := ss.q.ExecContext(ctx, `
				INSERT INTO discount_tiers (vendor_id, product_id, min_quantity, max_quantity, unit_cost)
				VALUES (?, ?, ?, ?, ?)`,
				v.ID, t.ProductID, t.MinQuantity, t.MaxQuantity, t.UnitCost.String())
			if err != nil {
				return fmt.Errorf("create tier: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) CreateOrder(ctx context.Context, po PurchaseOrder, items []OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	return s.InTx(ctx, func(st Store) error {
		ss := st.(*SQLite)
		_, err := ss.q.ExecContext(ctx, `
			INSERT INTO purchase_orders (order_id, vendor_id, order_date, expected_arrival, actual_arrival, status)
			VALUES (?, ?, ?, ?, NULL, ?)`,
			po.ID, po.VendorID, po.OrderDate, po.ExpectedArrival, string(po.Status))
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, it := range items {
			_, err := ss.q.ExecContext(ctx, `
				INSERT INTO purchase_order_items (order_id, product_id, quantity, unit_cost)
				VALUES (?, ?, ?, ?)`,
				po.ID, it.ProductID, it.Quantity, it.UnitCost.String())
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) UpdateOrder(ctx context.Context, po PurchaseOrder) error {
	var actual any
	if po.ActualArrival != nil {
		actual = *po.ActualArrival
	}
	res, err := s.q.ExecContext(ctx, `
		UPDATE purchase_orders
		SET expected_arrival = ?, actual_arrival = ?, status = ?
		WHERE order_id = ?`,
		po.ExpectedArrival, actual, string(po.Status), po.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: order %q", ErrNotFound, po.ID)
	}
	return nil
}

func (s *SQLite) CreatePayable(ctx context.Context, p Payable) error {
	var due, paid any
	if p.Due != nil {
		due = *p.Due
	}
	if p.Paid != nil {
		paid = *p.Paid
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts_payable (payable_id, order_id, vendor_id, amount, created, due, paid, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrderID, p.VendorID, p.Amount.String(), p.Created, due, paid, string(p.Status))
	if err != nil {
		return fmt.Errorf("create payable: %w", err)
	}
	return nil
}

// SetPayableDue fixes the due date once the linked order has arrived.
func (s *SQLite) SetPayableDue(ctx context.Context, orderID string, due time.Time) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE accounts_payable SET due = ? WHERE order_id = ? AND status = ?`,
		due, orderID, string(PayableUnpaid))
	if err != nil {
		return fmt.Errorf("set payable due: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: unpaid payable for order %q", ErrNotFound, orderID)
	}
	return nil
}

func (s *SQLite) MarkPayablePaid(ctx context.Context, id string, paid time.Time) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE accounts_payable SET status = ?, paid = ? WHERE payable_id = ? AND status = ?`,
		string(PayablePaid), paid, id, string(PayableUnpaid))
	if err != nil {
		return fmt.Errorf("mark payable paid: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: unpaid payable %q", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) CreateRecurring(ctx context.Context, r RecurringItem) error {
	if err := validateRecurring(r); err != nil {
		return err
	}
	var last any
	if r.LastProcessed != nil {
		last = *r.LastProcessed
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO recurring_items
		(item_id, description, amount, cadence, due_day, due_month, account_id, income, last_processed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Description, r.Amount.String(), string(r.Cadence),
		r.DueDay, int(r.DueMonth), r.AccountID, boolInt(r.Income), last)
	if err != nil {
		return fmt.Errorf("create recurring item: %w", err)
	}
	return nil
}

func validateRecurring(r RecurringItem) error {
	if r.ID == "" || r.Description == "" || r.AccountID == "" {
		return fmt.Errorf("%w: recurring item needs id, description and account", ErrInvalidInput)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: recurring amount must be positive", ErrInvalidInput)
	}
	switch r.Cadence {
	case CadenceDaily:
	case CadenceWeekly:
		if r.DueDay < 0 || r.DueDay > 6 {
			return fmt.Errorf("%w: weekly due day must be 0-6", ErrInvalidInput)
		}
	case CadenceMonthly:
		if r.DueDay < 1 || r.DueDay > 31 {
			return fmt.Errorf("%w: monthly due day must be 1-31", ErrInvalidInput)
		}
	case CadenceYearly:
		if r.DueDay < 1 || r.DueDay > 31 || r.DueMonth < time.January || r.DueMonth > time.December {
			return fmt.Errorf("%w: yearly due day/month out of range", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown cadence %q", ErrInvalidInput, r.Cadence)
	}
	return nil
}

// SetRecurringProcessed stamps the last-processed date. The stamp only moves
// forward; an attempt to move it back is a bug in the caller.
func (s *SQLite) SetRecurringProcessed(ctx context.Context, id string, date time.Time) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE recurring_items SET last_processed = ?
		WHERE item_id = ? AND (last_processed IS NULL OR last_processed <= ?)`,
		date, id, date)
	if err != nil {
		return fmt.Errorf("stamp recurring item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: recurring item %q (or stamp would move backwards)", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) CreateLoan(ctx context.Context, l Loan) error {
	if !l.Principal.IsPositive() || !l.Payment.IsPositive() {
		return fmt.Errorf("%w: loan principal and payment must be positive", ErrInvalidInput)
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO loans (loan_id, principal, outstanding, annual_rate, payment, next_payment, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Principal.String(), l.Outstanding.String(), l.AnnualRate.String(),
		l.Payment.String(), l.NextPayment, string(l.Status))
	if err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateLoan(ctx context.Context, l Loan) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE loans SET outstanding = ?, next_payment = ?, status = ? WHERE loan_id = ?`,
		l.Outstanding.String(), l.NextPayment, string(l.Status), l.ID)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: loan %q", ErrNotFound, l.ID)
	}
	return nil
}

func (s *SQLite) CreateCampaign(ctx context.Context, c Campaign) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO campaigns (campaign_id, name, target_type, target_id, start_date, end_date, boost, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Target), c.TargetID, c.Start, c.End, c.Boost, c.Cost.String())
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (s *SQLite) CreateMarketEvent(ctx context.Context, e MarketEvent) error {
	filters, err := json.Marshal(e.Filters)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO market_events (event_id, name, description, start_date, end_date, boost, filters)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Description, e.Start, e.End, e.Boost, string(filters))
	if err != nil {
		return fmt.Errorf("create market event: %w", err)
	}
	return nil
}

const (
	stateCurrentDate = "current_date"
	stateStartDate   = "start_date"
)

func (s *SQLite) SimDate(ctx context.Context) (time.Time, error) {
	return s.stateDate(ctx, stateCurrentDate)
}

func (s *SQLite) SetSimDate(ctx context.Context, day time.Time) error {
	return s.setStateDate(ctx, stateCurrentDate, day)
}

func (s *SQLite) StartDate(ctx context.Context) (time.Time, error) {
	return s.stateDate(ctx, stateStartDate)
}

func (s *SQLite) SetStartDate(ctx context.Context, day time.Time) error {
	return s.setStateDate(ctx, stateStartDate, day)
}

func (s *SQLite) stateDate(ctx context.Context, key string) (time.Time, error) {
	var v string
	err := s.q.QueryRowContext(ctx,
		`SELECT value FROM sim_state WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("%w: sim state %q", ErrNotFound, key)
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad sim state %q: %w", v, err)
	}
	return t, nil
}

func (s *SQLite) setStateDate(ctx context.Context, key string, day time.Time) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO sim_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, day.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set sim state: %w", err)
	}
	return nil
}

func unmarshalTags(s string, out *map[string]string) error {
	if s == "" || s == "null" {
		*out = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("bad tags %q: %w", s, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
