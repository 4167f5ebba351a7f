// ledger/schema.go
package ledger

// Monetary columns are stored as TEXT holding exact decimal strings; REAL
// is reserved for dimensionless multipliers.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL,
	balance TEXT NOT NULL,
	credit_limit TEXT
);

CREATE TABLE IF NOT EXISTS financial_ledger (
	entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_id TEXT NOT NULL,
	transaction_date DATETIME NOT NULL,
	account_id TEXT NOT NULL REFERENCES accounts(account_id),
	debit TEXT NOT NULL,
	credit TEXT NOT NULL,
	description TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fin_account_date ON financial_ledger(account_id, transaction_date);
CREATE INDEX IF NOT EXISTS idx_fin_txn ON financial_ledger(transaction_id);

CREATE TABLE IF NOT EXISTS inventory_ledger (
	entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	transaction_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	transaction_date DATETIME NOT NULL,
	type TEXT NOT NULL,
	quantity_change INTEGER NOT NULL,
	unit_cost TEXT NOT NULL,
	quantity_after INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inv_product ON inventory_ledger(product_id, entry_id);

CREATE TABLE IF NOT EXISTS products (
	product_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category_id TEXT NOT NULL,
	base_demand REAL NOT NULL,
	price_sensitivity REAL NOT NULL,
	default_price TEXT NOT NULL,
	current_price TEXT NOT NULL,
	unlocked INTEGER NOT NULL,
	attributes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vendors (
	vendor_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	reliability REAL NOT NULL,
	lead_time_days INTEGER NOT NULL,
	payment_terms_days INTEGER NOT NULL,
	minimum_order TEXT NOT NULL,
	shipping_flat_fee TEXT NOT NULL,
	shipping_rate TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS discount_tiers (
	vendor_id TEXT NOT NULL REFERENCES vendors(vendor_id),
	product_id TEXT NOT NULL,
	min_quantity INTEGER NOT NULL,
	max_quantity INTEGER NOT NULL,
	unit_cost TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tiers ON discount_tiers(vendor_id, product_id);

CREATE TABLE IF NOT EXISTS purchase_orders (
	order_id TEXT PRIMARY KEY,
	vendor_id TEXT NOT NULL REFERENCES vendors(vendor_id),
	order_date DATETIME NOT NULL,
	expected_arrival DATETIME NOT NULL,
	actual_arrival DATETIME,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS purchase_order_items (
	order_id TEXT NOT NULL REFERENCES purchase_orders(order_id),
	product_id TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_cost TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts_payable (
	payable_id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	vendor_id TEXT NOT NULL,
	amount TEXT NOT NULL,
	created DATETIME NOT NULL,
	due DATETIME,
	paid DATETIME,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recurring_items (
	item_id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	amount TEXT NOT NULL,
	cadence TEXT NOT NULL,
	due_day INTEGER NOT NULL,
	due_month INTEGER NOT NULL,
	account_id TEXT NOT NULL,
	income INTEGER NOT NULL,
	last_processed DATETIME
);

CREATE TABLE IF NOT EXISTS loans (
	loan_id TEXT PRIMARY KEY,
	principal TEXT NOT NULL,
	outstanding TEXT NOT NULL,
	annual_rate TEXT NOT NULL,
	payment TEXT NOT NULL,
	next_payment DATETIME NOT NULL,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS campaigns (
	campaign_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	boost REAL NOT NULL,
	cost TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS market_events (
	event_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	boost REAL NOT NULL,
	filters TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sim_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
