// Package config defines the business scenario file: accounts, catalog,
// vendors, obligations and progression rules, loaded once at init.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// dateLayout is the calendar format used throughout scenario files.
const dateLayout = "2006-01-02"

// Config represents a complete business scenario.
type Config struct {
	StartDate        string          `json:"start_date" yaml:"start_date"`
	EventProbability float64         `json:"event_probability" yaml:"event_probability"`
	Accounts         []AccountConfig `json:"accounts" yaml:"accounts"`
	Products         []ProductConfig `json:"products" yaml:"products"`
	Vendors          []VendorConfig  `json:"vendors" yaml:"vendors"`
	Recurring        []RecurringItem `json:"recurring" yaml:"recurring"`
	LoanOffers       []LoanOffer     `json:"loan_offers,omitempty" yaml:"loan_offers,omitempty"`
	CampaignOffers   []CampaignOffer `json:"campaign_offers,omitempty" yaml:"campaign_offers,omitempty"`
	Unlocks          []UnlockRule    `json:"unlocks,omitempty" yaml:"unlocks,omitempty"`
	EventTemplates   []EventTemplate `json:"event_templates,omitempty" yaml:"event_templates,omitempty"`
}

// AccountConfig seeds one account. Money fields are decimal strings so
// scenario files never lose cents to float parsing.
type AccountConfig struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Type           string `json:"type" yaml:"type"`
	OpeningBalance string `json:"opening_balance,omitempty" yaml:"opening_balance,omitempty"`
	CreditLimit    string `json:"credit_limit,omitempty" yaml:"credit_limit,omitempty"`
}

// ProductConfig seeds one catalog item.
type ProductConfig struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Category         string            `json:"category" yaml:"category"`
	BaseDemand       float64           `json:"base_demand" yaml:"base_demand"`
	PriceSensitivity float64           `json:"price_sensitivity" yaml:"price_sensitivity"`
	Price            string            `json:"price" yaml:"price"`
	Unlocked         bool              `json:"unlocked" yaml:"unlocked"`
	Attributes       map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// VendorConfig seeds one supplier and its price brackets.
type VendorConfig struct {
	ID               string       `json:"id" yaml:"id"`
	Name             string       `json:"name" yaml:"name"`
	Reliability      float64      `json:"reliability" yaml:"reliability"`
	LeadTimeDays     int          `json:"lead_time_days" yaml:"lead_time_days"`
	PaymentTermsDays int          `json:"payment_terms_days" yaml:"payment_terms_days"`
	MinimumOrder     string       `json:"minimum_order,omitempty" yaml:"minimum_order,omitempty"`
	ShippingFlatFee  string       `json:"shipping_flat_fee,omitempty" yaml:"shipping_flat_fee,omitempty"`
	ShippingRate     string       `json:"shipping_rate,omitempty" yaml:"shipping_rate,omitempty"`
	Tiers            []TierConfig `json:"tiers" yaml:"tiers"`
}

// TierConfig is one volume price bracket. MaxQuantity zero means open-ended.
type TierConfig struct {
	ProductID   string `json:"product_id" yaml:"product_id"`
	MinQuantity int64  `json:"min_quantity" yaml:"min_quantity"`
	MaxQuantity int64  `json:"max_quantity,omitempty" yaml:"max_quantity,omitempty"`
	UnitCost    string `json:"unit_cost" yaml:"unit_cost"`
}

// RecurringItem seeds one recurring obligation.
type RecurringItem struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Amount      string `json:"amount" yaml:"amount"`
	Cadence     string `json:"cadence" yaml:"cadence"` // DAILY, WEEKLY, MONTHLY, YEARLY
	DueDay      int    `json:"due_day,omitempty" yaml:"due_day,omitempty"`
	DueMonth    int    `json:"due_month,omitempty" yaml:"due_month,omitempty"`
	AccountID   string `json:"account_id" yaml:"account_id"`
	Income      bool   `json:"income,omitempty" yaml:"income,omitempty"`
}

// LoanOffer is a loan available at the bank.
type LoanOffer struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Principal  string  `json:"principal" yaml:"principal"`
	AnnualRate float64 `json:"annual_rate" yaml:"annual_rate"`
	TermMonths int     `json:"term_months" yaml:"term_months"`
}

// CampaignOffer is a marketing package available to launch.
type CampaignOffer struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Target       string  `json:"target" yaml:"target"` // PRODUCT, CATEGORY, ALL
	TargetID     string  `json:"target_id,omitempty" yaml:"target_id,omitempty"`
	DurationDays int     `json:"duration_days" yaml:"duration_days"`
	Boost        float64 `json:"boost" yaml:"boost"`
	Cost         string  `json:"cost" yaml:"cost"`
}

// UnlockRule opens a product when cumulative revenue reaches the threshold.
type UnlockRule struct {
	ID             string `json:"id" yaml:"id"`
	RevenueAtLeast string `json:"revenue_at_least" yaml:"revenue_at_least"`
	ProductID      string `json:"product_id" yaml:"product_id"`
	Message        string `json:"message,omitempty" yaml:"message,omitempty"`
}

// EventTemplate is a market event the daily roll can trigger.
type EventTemplate struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	MinDays     int               `json:"min_days" yaml:"min_days"`
	MaxDays     int               `json:"max_days" yaml:"max_days"`
	MinBoost    float64           `json:"min_boost" yaml:"min_boost"`
	MaxBoost    float64           `json:"max_boost" yaml:"max_boost"`
	Filters     map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// LoadFromFile loads a scenario from a file (JSON or YAML based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the scenario to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the scenario is valid.
func (c *Config) Validate() error {
	if _, err := time.Parse(dateLayout, c.StartDate); err != nil {
		return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
	}
	if c.EventProbability < 0 || c.EventProbability > 1 {
		return fmt.Errorf("event_probability must be in [0, 1]")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	for _, a := range c.Accounts {
		if a.ID == "" || a.Name == "" || a.Type == "" {
			return fmt.Errorf("account needs id, name and type")
		}
	}
	for _, p := range c.Products {
		if p.ID == "" || p.Price == "" {
			return fmt.Errorf("product needs id and price")
		}
		if p.BaseDemand < 0 {
			return fmt.Errorf("product %s: base_demand cannot be negative", p.ID)
		}
	}
	for _, v := range c.Vendors {
		if v.Reliability < 0 || v.Reliability > 1 {
			return fmt.Errorf("vendor %s: reliability must be in [0, 1]", v.ID)
		}
		if len(v.Tiers) == 0 {
			return fmt.Errorf("vendor %s: at least one price tier is required", v.ID)
		}
	}
	for _, o := range c.LoanOffers {
		if o.TermMonths <= 0 {
			return fmt.Errorf("loan offer %s: term_months must be positive", o.ID)
		}
	}
	return nil
}

// StartDay parses the scenario's start date.
func (c *Config) StartDay() time.Time {
	t, _ := time.Parse(dateLayout, c.StartDate)
	return t
}
