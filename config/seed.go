package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/loan"
	"github.com/rustyeddy/shopkeeper/rules"
	"github.com/rustyeddy/shopkeeper/sim"
	"github.com/shopspring/decimal"
)

// Seed writes the scenario into a fresh store: accounts with opening
// balances, the catalog, vendors, recurring obligations and the clock.
func Seed(ctx context.Context, store ledger.Store, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	start := cfg.StartDay()

	return store.InTx(ctx, func(st ledger.Store) error {
		registrar := ledger.NewRegistrar(st)

		for _, a := range cfg.Accounts {
			acct := ledger.Account{ID: a.ID, Name: a.Name, Type: ledger.AccountType(a.Type)}
			if a.CreditLimit != "" {
				limit, err := parseMoney(a.CreditLimit, "account "+a.ID+" credit_limit")
				if err != nil {
					return err
				}
				acct.CreditLimit = &limit
			}
			opening := decimal.Zero
			if a.OpeningBalance != "" {
				var err error
				if opening, err = parseMoney(a.OpeningBalance, "account "+a.ID+" opening_balance"); err != nil {
					return err
				}
			}
			if err := registrar.Open(ctx, acct, opening, start); err != nil {
				return fmt.Errorf("seed account %s: %w", a.ID, err)
			}
		}

		for _, p := range cfg.Products {
			price, err := parseMoney(p.Price, "product "+p.ID+" price")
			if err != nil {
				return err
			}
			err = st.CreateProduct(ctx, ledger.Product{
				ID:               p.ID,
				Name:             p.Name,
				CategoryID:       p.Category,
				BaseDemand:       p.BaseDemand,
				PriceSensitivity: p.PriceSensitivity,
				DefaultPrice:     price,
				CurrentPrice:     price,
				Unlocked:         p.Unlocked,
				Attributes:       p.Attributes,
			})
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
		}

		for _, v := range cfg.Vendors {
			vendor := ledger.Vendor{
				ID:               v.ID,
				Name:             v.Name,
				Reliability:      v.Reliability,
				LeadTimeDays:     v.LeadTimeDays,
				PaymentTermsDays: v.PaymentTermsDays,
			}
			var err error
			if vendor.MinimumOrder, err = parseOptionalMoney(v.MinimumOrder, "vendor "+v.ID+" minimum_order"); err != nil {
				return err
			}
			if vendor.ShippingFlatFee, err = parseOptionalMoney(v.ShippingFlatFee, "vendor "+v.ID+" shipping_flat_fee"); err != nil {
				return err
			}
			if vendor.ShippingRate, err = parseOptionalMoney(v.ShippingRate, "vendor "+v.ID+" shipping_rate"); err != nil {
				return err
			}

			tiers := make([]ledger.DiscountTier, 0, len(v.Tiers))
			for _, t := range v.Tiers {
				cost, err := parseMoney(t.UnitCost, "vendor "+v.ID+" tier unit_cost")
				if err != nil {
					return err
				}
				tiers = append(tiers, ledger.DiscountTier{
					VendorID:    v.ID,
					ProductID:   t.ProductID,
					MinQuantity: t.MinQuantity,
					MaxQuantity: t.MaxQuantity,
					UnitCost:    cost,
				})
			}
			if err := st.CreateVendor(ctx, vendor, tiers); err != nil {
				return fmt.Errorf("seed vendor %s: %w", v.ID, err)
			}
		}

		for _, r := range cfg.Recurring {
			amount, err := parseMoney(r.Amount, "recurring "+r.ID+" amount")
			if err != nil {
				return err
			}
			// The opening period's bills are treated as settled before
			// takeover; the first posting lands in the next period.
			opening := start
			err = st.CreateRecurring(ctx, ledger.RecurringItem{
				ID:            r.ID,
				Description:   r.Description,
				Amount:        amount,
				Cadence:       ledger.Cadence(r.Cadence),
				DueDay:        r.DueDay,
				DueMonth:      time.Month(r.DueMonth),
				AccountID:     r.AccountID,
				Income:        r.Income,
				LastProcessed: &opening,
			})
			if err != nil {
				return fmt.Errorf("seed recurring %s: %w", r.ID, err)
			}
		}

		if err := st.SetStartDate(ctx, start); err != nil {
			return err
		}
		return st.SetSimDate(ctx, start)
	})
}

// EngineOptions converts the scenario's progression sections into engine
// options.
func EngineOptions(cfg *Config) ([]sim.Option, error) {
	unlocks, err := UnlockRules(cfg)
	if err != nil {
		return nil, err
	}
	campaigns, err := Campaigns(cfg)
	if err != nil {
		return nil, err
	}
	loans, err := Loans(cfg)
	if err != nil {
		return nil, err
	}
	return []sim.Option{
		sim.WithEventProbability(cfg.EventProbability),
		sim.WithRules(unlocks),
		sim.WithEventTemplates(Events(cfg)),
		sim.WithCampaignOffers(campaigns),
		sim.WithLoanOffers(loans),
	}, nil
}

// UnlockRules converts the unlock section.
func UnlockRules(cfg *Config) ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(cfg.Unlocks))
	for _, u := range cfg.Unlocks {
		threshold, err := parseMoney(u.RevenueAtLeast, "unlock "+u.ID+" revenue_at_least")
		if err != nil {
			return nil, err
		}
		out = append(out, rules.Rule{
			ID:        u.ID,
			Condition: rules.Condition{Type: rules.CondTotalRevenue, Threshold: threshold},
			Effect:    rules.Effect{UnlockProductID: u.ProductID, Message: u.Message},
		})
	}
	return out, nil
}

// Events converts the event template section.
func Events(cfg *Config) []rules.EventTemplate {
	out := make([]rules.EventTemplate, 0, len(cfg.EventTemplates))
	for _, t := range cfg.EventTemplates {
		out = append(out, rules.EventTemplate{
			Name:        t.Name,
			Description: t.Description,
			MinDays:     t.MinDays,
			MaxDays:     t.MaxDays,
			MinBoost:    t.MinBoost,
			MaxBoost:    t.MaxBoost,
			Filters:     t.Filters,
		})
	}
	return out
}

// Campaigns converts the campaign offer section.
func Campaigns(cfg *Config) ([]sim.CampaignOffer, error) {
	out := make([]sim.CampaignOffer, 0, len(cfg.CampaignOffers))
	for _, c := range cfg.CampaignOffers {
		cost, err := parseMoney(c.Cost, "campaign offer "+c.ID+" cost")
		if err != nil {
			return nil, err
		}
		out = append(out, sim.CampaignOffer{
			ID:           c.ID,
			Name:         c.Name,
			Target:       ledger.CampaignTarget(c.Target),
			TargetID:     c.TargetID,
			DurationDays: c.DurationDays,
			Boost:        c.Boost,
			Cost:         cost,
		})
	}
	return out, nil
}

// Loans converts the loan offer section.
func Loans(cfg *Config) ([]loan.Offer, error) {
	out := make([]loan.Offer, 0, len(cfg.LoanOffers))
	for _, o := range cfg.LoanOffers {
		principal, err := parseMoney(o.Principal, "loan offer "+o.ID+" principal")
		if err != nil {
			return nil, err
		}
		out = append(out, loan.Offer{
			ID:         o.ID,
			Name:       o.Name,
			Principal:  principal,
			AnnualRate: decimal.NewFromFloat(o.AnnualRate),
			TermMonths: o.TermMonths,
		})
	}
	return out, nil
}

func parseMoney(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseOptionalMoney(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseMoney(s, field)
}
