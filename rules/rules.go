// Package rules holds the declarative progression layer: unlock rules that
// open new products as the business grows, and the random market events that
// shift demand.
package rules

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/pkg/id"
	"github.com/shopspring/decimal"
)

// ConditionType names what an unlock rule measures.
type ConditionType string

// CondTotalRevenue triggers on cumulative sales revenue.
const CondTotalRevenue ConditionType = "total_revenue"

// Condition is the threshold side of an unlock rule.
type Condition struct {
	Type      ConditionType
	Threshold decimal.Decimal
}

// Effect is what firing the rule does.
type Effect struct {
	UnlockProductID string
	Message         string
}

// Rule unlocks a product once its condition holds. Rules fire at most once;
// an already-unlocked target makes the rule a no-op.
type Rule struct {
	ID        string
	Condition Condition
	Effect    Effect
}

// Unlock is one rule that fired during an evaluation pass.
type Unlock struct {
	Rule    Rule
	Product ledger.Product
}

// Evaluator checks unlock rules against the store after each simulated day.
type Evaluator struct {
	rules []Rule
}

func NewEvaluator(rules []Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate fires every rule whose condition now holds against a product
// still locked. Unlocks are permanent.
func (e *Evaluator) Evaluate(ctx context.Context, store ledger.Store) ([]Unlock, error) {
	var out []Unlock
	for _, r := range e.rules {
		met, err := e.conditionMet(ctx, store, r.Condition)
		if err != nil {
			return nil, err
		}
		if !met {
			continue
		}

		p, err := store.Product(ctx, r.Effect.UnlockProductID)
		if err != nil {
			return nil, fmt.Errorf("unlock rule %s: %w", r.ID, err)
		}
		if p.Unlocked {
			continue
		}
		if err := store.SetProductUnlocked(ctx, p.ID); err != nil {
			return nil, err
		}
		p.Unlocked = true
		out = append(out, Unlock{Rule: r, Product: p})
	}
	return out, nil
}

func (e *Evaluator) conditionMet(ctx context.Context, store ledger.Store, c Condition) (bool, error) {
	switch c.Type {
	case CondTotalRevenue:
		total, err := store.SumCredits(ctx, ledger.AcctRevenue)
		if err != nil {
			return false, err
		}
		return total.GreaterThanOrEqual(c.Threshold), nil
	}
	return false, fmt.Errorf("%w: unknown condition type %q", ledger.ErrInvalidInput, c.Type)
}

// EventTemplate is a market event waiting to be rolled: duration and boost
// ranges are sampled when it triggers.
type EventTemplate struct {
	Name        string
	Description string
	MinDays     int
	MaxDays     int
	MinBoost    float64
	MaxBoost    float64
	Filters     map[string]string
}

// RollMarketEvent gives each day a probability-weighted chance of starting a
// market event drawn from the templates. An event never stacks with an
// already-active event of the same name. Returns nil when nothing triggers.
func RollMarketEvent(ctx context.Context, store ledger.Store, day time.Time, prob float64, templates []EventTemplate, rng *rand.Rand) (*ledger.MarketEvent, error) {
	if len(templates) == 0 || rng.Float64() >= prob {
		return nil, nil
	}

	tmpl := templates[rng.Intn(len(templates))]

	active, err := store.ActiveMarketEvents(ctx, day)
	if err != nil {
		return nil, err
	}
	for _, e := range active {
		if e.Name == tmpl.Name {
			return nil, nil
		}
	}

	days := tmpl.MinDays
	if tmpl.MaxDays > tmpl.MinDays {
		days += rng.Intn(tmpl.MaxDays - tmpl.MinDays + 1)
	}
	boost := tmpl.MinBoost
	if tmpl.MaxBoost > tmpl.MinBoost {
		boost += rng.Float64() * (tmpl.MaxBoost - tmpl.MinBoost)
	}

	event := ledger.MarketEvent{
		ID:          id.New(),
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Start:       day,
		End:         day.AddDate(0, 0, days-1),
		Boost:       boost,
		Filters:     tmpl.Filters,
	}
	if err := store.CreateMarketEvent(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}
