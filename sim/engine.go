// Package sim is the orchestrator: it owns the simulated clock and runs the
// daily pipeline that turns elapsed days into ledger entries.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/shopkeeper/demand"
	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/loan"
	"github.com/rustyeddy/shopkeeper/pkg/id"
	"github.com/rustyeddy/shopkeeper/purchasing"
	"github.com/rustyeddy/shopkeeper/recurring"
	"github.com/rustyeddy/shopkeeper/rules"
	"github.com/shopspring/decimal"
)

// defaultEventProb is the daily chance a market event triggers.
const defaultEventProb = 0.04

// CampaignOffer is a marketing package the business can buy.
type CampaignOffer struct {
	ID           string
	Name         string
	Target       ledger.CampaignTarget
	TargetID     string
	DurationDays int
	Boost        float64
	Cost         decimal.Decimal
}

// Engine drives the business one day at a time. All state lives in the
// store; the engine holds only configuration and the random source.
type Engine struct {
	mu        sync.Mutex
	store     ledger.Store
	rng       *rand.Rand
	log       *slog.Logger
	evaluator *rules.Evaluator
	templates []rules.EventTemplate
	eventProb float64
	campaigns []CampaignOffer
	loans     []loan.Offer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithRand sets the random source, letting runs be reproduced from a seed.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithRules sets the product unlock rules.
func WithRules(rs []rules.Rule) Option {
	return func(e *Engine) { e.evaluator = rules.NewEvaluator(rs) }
}

// WithEventTemplates sets the market event pool.
func WithEventTemplates(ts []rules.EventTemplate) Option {
	return func(e *Engine) { e.templates = ts }
}

// WithEventProbability overrides the daily market event chance.
func WithEventProbability(p float64) Option { return func(e *Engine) { e.eventProb = p } }

// WithCampaignOffers sets the marketing packages available to launch.
func WithCampaignOffers(cs []CampaignOffer) Option { return func(e *Engine) { e.campaigns = cs } }

// WithLoanOffers sets the loans available to accept.
func WithLoanOffers(ls []loan.Offer) Option { return func(e *Engine) { e.loans = ls } }

func NewEngine(store ledger.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       slog.Default(),
		evaluator: rules.NewEvaluator(nil),
		eventProb: defaultEventProb,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Date returns the current simulated date.
func (e *Engine) Date(ctx context.Context) (time.Time, error) {
	return e.store.SimDate(ctx)
}

// Advance moves the clock forward the given number of days, running the full
// daily pipeline for each: arrivals, sales, recurring obligations, payable
// settlement, loan payments, the market event roll and unlock checks. Each
// day is one atomic unit; a failure rolls that day back and stops, leaving
// prior days committed. Advance(0) is a no-op.
func (e *Engine) Advance(ctx context.Context, days int) ([]Event, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: cannot advance a negative number of days", ledger.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	for i := 0; i < days; i++ {
		date, err := e.store.SimDate(ctx)
		if err != nil {
			return events, err
		}
		day := date.AddDate(0, 0, 1)

		var dayEvents []Event
		err = e.store.InTx(ctx, func(st ledger.Store) error {
			var err error
			dayEvents, err = e.runDay(ctx, st, day)
			return err
		})
		if err != nil {
			return events, fmt.Errorf("advance to %s: %w", day.Format("2006-01-02"), err)
		}
		events = append(events, dayEvents...)
	}
	return events, nil
}

func (e *Engine) runDay(ctx context.Context, st ledger.Store, day time.Time) ([]Event, error) {
	var events []Event

	arrivals, err := purchasing.ProcessArrivals(ctx, st, day, e.rng)
	if err != nil {
		return nil, err
	}
	for _, a := range arrivals {
		if a.Delayed {
			events = append(events, Event{Day: day, Kind: KindOrderDelayed,
				Message: fmt.Sprintf("Order from %s delayed, new ETA %s", a.VendorName, a.NewETA.Format("2006-01-02"))})
		} else {
			events = append(events, Event{Day: day, Kind: KindOrderDelivered,
				Message: fmt.Sprintf("Order from %s delivered, payment due %s", a.VendorName, a.DueDate.Format("2006-01-02"))})
		}
	}

	start, err := st.StartDate(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := demand.ProcessSales(ctx, st, start, day, e.rng)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		events = append(events, Event{Day: day, Kind: KindSale,
			Message: fmt.Sprintf("Sold %d x %s for %s", s.Units, s.Product.Name, s.Revenue.StringFixed(2))})
	}

	postings, err := recurring.Process(ctx, st, day)
	if err != nil {
		return nil, err
	}
	for _, p := range postings {
		kind, verb := KindRecurring, "Posted"
		if !p.Posted {
			kind, verb = KindDeclined, "Insufficient funds for"
		}
		events = append(events, Event{Day: day, Kind: kind,
			Message: fmt.Sprintf("%s %s (%s)", verb, p.Item.Description, p.Item.Amount.StringFixed(2))})
	}

	settlements, err := purchasing.SettlePayables(ctx, st, day)
	if err != nil {
		return nil, err
	}
	for _, s := range settlements {
		if s.Paid {
			events = append(events, Event{Day: day, Kind: KindPayablePaid,
				Message: fmt.Sprintf("Paid vendor invoice %s", s.Payable.Amount.StringFixed(2))})
		} else {
			events = append(events, Event{Day: day, Kind: KindDeclined,
				Message: fmt.Sprintf("Insufficient funds for vendor invoice %s", s.Payable.Amount.StringFixed(2))})
		}
	}

	payments, err := loan.ProcessPayments(ctx, st, day)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		switch {
		case p.PaidOff:
			events = append(events, Event{Day: day, Kind: KindLoanPaidOff, Message: "Loan paid off"})
		case p.Paid:
			events = append(events, Event{Day: day, Kind: KindLoanPayment,
				Message: fmt.Sprintf("Loan payment %s (interest %s)", p.Principal.Add(p.Interest).StringFixed(2), p.Interest.StringFixed(2))})
		default:
			events = append(events, Event{Day: day, Kind: KindDeclined,
				Message: fmt.Sprintf("Insufficient funds for loan payment %s", p.Loan.Payment.StringFixed(2))})
		}
	}

	event, err := rules.RollMarketEvent(ctx, st, day, e.eventProb, e.templates, e.rng)
	if err != nil {
		return nil, err
	}
	if event != nil {
		events = append(events, Event{Day: day, Kind: KindMarketEvent,
			Message: fmt.Sprintf("%s: %s", event.Name, event.Description)})
	}

	unlocks, err := e.evaluator.Evaluate(ctx, st)
	if err != nil {
		return nil, err
	}
	for _, u := range unlocks {
		msg := u.Rule.Effect.Message
		if msg == "" {
			msg = fmt.Sprintf("New product available: %s", u.Product.Name)
		}
		events = append(events, Event{Day: day, Kind: KindUnlock, Message: msg})
	}

	if err := st.SetSimDate(ctx, day); err != nil {
		return nil, err
	}

	for _, ev := range events {
		e.log.Info("event", "day", day.Format("2006-01-02"), "kind", ev.Kind, "msg", ev.Message)
	}
	return events, nil
}

// PlaceOrder submits a vendor purchase order dated today.
func (e *Engine) PlaceOrder(ctx context.Context, vendorID string, items []purchasing.ItemRequest) (ledger.PurchaseOrder, decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	day, err := e.store.SimDate(ctx)
	if err != nil {
		return ledger.PurchaseOrder{}, decimal.Decimal{}, err
	}
	return purchasing.PlaceOrder(ctx, e.store, day, vendorID, items)
}

// SetPrice changes a product's selling price.
func (e *Engine) SetPrice(ctx context.Context, productID string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ledger.ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.SetProductPrice(ctx, productID, price)
}

// CampaignOffers lists the marketing packages available to launch.
func (e *Engine) CampaignOffers() []CampaignOffer { return e.campaigns }

// LoanOffers lists the loans available to accept.
func (e *Engine) LoanOffers() []loan.Offer { return e.loans }

// LaunchCampaign buys a marketing package: the cost posts immediately as a
// marketing expense and the boost starts today.
func (e *Engine) LaunchCampaign(ctx context.Context, offerID string) (ledger.Campaign, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var offer *CampaignOffer
	for i := range e.campaigns {
		if e.campaigns[i].ID == offerID {
			offer = &e.campaigns[i]
			break
		}
	}
	if offer == nil {
		return ledger.Campaign{}, fmt.Errorf("%w: campaign offer %q", ledger.ErrNotFound, offerID)
	}

	day, err := e.store.SimDate(ctx)
	if err != nil {
		return ledger.Campaign{}, err
	}

	c := ledger.Campaign{
		ID:       id.New(),
		Name:     offer.Name,
		Target:   offer.Target,
		TargetID: offer.TargetID,
		Start:    day,
		End:      day.AddDate(0, 0, offer.DurationDays-1),
		Boost:    offer.Boost,
		Cost:     offer.Cost,
	}

	err = e.store.InTx(ctx, func(st ledger.Store) error {
		desc := fmt.Sprintf("Marketing: %s", offer.Name)
		if err := st.AppendTransaction(ctx, ledger.Transaction{
			ID:   id.New(),
			Date: day,
			Lines: []ledger.Line{
				ledger.Debit(ledger.AcctMarketing, offer.Cost, desc),
				ledger.Credit(ledger.AcctCash, offer.Cost, desc),
			},
		}); err != nil {
			return err
		}
		return st.CreateCampaign(ctx, c)
	})
	if err != nil {
		return ledger.Campaign{}, err
	}
	return c, nil
}

// AcceptLoan takes out one of the configured loan offers.
func (e *Engine) AcceptLoan(ctx context.Context, offerID string) (ledger.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, o := range e.loans {
		if o.ID == offerID {
			day, err := e.store.SimDate(ctx)
			if err != nil {
				return ledger.Loan{}, err
			}
			return loan.Accept(ctx, e.store, day, o)
		}
	}
	return ledger.Loan{}, fmt.Errorf("%w: loan offer %q", ledger.ErrNotFound, offerID)
}
