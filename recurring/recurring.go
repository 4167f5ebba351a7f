// Package recurring posts scheduled expenses and income (rent, payroll,
// subscriptions) once per billing period when their due date comes around.
package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/shopkeeper/ledger"
	"github.com/rustyeddy/shopkeeper/pkg/id"
)

// Due reports whether the item should bill on day: the current billing
// period's due date has been reached and the period has not already been
// posted. "Reached" rather than "is" lets an item declined for lack of funds
// retry every following day of the period until it posts.
func Due(item ledger.RecurringItem, day time.Time) bool {
	if !dueDateReached(item, day) {
		return false
	}
	if item.LastProcessed == nil {
		return true
	}
	return !samePeriod(item.Cadence, *item.LastProcessed, day)
}

func dueDateReached(item ledger.RecurringItem, day time.Time) bool {
	switch item.Cadence {
	case ledger.CadenceDaily:
		return true
	case ledger.CadenceWeekly:
		return isoWeekday(day.Weekday()) >= isoWeekday(time.Weekday(item.DueDay))
	case ledger.CadenceMonthly:
		return day.Day() >= clampDay(item.DueDay, day.Year(), day.Month())
	case ledger.CadenceYearly:
		if day.Month() != item.DueMonth {
			return day.Month() > item.DueMonth
		}
		return day.Day() >= clampDay(item.DueDay, day.Year(), day.Month())
	}
	return false
}

// isoWeekday orders weekdays Monday-first to match the ISO billing week.
func isoWeekday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// clampDay pulls a due day past the month's end back to the last day, so a
// day-31 item still bills in February.
func clampDay(due int, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if due > last {
		return last
	}
	return due
}

// samePeriod reports whether two dates fall in the same billing period for
// the cadence.
func samePeriod(c ledger.Cadence, a, b time.Time) bool {
	switch c {
	case ledger.CadenceDaily:
		return a.Year() == b.Year() && a.YearDay() == b.YearDay()
	case ledger.CadenceWeekly:
		ay, aw := a.ISOWeek()
		by, bw := b.ISOWeek()
		return ay == by && aw == bw
	case ledger.CadenceMonthly:
		return a.Year() == b.Year() && a.Month() == b.Month()
	case ledger.CadenceYearly:
		return a.Year() == b.Year()
	}
	return false
}

// Posting is the outcome of one due recurring item: posted, or skipped for
// lack of funds (in which case it stays due and retries the next day).
type Posting struct {
	Item   ledger.RecurringItem
	Posted bool
}

// Process posts every recurring item due on day. Expenses debit the item's
// nominal account and credit Cash; income runs the other way. An expense the
// cash balance cannot cover is skipped without stamping the period, so it
// retries daily until funds arrive.
func Process(ctx context.Context, store ledger.Store, day time.Time) ([]Posting, error) {
	items, err := store.RecurringItems(ctx)
	if err != nil {
		return nil, err
	}

	var out []Posting
	for _, item := range items {
		if !Due(item, day) {
			continue
		}

		lines := []ledger.Line{
			ledger.Debit(item.AccountID, item.Amount, item.Description),
			ledger.Credit(ledger.AcctCash, item.Amount, item.Description),
		}
		if item.Income {
			lines = []ledger.Line{
				ledger.Debit(ledger.AcctCash, item.Amount, item.Description),
				ledger.Credit(item.AccountID, item.Amount, item.Description),
			}
		}

		err := store.InTx(ctx, func(st ledger.Store) error {
			if err := st.AppendTransaction(ctx, ledger.Transaction{
				ID:    id.New(),
				Date:  day,
				Lines: lines,
			}); err != nil {
				return err
			}
			return st.SetRecurringProcessed(ctx, item.ID, day)
		})
		if err != nil {
			if ledger.Declined(err) {
				out = append(out, Posting{Item: item, Posted: false})
				continue
			}
			return nil, fmt.Errorf("recurring %q: %w", item.Description, err)
		}
		out = append(out, Posting{Item: item, Posted: true})
	}
	return out, nil
}
