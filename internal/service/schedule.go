package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one period of an amortization schedule
type ScheduleEntry struct {
	Amount  decimal.Decimal
	DueDate time.Time
}

// DefaultTermMonths is the term applied when a sale does not specify one
const DefaultTermMonths = 12

// Schedule computes the amortization schedule for an installment sale:
// (total - downPayment) split into termMonths equal amounts, due at 1..n
// calendar months from now. The invoice's installment rate is metadata and
// does not enter the per-period amount. A down payment above the total
// flows through as negative entries; there is no guard.
func Schedule(total, downPayment decimal.Decimal, termMonths int, now time.Time) ([]ScheduleEntry, error) {
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term months must be positive, got %d", ErrInvalidArgument, termMonths)
	}

	remaining := total.Sub(downPayment)
	perPeriod := remaining.Div(decimal.NewFromInt(int64(termMonths)))

	entries := make([]ScheduleEntry, 0, termMonths)
	for i := 1; i <= termMonths; i++ {
		entries = append(entries, ScheduleEntry{
			Amount:  perPeriod,
			DueDate: addMonths(now, i),
		})
	}
	return entries, nil
}

// addMonths advances t by whole calendar months, clamping the day so that
// e.g. Jan 31 + 1 month lands on Feb 28/29 rather than rolling into March.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
