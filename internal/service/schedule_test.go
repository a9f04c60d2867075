package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleDividesRemainderEqually(t *testing.T) {
	total := decimal.NewFromInt(1200)
	down := decimal.NewFromInt(200)

	entries, err := Schedule(total, down, 12, date(2026, time.March, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(entries))
	}

	per := decimal.NewFromInt(1000).Div(decimal.NewFromInt(12))
	sum := decimal.Zero
	for i, entry := range entries {
		if !entry.Amount.Equal(per) {
			t.Fatalf("entry %d amount = %s, want %s", i, entry.Amount, per)
		}
		sum = sum.Add(entry.Amount)
	}
	if !sum.Round(2).Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("schedule sums to %s, want 1000", sum.Round(2))
	}
}

func TestScheduleDueDatesAdvanceByCalendarMonth(t *testing.T) {
	entries, err := Schedule(decimal.NewFromInt(300), decimal.Zero, 3, date(2026, time.March, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Time{
		date(2026, time.April, 15),
		date(2026, time.May, 15),
		date(2026, time.June, 15),
	}
	for i, entry := range entries {
		if !entry.DueDate.Equal(want[i]) {
			t.Fatalf("entry %d due %s, want %s", i, entry.DueDate, want[i])
		}
	}
}

func TestScheduleClampsMonthEnd(t *testing.T) {
	// Jan 31 must land on the last day of shorter months, not roll over.
	entries, err := Schedule(decimal.NewFromInt(400), decimal.Zero, 4, date(2026, time.January, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Time{
		date(2026, time.February, 28),
		date(2026, time.March, 31),
		date(2026, time.April, 30),
		date(2026, time.May, 31),
	}
	for i, entry := range entries {
		if !entry.DueDate.Equal(want[i]) {
			t.Fatalf("entry %d due %s, want %s", i, entry.DueDate, want[i])
		}
	}
}

func TestScheduleClampsToLeapDay(t *testing.T) {
	entries, err := Schedule(decimal.NewFromInt(100), decimal.Zero, 1, date(2024, time.January, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2024, time.February, 29); !entries[0].DueDate.Equal(want) {
		t.Fatalf("due %s, want %s", entries[0].DueDate, want)
	}
}

func TestScheduleRejectsNonPositiveTerm(t *testing.T) {
	for _, term := range []int{0, -1, -12} {
		_, err := Schedule(decimal.NewFromInt(100), decimal.Zero, term, date(2026, time.March, 1))
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("term %d: expected ErrInvalidArgument, got %v", term, err)
		}
	}
}

func TestScheduleAllowsNegativeRemainder(t *testing.T) {
	// Down payment above the total is not guarded; entries go negative.
	entries, err := Schedule(decimal.NewFromInt(100), decimal.NewFromInt(220), 4, date(2026, time.March, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromInt(-30)
	for i, entry := range entries {
		if !entry.Amount.Equal(want) {
			t.Fatalf("entry %d amount = %s, want %s", i, entry.Amount, want)
		}
	}
}
