package models

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// DateLayout is the canonical day key layout. Keys in this layout sort
// lexicographically in calendar order.
const DateLayout = "2006-01-02"

// DateRange is an inclusive [Start, End] pair of canonical day keys.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange validates both bounds against DateLayout.
func NewDateRange(start, end string) (DateRange, error) {
	if _, err := time.Parse(DateLayout, start); err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	if _, err := time.Parse(DateLayout, end); err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether day lies in the range, both ends included.
func (r DateRange) Contains(day string) bool {
	return day >= r.Start && day <= r.End
}

// DayBuckets groups transactions by calendar day, keeping both the order in
// which days were first seen and the log order of transactions within a day.
//
// A DayBuckets is built once by the parser and treated as read-only afterwards.
type DayBuckets struct {
	order []string
	days  map[string][]Transaction
}

// NewDayBuckets returns an empty bucket map.
func NewDayBuckets() *DayBuckets {
	return &DayBuckets{days: make(map[string][]Transaction)}
}

// Add appends tx to the bucket for day, creating the bucket on first use.
func (b *DayBuckets) Add(day string, tx Transaction) {
	if _, ok := b.days[day]; !ok {
		b.order = append(b.order, day)
	}
	b.days[day] = append(b.days[day], tx)
}

// Len returns the number of day buckets.
func (b *DayBuckets) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// Count returns the number of transactions across all buckets.
func (b *DayBuckets) Count() int {
	n := 0
	for _, txs := range b.All() {
		n += len(txs)
	}
	return n
}

// Days returns the day keys in first-seen order.
func (b *DayBuckets) Days() []string {
	if b == nil {
		return nil
	}
	return slices.Clone(b.order)
}

// SortedDays returns the day keys in calendar order.
func (b *DayBuckets) SortedDays() []string {
	days := b.Days()
	slices.Sort(days)
	return days
}

// Day returns a copy of the transactions recorded on day.
func (b *DayBuckets) Day(day string) ([]Transaction, bool) {
	if b == nil {
		return nil, false
	}
	txs, ok := b.days[day]
	return slices.Clone(txs), ok
}

// All iterates buckets in first-seen order. The yielded slices must not be modified.
func (b *DayBuckets) All() iter.Seq2[string, []Transaction] {
	return func(yield func(string, []Transaction) bool) {
		if b == nil {
			return
		}
		for _, day := range b.order {
			if !yield(day, b.days[day]) {
				return
			}
		}
	}
}

// Filter returns a new DayBuckets holding only the days inside r.
// The transactions are shared with the receiver, not copied.
func (b *DayBuckets) Filter(r DateRange) *DayBuckets {
	out := NewDayBuckets()
	for day, txs := range b.All() {
		if r.Contains(day) {
			out.order = append(out.order, day)
			out.days[day] = txs
		}
	}
	return out
}
