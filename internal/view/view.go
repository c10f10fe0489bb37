// Package view holds the pure computations the presentation layer performs on
// top of an analytics bundle: display names, moving averages, the item price
// table with its sort/search/page state, and player lookups.
package view

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

// DefaultMovingAverageWindow is the trailing window used by the transactions chart.
const DefaultMovingAverageWindow = 7

// DisplayName truncates an item key at the first '(' for display.
func DisplayName(item string) string {
	name, _, _ := strings.Cut(item, "(")
	return strings.TrimSpace(name)
}

// SeriesPoint is one day of the transactions chart.
type SeriesPoint struct {
	Date          string   `json:"date"`
	Count         int      `json:"count"`
	MovingAverage *float64 `json:"moving_average"`
}

// MovingAverage computes a trailing average over window points, the current
// point included. Points before a full window is available get nil.
func MovingAverage(series []models.DayCount, window int) []SeriesPoint {
	if window <= 0 {
		window = DefaultMovingAverageWindow
	}
	out := make([]SeriesPoint, len(series))
	sum := 0
	for i, d := range series {
		out[i] = SeriesPoint{Date: d.Date, Count: d.Count}
		sum += d.Count
		if i >= window {
			sum -= series[i-window].Count
		}
		if i >= window-1 {
			avg := float64(sum) / float64(window)
			out[i].MovingAverage = &avg
		}
	}
	return out
}

// PlayerResult is the outcome of a player search.
type PlayerResult struct {
	Found bool               `json:"found"`
	Stats models.PlayerStats `json:"stats"`
}

// LookupPlayer performs an exact, case-sensitive name match. An empty name is never found.
func LookupPlayer(b *models.Bundle, name string) PlayerResult {
	if name == "" {
		return PlayerResult{}
	}
	p, ok := b.Player(name)
	return PlayerResult{Found: ok, Stats: p}
}

// DateBounds returns the available days in calendar order and the default
// range spanning all of them. ok is false when there are no days.
func DateBounds(buckets *models.DayBuckets) (days []string, full models.DateRange, ok bool) {
	days = buckets.SortedDays()
	if len(days) == 0 {
		return days, models.DateRange{}, false
	}
	return days, models.DateRange{Start: days[0], End: days[len(days)-1]}, true
}

// ClampRange keeps start <= end the way the date pickers do: when the new
// start passes the end, the end follows it.
func ClampRange(start, end string) models.DateRange {
	if start > end {
		end = start
	}
	return models.DateRange{Start: start, End: end}
}

// FormatMoney renders v with two decimals and thousands separators.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

// FormatDecimal is FormatMoney for decimal amounts.
func FormatDecimal(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

// FormatInteger renders n with thousands separators.
func FormatInteger(n int64) string {
	return groupThousands(strconv.FormatInt(n, 10))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
