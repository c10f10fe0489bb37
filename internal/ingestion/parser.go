package ingestion

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

// Line grammars, one per plugin. Capture groups:
//
//	1 date      (YYYY-MM-DD or YYYY/MM/DD)
//	2 time      (HH:MM:SS, validated then dropped)
//	3 player
//	4 action    (bought|sold)
//	5 quantity
//	6 item      (raw, may carry colour codes)
//	7 amount    (digits, commas, dots)
//
// ShopGUI+ additionally tolerates "all", a trailing "command" qualifier and a
// "(from|to) <shop> shop" suffix; none of them are captured.
var (
	economyShopGUILine = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2}) (\d{2}:\d{2}:\d{2})\] - (.+?) (bought|sold) (\d+) x (.+?) for \$([\d,.]+)`)
	shopGUIPlusLine    = regexp.MustCompile(`(\d{4}/\d{2}/\d{2}) (\d{2}:\d{2}:\d{2}) (.+?) (bought|sold)(?: all)? (\d+) x (.+?) (?:command )?for \$([\d,.]+)(?: (?:from|to) (.+) shop)?`)

	// colourCode matches a section sign followed by a hex digit or a format letter.
	colourCode = regexp.MustCompile(`§[0-9a-fA-Fk-oK-OrR]`)
)

// Stats summarises one parse run.
type Stats struct {
	Lines   int `json:"lines"`
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
}

// Parse splits text into lines and turns every line matching the format's
// grammar into a Transaction bucketed by its day.
//
// Lines that do not match, or whose captured fields fail conversion, are
// skipped: plugin logs interleave unrelated server output. Parse never fails.
func Parse(text string, format models.Format) (*models.DayBuckets, Stats) {
	pattern := lineGrammar(format)
	buckets := models.NewDayBuckets()
	var st Stats

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		st.Lines++

		m := pattern.FindStringSubmatch(line)
		if m == nil {
			st.Skipped++
			continue
		}

		day, tx, ok := matchToTransaction(m, format)
		if !ok {
			st.Skipped++
			continue
		}
		buckets.Add(day, tx)
		st.Matched++
	}

	return buckets, st
}

func lineGrammar(format models.Format) *regexp.Regexp {
	if format == models.FormatShopGUIPlus {
		return shopGUIPlusLine
	}
	return economyShopGUILine
}

// matchToTransaction converts the capture groups of one matched line.
//
//	date     → canonical YYYY-MM-DD key ('/' rewritten to '-')
//	time     → must be a valid clock time, not retained
//	quantity → int64, must be > 0
//	item     → trimmed, colour codes stripped, must stay non-empty
//	amount   → thousands commas removed, decimal
func matchToTransaction(m []string, format models.Format) (string, models.Transaction, bool) {
	var tx models.Transaction

	day := m[1]
	if format == models.FormatShopGUIPlus {
		day = NormalizeDate(day)
	}
	if _, err := time.Parse(models.DateLayout, day); err != nil {
		return "", tx, false
	}
	if _, err := time.Parse("15:04:05", m[2]); err != nil {
		return "", tx, false
	}

	tx.Player = m[3]
	tx.Action = models.Action(m[4])

	qty, err := strconv.ParseInt(m[5], 10, 64)
	if err != nil || qty <= 0 {
		return "", tx, false
	}
	tx.Quantity = qty

	tx.Item = CanonicalItem(m[6])
	if tx.Item == "" {
		return "", tx, false
	}

	price, err := ParseAmount(m[7])
	if err != nil {
		return "", tx, false
	}
	tx.Price = price

	return day, tx, true
}

// NormalizeDate rewrites a slash separated date into the canonical dash form.
func NormalizeDate(s string) string {
	return strings.ReplaceAll(s, "/", "-")
}

// CanonicalItem strips colour/format codes from a raw item name.
// The parenthetical suffix is kept: it is only dropped for display.
func CanonicalItem(raw string) string {
	return strings.TrimSpace(colourCode.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// ParseAmount converts a currency amount such as "1,234.50" into a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}
