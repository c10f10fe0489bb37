package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

// ProfitOrder is the direction the profit-impact view is sorted by percent change.
type ProfitOrder string

const (
	// Ascending puts the worst markdowns (most negative percent change) first.
	Ascending ProfitOrder = "ascending"
	// Descending puts the largest percent change first.
	Descending ProfitOrder = "descending"
)

// ParseProfitOrder accepts "asc"/"ascending" and "desc"/"descending"; empty means Ascending.
func ParseProfitOrder(s string) (ProfitOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown profit order %q", s)
	}
}

// ProfitRanking selects how the most-impactful view is built from ItemMargins.
// OnlyNegative keeps items whose percent change is below zero.
type ProfitRanking struct {
	Order        ProfitOrder
	OnlyNegative bool
}

// popularity ranks items by bought+sold quantity, descending, ties in
// first-seen order. The least popular view is the bottom n of the same
// ordering, reversed so the least active item comes first.
func popularity(items []models.ItemStats, n int) (popular, least []models.ItemRank) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.ItemStats) int {
		return cmp.Compare(b.Activity(), a.Activity())
	})

	popular = make([]models.ItemRank, 0, min(n, len(sorted)))
	for _, it := range sorted[:min(n, len(sorted))] {
		popular = append(popular, toRank(it))
	}

	tail := sorted[len(sorted)-min(n, len(sorted)):]
	least = make([]models.ItemRank, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		least = append(least, toRank(tail[i]))
	}
	return popular, least
}

func toRank(it models.ItemStats) models.ItemRank {
	return models.ItemRank{
		Name:         it.Name,
		Count:        it.Activity(),
		AvgBuyPrice:  it.AvgBuyPrice,
		AvgSellPrice: it.AvgSellPrice,
	}
}

// Margins returns margin data for every item with a non-zero mean sell price,
// in item order. Items never sold carry no realised profit and are left out.
func Margins(items []models.ItemStats) []models.ItemMargin {
	out := make([]models.ItemMargin, 0, len(items))
	for _, it := range items {
		if it.AvgSellPrice == 0 {
			continue
		}
		m := models.ItemMargin{
			Name:         it.Name,
			AvgBuyPrice:  it.AvgBuyPrice,
			AvgSellPrice: it.AvgSellPrice,
			Margin:       it.AvgSellPrice - it.AvgBuyPrice,
		}
		if it.AvgBuyPrice != 0 {
			pct := (it.AvgSellPrice - it.AvgBuyPrice) / math.Abs(it.AvgBuyPrice) * 100
			m.PercentChange = &pct
		}
		out = append(out, m)
	}
	return out
}

// RankProfit orders margins by percent change according to r and keeps the
// first n. Items without a defined percent change are excluded.
func RankProfit(margins []models.ItemMargin, r ProfitRanking, n int) []models.ItemMargin {
	ranked := make([]models.ItemMargin, 0, len(margins))
	for _, m := range margins {
		if m.PercentChange == nil {
			continue
		}
		if r.OnlyNegative && *m.PercentChange >= 0 {
			continue
		}
		ranked = append(ranked, m)
	}

	slices.SortStableFunc(ranked, func(a, b models.ItemMargin) int {
		if r.Order == Descending {
			return cmp.Compare(*b.PercentChange, *a.PercentChange)
		}
		return cmp.Compare(*a.PercentChange, *b.PercentChange)
	})

	return ranked[:min(n, len(ranked))]
}

func topAmounts(entries []models.PlayerAmount, n int) []models.PlayerAmount {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.PlayerAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	if sorted == nil {
		return []models.PlayerAmount{}
	}
	return sorted[:min(n, len(sorted))]
}

func mostActive(players []models.PlayerStats, n int) []models.PlayerStats {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b models.PlayerStats) int {
		return cmp.Compare(b.Activity(), a.Activity())
	})
	return sorted[:min(n, len(sorted))]
}
