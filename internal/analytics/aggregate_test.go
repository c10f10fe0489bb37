package analytics

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

type entry struct {
	day    string
	player string
	action models.Action
	qty    int64
	item   string
	price  string
}

func buckets(t *testing.T, entries ...entry) *models.DayBuckets {
	t.Helper()
	b := models.NewDayBuckets()
	for _, e := range entries {
		b.Add(e.day, models.Transaction{
			Player:   e.player,
			Action:   e.action,
			Quantity: e.qty,
			Item:     e.item,
			Price:    decimal.RequireFromString(e.price),
		})
	}
	return b
}

const (
	buy  = models.ActionBought
	sell = models.ActionSold
)

func TestAggregate_Scenario(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-01", "Alice", buy, 10, "Diamond Sword", "100.00"},
		entry{"2024-01-01", "Bob", sell, 5, "Diamond Sword", "60.00"},
	)

	b := Aggregate(in, Query{})

	assert.Equal(t, 2, b.TotalTransactions)
	assert.Equal(t, 1, b.TotalSpenders)
	assert.Equal(t, 1, b.TotalEarners)

	it, ok := b.Item("Diamond Sword")
	require.True(t, ok)
	assert.InDelta(t, 10.0, it.AvgBuyPrice, 1e-9)
	assert.InDelta(t, 12.0, it.AvgSellPrice, 1e-9)
	assert.Equal(t, []float64{10}, it.BuyPrices)
	assert.Equal(t, []float64{12}, it.SellPrices)

	alice, ok := b.Player("Alice")
	require.True(t, ok)
	assert.True(t, alice.TotalSpent.Equal(decimal.NewFromInt(100)))
	assert.True(t, alice.TotalEarned.IsZero())

	bob, ok := b.Player("Bob")
	require.True(t, ok)
	assert.True(t, bob.TotalEarned.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, int64(5), bob.Sold)

	require.Len(t, b.ItemMargins, 1)
	require.NotNil(t, b.ItemMargins[0].PercentChange)
	assert.InDelta(t, 20.0, *b.ItemMargins[0].PercentChange, 1e-9)
	assert.InDelta(t, 2.0, b.ItemMargins[0].Margin, 1e-9)

	assert.Equal(t, []models.DayCount{{Date: "2024-01-01", Count: 2}}, b.TransactionsByDay)
	assert.Equal(t, map[string]models.PriceAverages{"Diamond Sword": {Buy: 10, Sell: 12}}, b.AveragePrices())
}

func TestAggregate_Empty(t *testing.T) {
	for name, in := range map[string]*models.DayBuckets{
		"no buckets":   models.NewDayBuckets(),
		"nil buckets":  nil,
		"out of range": buckets(t, entry{"2024-01-01", "A", buy, 1, "X", "1"}),
	} {
		t.Run(name, func(t *testing.T) {
			r := models.DateRange{Start: "2030-01-01", End: "2030-12-31"}
			b := Aggregate(in, Query{Range: &r})

			assert.Zero(t, b.TotalTransactions)
			assert.Zero(t, b.TotalEarners)
			assert.Zero(t, b.TotalSpenders)
			assert.Empty(t, b.Items)
			assert.Empty(t, b.Players)
			assert.Empty(t, b.PopularItems)
			assert.Empty(t, b.LeastPopularItems)
			assert.Empty(t, b.ItemMargins)
			assert.Empty(t, b.MostImpactfulItems)
			assert.Empty(t, b.TopSpenders)
			assert.Empty(t, b.TopEarners)
			assert.Empty(t, b.MostActiveTraders)
			assert.NotNil(t, b.TransactionsByDay)
			assert.Empty(t, b.TransactionsByDay)
		})
	}
}

func TestAggregate_RangeInclusive(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-01", "A", buy, 1, "X", "1"},
		entry{"2024-01-02", "B", buy, 1, "X", "1"},
		entry{"2024-01-03", "C", sell, 1, "X", "1"},
		entry{"2024-01-04", "D", sell, 1, "X", "1"},
	)

	r := models.DateRange{Start: "2024-01-02", End: "2024-01-03"}
	b := Aggregate(in, Query{Range: &r})

	assert.Equal(t, 2, b.TotalTransactions)
	assert.Equal(t, []models.DayCount{{"2024-01-02", 1}, {"2024-01-03", 1}}, b.TransactionsByDay)
	_, ok := b.Player("A")
	assert.False(t, ok, "players outside the range are absent")
	_, ok = b.Player("C")
	assert.True(t, ok)

	single := models.DateRange{Start: "2024-01-04", End: "2024-01-04"}
	assert.Equal(t, 1, Aggregate(in, Query{Range: &single}).TotalTransactions)
}

func TestAggregate_CountsMatchBuckets(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-02", "A", buy, 3, "X", "3"},
		entry{"2024-01-01", "B", sell, 1, "Y", "9"},
		entry{"2024-01-02", "C", sell, 2, "X", "8"},
		entry{"2024-01-03", "A", buy, 1, "Z", "1"},
	)

	b := Aggregate(in, Query{})

	sum := 0
	for _, d := range b.TransactionsByDay {
		sum += d.Count
	}
	assert.Equal(t, in.Count(), b.TotalTransactions)
	assert.Equal(t, b.TotalTransactions, sum)
	assert.Equal(t, b.TotalTransactions, b.TotalEarners+b.TotalSpenders)

	// Series follows the bucket order, not calendar order.
	assert.Equal(t, "2024-01-02", b.TransactionsByDay[0].Date)

	var qty int64
	for _, it := range b.Items {
		qty += it.Bought + it.Sold
	}
	assert.Equal(t, int64(7), qty)
}

func TestAggregate_RoundTripPerDay(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-03", "Carol", sell, 64, "Cobblestone", "1280.50"},
		entry{"2024-01-01", "Alice", buy, 10, "Diamond", "100"},
		entry{"2024-01-01", "Bob", sell, 5, "Diamond", "60"},
		entry{"2024-01-02", "Alice", sell, 2, "Diamond", "25.10"},
		entry{"2024-01-02", "Carol", buy, 1, "Stone", "0.99"},
		entry{"2024-01-03", "Bob", buy, 3, "Diamond", "33"},
		entry{"2024-01-03", "Alice", buy, 16, "Cobblestone", "320"},
	)
	full := Aggregate(in, Query{})

	var total, earners, spenders int
	bought := map[string]int64{}
	sold := map[string]int64{}
	spent := map[string]decimal.Decimal{}
	earned := map[string]decimal.Decimal{}
	for _, day := range in.SortedDays() {
		r := models.DateRange{Start: day, End: day}
		b := Aggregate(in, Query{Range: &r})

		require.Len(t, b.TransactionsByDay, 1, day)
		assert.Equal(t, day, b.TransactionsByDay[0].Date)
		assert.Equal(t, b.TotalTransactions, b.TransactionsByDay[0].Count, day)

		total += b.TotalTransactions
		earners += b.TotalEarners
		spenders += b.TotalSpenders
		for _, it := range b.Items {
			bought[it.Name] += it.Bought
			sold[it.Name] += it.Sold
		}
		for _, p := range b.Players {
			spent[p.Player] = spent[p.Player].Add(p.TotalSpent)
			earned[p.Player] = earned[p.Player].Add(p.TotalEarned)
		}
	}

	assert.Equal(t, full.TotalTransactions, total)
	assert.Equal(t, full.TotalEarners, earners)
	assert.Equal(t, full.TotalSpenders, spenders)

	require.Len(t, bought, len(full.Items))
	for _, it := range full.Items {
		assert.Equal(t, it.Bought, bought[it.Name], "bought %s", it.Name)
		assert.Equal(t, it.Sold, sold[it.Name], "sold %s", it.Name)
	}
	require.Len(t, spent, len(full.Players))
	for _, p := range full.Players {
		assert.True(t, p.TotalSpent.Equal(spent[p.Player]), "spent %s: %s vs %s", p.Player, p.TotalSpent, spent[p.Player])
		assert.True(t, p.TotalEarned.Equal(earned[p.Player]), "earned %s: %s vs %s", p.Player, p.TotalEarned, earned[p.Player])
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-01", "A", buy, 3, "X", "3.30"},
		entry{"2024-01-01", "B", sell, 1, "Y", "9"},
		entry{"2024-01-02", "A", sell, 2, "X", "8"},
	)

	first := Aggregate(in, Query{})
	second := Aggregate(in, Query{})
	assert.Equal(t, first, second)
	assert.Equal(t, 3, in.Count(), "input is not mutated")
}

func TestAggregate_Concurrent(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-01", "A", buy, 3, "X", "3"},
		entry{"2024-01-02", "B", sell, 1, "X", "2"},
	)
	want := Aggregate(in, Query{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want.TotalTransactions, Aggregate(in, Query{}).TotalTransactions)
		}()
	}
	wg.Wait()
}

func TestAggregate_SpendersAndEarners(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-01", "Buyer", buy, 1, "X", "50"},
		entry{"2024-01-01", "Seller", sell, 1, "X", "70"},
		entry{"2024-01-01", "Both", buy, 1, "X", "10"},
		entry{"2024-01-01", "Both", sell, 1, "X", "500"},
		entry{"2024-01-01", "Buyer", buy, 2, "X", "1000.50"},
	)

	b := Aggregate(in, Query{})

	spenders := names(b.TopSpenders)
	earners := names(b.TopEarners)
	assert.Equal(t, []string{"Buyer", "Both"}, spenders)
	assert.Equal(t, []string{"Both", "Seller"}, earners)
	assert.True(t, b.TopSpenders[0].Amount.Equal(decimal.RequireFromString("1050.50")))

	assert.Equal(t, 3, b.TotalSpenders)
	assert.Equal(t, 2, b.TotalEarners)
}

func names(xs []models.PlayerAmount) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.Player)
	}
	return out
}

func TestAggregate_MostActiveTraders(t *testing.T) {
	in := buckets(t,
		entry{"2024-01-01", "A", buy, 1, "X", "1"},
		entry{"2024-01-01", "B", buy, 5, "X", "1"},
		entry{"2024-01-01", "C", sell, 1, "X", "1"},
		entry{"2024-01-01", "A", sell, 4, "X", "1"},
	)

	b := Aggregate(in, Query{TopN: 2})

	require.Len(t, b.MostActiveTraders, 2)
	// A and B tie at 5; A was seen first.
	assert.Equal(t, "A", b.MostActiveTraders[0].Player)
	assert.Equal(t, "B", b.MostActiveTraders[1].Player)
}

func TestMean(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}
