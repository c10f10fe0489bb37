// Package analytics turns day-bucketed shop transactions into an analytics Bundle.
//
// Aggregate is a pure function: it only reads the bucket map it is given and
// returns a freshly built Bundle, so it is safe to call concurrently.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

// DefaultTopN is the length of every ranked view when Query.TopN is 0.
const DefaultTopN = 5

// Query parameterises one aggregation. The zero value aggregates every bucket,
// ranks top 5 and orders the profit view ascending.
type Query struct {
	Range  *models.DateRange
	TopN   int
	Profit ProfitRanking
}

func (q Query) topN() int {
	if q.TopN <= 0 {
		return DefaultTopN
	}
	return q.TopN
}

// itemAcc and playerAcc are the fold state; they never escape Aggregate.
type itemAcc struct {
	name       string
	bought     int64
	sold       int64
	buyPrices  []float64
	sellPrices []float64
}

type playerAcc struct {
	name      string
	bought    int64
	sold      int64
	spent     decimal.Decimal
	earned    decimal.Decimal
	hasBought bool
	hasSold   bool
}

type fold struct {
	totalTx   int
	earners   int
	spenders  int
	items     []*itemAcc
	itemIdx   map[string]*itemAcc
	players   []*playerAcc
	playerIdx map[string]*playerAcc
	days      []models.DayCount
}

func newFold() *fold {
	return &fold{
		itemIdx:   make(map[string]*itemAcc),
		playerIdx: make(map[string]*playerAcc),
	}
}

func (f *fold) item(name string) *itemAcc {
	if it, ok := f.itemIdx[name]; ok {
		return it
	}
	it := &itemAcc{name: name}
	f.itemIdx[name] = it
	f.items = append(f.items, it)
	return it
}

func (f *fold) player(name string) *playerAcc {
	if p, ok := f.playerIdx[name]; ok {
		return p
	}
	p := &playerAcc{name: name, spent: decimal.Zero, earned: decimal.Zero}
	f.playerIdx[name] = p
	f.players = append(f.players, p)
	return p
}

func (f *fold) add(tx models.Transaction) {
	it := f.item(tx.Item)
	p := f.player(tx.Player)
	unit := tx.UnitPrice()

	switch tx.Action {
	case models.ActionSold:
		f.earners++
		it.sold += tx.Quantity
		it.sellPrices = append(it.sellPrices, unit)
		p.sold += tx.Quantity
		p.earned = p.earned.Add(tx.Price)
		p.hasSold = true
	default:
		f.spenders++
		it.bought += tx.Quantity
		it.buyPrices = append(it.buyPrices, unit)
		p.bought += tx.Quantity
		p.spent = p.spent.Add(tx.Price)
		p.hasBought = true
	}
}

// Aggregate computes the analytics bundle for the buckets selected by q.Range
// (all buckets when nil). Range bounds are inclusive and compared as strings.
func Aggregate(buckets *models.DayBuckets, q Query) models.Bundle {
	f := newFold()

	for day, txs := range buckets.All() {
		if q.Range != nil && !q.Range.Contains(day) {
			continue
		}
		f.totalTx += len(txs)
		f.days = append(f.days, models.DayCount{Date: day, Count: len(txs)})
		for _, tx := range txs {
			f.add(tx)
		}
	}

	return f.freeze(q)
}

// freeze turns the fold state into the immutable bundle and derives the ranked views.
func (f *fold) freeze(q Query) models.Bundle {
	n := q.topN()

	b := models.Bundle{
		TotalTransactions: f.totalTx,
		TotalEarners:      f.earners,
		TotalSpenders:     f.spenders,
		Items:             make([]models.ItemStats, 0, len(f.items)),
		Players:           make([]models.PlayerStats, 0, len(f.players)),
		TransactionsByDay: f.days,
	}
	if b.TransactionsByDay == nil {
		b.TransactionsByDay = []models.DayCount{}
	}

	for _, it := range f.items {
		b.Items = append(b.Items, models.ItemStats{
			Name:         it.name,
			Bought:       it.bought,
			Sold:         it.sold,
			BuyPrices:    nonNil(it.buyPrices),
			SellPrices:   nonNil(it.sellPrices),
			AvgBuyPrice:  Mean(it.buyPrices),
			AvgSellPrice: Mean(it.sellPrices),
		})
	}

	var spenders, earners []models.PlayerAmount
	for _, p := range f.players {
		b.Players = append(b.Players, models.PlayerStats{
			Player:      p.name,
			Bought:      p.bought,
			Sold:        p.sold,
			TotalSpent:  p.spent,
			TotalEarned: p.earned,
		})
		if p.hasBought {
			spenders = append(spenders, models.PlayerAmount{Player: p.name, Amount: p.spent})
		}
		if p.hasSold {
			earners = append(earners, models.PlayerAmount{Player: p.name, Amount: p.earned})
		}
	}

	b.PopularItems, b.LeastPopularItems = popularity(b.Items, n)
	b.ItemMargins = Margins(b.Items)
	b.MostImpactfulItems = RankProfit(b.ItemMargins, q.Profit, n)
	b.TopSpenders = topAmounts(spenders, n)
	b.TopEarners = topAmounts(earners, n)
	b.MostActiveTraders = mostActive(b.Players, n)

	models.IndexBundle(&b)
	return b
}

// Mean is the arithmetic mean of xs; an empty slice yields 0.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func nonNil(xs []float64) []float64 {
	if xs == nil {
		return []float64{}
	}
	return xs
}
