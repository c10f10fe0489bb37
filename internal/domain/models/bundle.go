package models

import "github.com/shopspring/decimal"

// ItemStats accumulates everything observed for one canonical item key.
type ItemStats struct {
	Name         string    `json:"name"`
	Bought       int64     `json:"bought"`
	Sold         int64     `json:"sold"`
	BuyPrices    []float64 `json:"buy_prices"`
	SellPrices   []float64 `json:"sell_prices"`
	AvgBuyPrice  float64   `json:"avg_buy_price"`
	AvgSellPrice float64   `json:"avg_sell_price"`
}

// Activity is the total quantity moved in both directions.
func (s ItemStats) Activity() int64 { return s.Bought + s.Sold }

// ItemRank is one entry of the popular / least popular item views.
type ItemRank struct {
	Name         string  `json:"name"`
	Count        int64   `json:"count"`
	AvgBuyPrice  float64 `json:"avg_buy_price"`
	AvgSellPrice float64 `json:"avg_sell_price"`
}

// ItemMargin is the realised margin of an item that has been sold at least once.
// PercentChange is nil when the item has no buy observations (mean buy is 0).
type ItemMargin struct {
	Name          string   `json:"name"`
	AvgBuyPrice   float64  `json:"avg_buy_price"`
	AvgSellPrice  float64  `json:"avg_sell_price"`
	Margin        float64  `json:"margin"`
	PercentChange *float64 `json:"percent_change"`
}

// PlayerStats holds per-player totals over the aggregated range.
type PlayerStats struct {
	Player      string          `json:"player"`
	Bought      int64           `json:"bought"`
	Sold        int64           `json:"sold"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	TotalEarned decimal.Decimal `json:"total_earned"`
}

// Activity is the total quantity the player bought and sold.
func (p PlayerStats) Activity() int64 { return p.Bought + p.Sold }

// PlayerAmount is one entry of the spender / earner leaderboards.
type PlayerAmount struct {
	Player string          `json:"player"`
	Amount decimal.Decimal `json:"amount"`
}

// DayCount is the number of transactions recorded on one day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// PriceAverages is the mean buy/sell unit price of an item.
type PriceAverages struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// Bundle is the complete output of one aggregation call.
//
// Items and Players are in first-seen order; the ranked views are derived
// from them and never cached beyond the bundle that holds them.
type Bundle struct {
	TotalTransactions int `json:"total_transactions"`
	TotalEarners      int `json:"total_earners"`
	TotalSpenders     int `json:"total_spenders"`

	Items   []ItemStats   `json:"items"`
	Players []PlayerStats `json:"players"`

	PopularItems       []ItemRank     `json:"popular_items"`
	LeastPopularItems  []ItemRank     `json:"least_popular_items"`
	ItemMargins        []ItemMargin   `json:"item_margins"`
	MostImpactfulItems []ItemMargin   `json:"most_impactful_items"`
	TopSpenders        []PlayerAmount `json:"top_spenders"`
	TopEarners         []PlayerAmount `json:"top_earners"`
	MostActiveTraders  []PlayerStats  `json:"most_active_traders"`

	TransactionsByDay []DayCount `json:"transactions_by_day"`

	itemIndex   map[string]int
	playerIndex map[string]int
}

// IndexBundle attaches name lookups to a bundle built from Items and Players.
func IndexBundle(b *Bundle) {
	b.itemIndex = make(map[string]int, len(b.Items))
	for i, it := range b.Items {
		b.itemIndex[it.Name] = i
	}
	b.playerIndex = make(map[string]int, len(b.Players))
	for i, p := range b.Players {
		b.playerIndex[p.Player] = i
	}
}

// Player looks a player up by exact, case-sensitive name.
func (b *Bundle) Player(name string) (PlayerStats, bool) {
	if b.playerIndex == nil {
		for _, p := range b.Players {
			if p.Player == name {
				return p, true
			}
		}
		return PlayerStats{}, false
	}
	i, ok := b.playerIndex[name]
	if !ok {
		return PlayerStats{}, false
	}
	return b.Players[i], true
}

// Item looks an item up by its canonical key.
func (b *Bundle) Item(name string) (ItemStats, bool) {
	if b.itemIndex == nil {
		for _, it := range b.Items {
			if it.Name == name {
				return it, true
			}
		}
		return ItemStats{}, false
	}
	i, ok := b.itemIndex[name]
	if !ok {
		return ItemStats{}, false
	}
	return b.Items[i], true
}

// AveragePrices returns the item-keyed mean price map.
func (b *Bundle) AveragePrices() map[string]PriceAverages {
	out := make(map[string]PriceAverages, len(b.Items))
	for _, it := range b.Items {
		out[it.Name] = PriceAverages{Buy: it.AvgBuyPrice, Sell: it.AvgSellPrice}
	}
	return out
}
