package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleBundle() *Bundle {
	return &Bundle{
		Items: []ItemStats{
			{Name: "Diamond", Bought: 2, AvgBuyPrice: 10, AvgSellPrice: 12},
			{Name: "Apple", Sold: 5, AvgSellPrice: 0.5},
		},
		Players: []PlayerStats{
			{Player: "Alice", Bought: 2, TotalSpent: decimal.NewFromInt(20)},
			{Player: "Bob", Sold: 5, TotalEarned: decimal.RequireFromString("2.50")},
		},
	}
}

func TestBundle_Lookup(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		b := sampleBundle()
		if indexed {
			IndexBundle(b)
		}

		p, ok := b.Player("Alice")
		assert.True(t, ok)
		assert.Equal(t, int64(2), p.Bought)

		_, ok = b.Player("alice")
		assert.False(t, ok, "player lookup is case-sensitive (indexed=%v)", indexed)

		it, ok := b.Item("Apple")
		assert.True(t, ok)
		assert.Equal(t, int64(5), it.Activity())

		_, ok = b.Item("Emerald")
		assert.False(t, ok)
	}
}

func TestBundle_AveragePrices(t *testing.T) {
	got := sampleBundle().AveragePrices()
	assert.Equal(t, map[string]PriceAverages{
		"Diamond": {Buy: 10, Sell: 12},
		"Apple":   {Buy: 0, Sell: 0.5},
	}, got)
}

func TestPlayerStats_Activity(t *testing.T) {
	p := PlayerStats{Bought: 3, Sold: 4}
	assert.Equal(t, int64(7), p.Activity())
}
