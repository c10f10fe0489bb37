package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Action is the direction of a shop transaction as seen from the player.
type Action string

const (
	ActionBought Action = "bought"
	ActionSold   Action = "sold"
)

// Format identifies which shop plugin produced a log file.
type Format string

const (
	FormatEconomyShopGUI Format = "EconomyShopGUI"
	FormatShopGUIPlus    Format = "ShopGUI+"
)

// ParseFormat maps a user supplied plugin name onto a Format.
// Matching is case-insensitive; "ShopGUIPlus" is accepted as an alias for "ShopGUI+".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economyshopgui", "economy":
		return FormatEconomyShopGUI, nil
	case "shopgui+", "shopguiplus", "shopgui":
		return FormatShopGUIPlus, nil
	default:
		return "", fmt.Errorf("unknown shop format %q", s)
	}
}

// Extension returns the file extension a log of this format is expected to carry.
func (f Format) Extension() string {
	if f == FormatShopGUIPlus {
		return ".log"
	}
	return ".txt"
}

// Transaction represents a single "bought" or "sold" line of a shop log.
//
// Fields:
//   - Player:   player name as written in the log.
//   - Action:   bought or sold.
//   - Quantity: number of items moved (always > 0).
//   - Item:     canonical item key (colour codes stripped, parenthetical suffix kept).
//   - Price:    total value of the transaction, not the unit price.
type Transaction struct {
	Player   string          `json:"player"`
	Action   Action          `json:"action"`
	Quantity int64           `json:"quantity"`
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
}

// UnitPrice is the total price divided by the quantity.
func (t Transaction) UnitPrice() float64 {
	if t.Quantity == 0 {
		return 0
	}
	return t.Price.Div(decimal.NewFromInt(t.Quantity)).InexactFloat64()
}
