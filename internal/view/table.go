package view

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

// ItemPriceRow is one row of the item price table.
// PercentDifference is nil when the item was never bought (avg buy price 0).
type ItemPriceRow struct {
	Name              string   `json:"name"`
	DisplayName       string   `json:"display_name"`
	AvgBuy            float64  `json:"avg_buy"`
	AvgSell           float64  `json:"avg_sell"`
	HighestPrice      float64  `json:"highest_price"`
	LowestPrice       float64  `json:"lowest_price"`
	PercentDifference *float64 `json:"percent_difference"`
}

// ItemPriceRows builds one row per item, in bundle order.
func ItemPriceRows(b *models.Bundle) []ItemPriceRow {
	rows := make([]ItemPriceRow, 0, len(b.Items))
	for _, it := range b.Items {
		row := ItemPriceRow{
			Name:         it.Name,
			DisplayName:  DisplayName(it.Name),
			AvgBuy:       it.AvgBuyPrice,
			AvgSell:      it.AvgSellPrice,
			HighestPrice: math.Max(it.AvgBuyPrice, it.AvgSellPrice),
			LowestPrice:  math.Min(it.AvgBuyPrice, it.AvgSellPrice),
		}
		if it.AvgBuyPrice != 0 {
			pct := (it.AvgSellPrice - it.AvgBuyPrice) / it.AvgBuyPrice * 100
			row.PercentDifference = &pct
		}
		rows = append(rows, row)
	}
	return rows
}

// SortColumn names a sortable column of the item price table.
type SortColumn string

const (
	SortByName              SortColumn = "name"
	SortByAvgBuy            SortColumn = "avg_buy"
	SortByAvgSell           SortColumn = "avg_sell"
	SortByHighestPrice      SortColumn = "highest_price"
	SortByLowestPrice       SortColumn = "lowest_price"
	SortByPercentDifference SortColumn = "percent_difference"
)

// AllowedRowsPerPage lists the page sizes offered by the table.
var AllowedRowsPerPage = []int{5, 10, 20}

const defaultRowsPerPage = 10

// TableState is the whole view state of the item price table. It is owned by
// the caller and passed in on every query; QueryItems keeps nothing.
type TableState struct {
	Search      string     `form:"search"`
	SortColumn  SortColumn `form:"sort"`
	Descending  bool       `form:"desc"`
	Page        int        `form:"page"`
	RowsPerPage int        `form:"rows"`
}

// Normalize fills defaults and rejects unknown columns or page sizes.
func (s TableState) Normalize() (TableState, error) {
	if s.SortColumn == "" {
		s.SortColumn = SortByName
	}
	switch s.SortColumn {
	case SortByName, SortByAvgBuy, SortByAvgSell, SortByHighestPrice, SortByLowestPrice, SortByPercentDifference:
	default:
		return s, fmt.Errorf("unknown sort column %q", s.SortColumn)
	}
	if s.RowsPerPage == 0 {
		s.RowsPerPage = defaultRowsPerPage
	}
	if !slices.Contains(AllowedRowsPerPage, s.RowsPerPage) {
		return s, fmt.Errorf("rows per page must be one of %v", AllowedRowsPerPage)
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s, nil
}

// Page is one page of the item price table.
type Page struct {
	Rows       []ItemPriceRow `json:"rows"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalRows  int            `json:"total_rows"`
}

// QueryItems filters rows by a case-insensitive substring of the item name,
// sorts them stably on the selected column and returns the requested page.
// A page past the end is clamped to the last page.
func QueryItems(rows []ItemPriceRow, state TableState) (Page, error) {
	st, err := state.Normalize()
	if err != nil {
		return Page{}, err
	}

	needle := strings.ToLower(st.Search)
	filtered := make([]ItemPriceRow, 0, len(rows))
	for _, r := range rows {
		if needle == "" || strings.Contains(strings.ToLower(r.Name), needle) {
			filtered = append(filtered, r)
		}
	}

	slices.SortStableFunc(filtered, func(a, b ItemPriceRow) int {
		c := compareColumn(a, b, st.SortColumn)
		if st.Descending {
			return -c
		}
		return c
	})

	total := len(filtered)
	pages := (total + st.RowsPerPage - 1) / st.RowsPerPage
	if pages == 0 {
		pages = 1
	}
	if st.Page > pages {
		st.Page = pages
	}
	lo := (st.Page - 1) * st.RowsPerPage
	hi := min(lo+st.RowsPerPage, total)

	return Page{Rows: filtered[lo:hi], Page: st.Page, TotalPages: pages, TotalRows: total}, nil
}

func compareColumn(a, b ItemPriceRow, col SortColumn) int {
	switch col {
	case SortByAvgBuy:
		return cmp.Compare(a.AvgBuy, b.AvgBuy)
	case SortByAvgSell:
		return cmp.Compare(a.AvgSell, b.AvgSell)
	case SortByHighestPrice:
		return cmp.Compare(a.HighestPrice, b.HighestPrice)
	case SortByLowestPrice:
		return cmp.Compare(a.LowestPrice, b.LowestPrice)
	case SortByPercentDifference:
		return comparePercent(a.PercentDifference, b.PercentDifference)
	default:
		return cmp.Compare(a.Name, b.Name)
	}
}

// comparePercent orders undefined percentages before every defined one.
func comparePercent(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
