// Package export serialises the item price table for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/shoppulse/internal/view"
)

const sheetName = "Item Prices"

// Header is the column order shared by every export format.
var Header = []string{"Item Name", "Average Buy Price", "Average Sell Price", "Highest Price", "Lowest Price"}

// Kind is a supported export format.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

// ContentType returns the MIME type served for k.
func (k Kind) ContentType() string {
	if k == KindXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ParseKind accepts "csv" (default when empty) and "xlsx".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindCSV:
		return KindCSV, nil
	case KindXLSX:
		return KindXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Write dispatches to the writer for k.
func Write(w io.Writer, k Kind, rows []view.ItemPriceRow) error {
	if k == KindXLSX {
		return WriteXLSX(w, rows)
	}
	return WriteCSV(w, rows)
}

// WriteCSV writes one line per item with prices rounded to two decimals.
// Item names containing commas or quotes are quoted.
func WriteCSV(w io.Writer, rows []view.ItemPriceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Name,
			money(r.AvgBuy),
			money(r.AvgSell),
			money(r.HighestPrice),
			money(r.LowestPrice),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []view.ItemPriceRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Name, round2(r.AvgBuy), round2(r.AvgSell), round2(r.HighestPrice), round2(r.LowestPrice)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func round2(v float64) float64 {
	f, _ := strconv.ParseFloat(money(v), 64)
	return f
}
