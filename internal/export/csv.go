// Package export renders the store's positions and prices read-backs into
// the monthly report artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"stocktracker/internal/models"
)

// utf8BOM keeps the CSVs double-click friendly in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WritePositionsCSV(path string, positions []models.Position) error {
	header := []string{"account_id", "symbol", "quantity", "avg_cost", "market_value", "unrealized_pnl", "snapshot_date"}
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.AccountID,
			p.Symbol,
			p.Quantity.String(),
			p.AvgCost.String(),
			optDecimal(p.MarketValue),
			optDecimal(p.UnrealizedPnL),
			p.SnapshotDate,
		})
	}
	return writeCSV(path, header, rows)
}

func WritePricesCSV(path string, prices []models.PriceBar) error {
	header := []string{"symbol", "trade_date", "open", "high", "low", "close", "volume", "adjusted_close"}
	rows := make([][]string, 0, len(prices))
	for _, b := range prices {
		rows = append(rows, []string{
			b.Symbol,
			b.TradeDate,
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			fmt.Sprintf("%d", b.Volume),
			b.AdjustedClose.String(),
		})
	}
	return writeCSV(path, header, rows)
}

func optDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
