package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stocktracker/internal/models"
)

// WriteMonthlyReport writes positions and prices as two sheets of one
// workbook. Rows go through stream writers so a multi-year price history
// does not get buffered in memory.
func WriteMonthlyReport(path string, positions []models.Position, prices []models.PriceBar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "positions")
	if err := writePositionsSheet(f, positions); err != nil {
		return err
	}
	if _, err := f.NewSheet("prices"); err != nil {
		return err
	}
	if err := writePricesSheet(f, prices); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writePositionsSheet(f *excelize.File, positions []models.Position) error {
	sw, err := f.NewStreamWriter("positions")
	if err != nil {
		return err
	}
	header := []any{"account_id", "symbol", "quantity", "avg_cost", "market_value", "unrealized_pnl", "snapshot_date"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, p := range positions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.AccountID,
			p.Symbol,
			p.Quantity.String(),
			p.AvgCost.String(),
			optDecimal(p.MarketValue),
			optDecimal(p.UnrealizedPnL),
			p.SnapshotDate,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writePricesSheet(f *excelize.File, prices []models.PriceBar) error {
	sw, err := f.NewStreamWriter("prices")
	if err != nil {
		return err
	}
	header := []any{"symbol", "trade_date", "open", "high", "low", "close", "volume", "adjusted_close"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, b := range prices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			b.Symbol,
			b.TradeDate,
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			b.Volume,
			b.AdjustedClose.String(),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
