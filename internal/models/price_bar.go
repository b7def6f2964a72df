package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one trading day's OHLCV for a symbol. Overlapping fetches
// overwrite existing bars: the latest fetch is the source of truth.
type PriceBar struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Symbol string `gorm:"type:text;not null;uniqueIndex:uniq_price_bar,priority:1;index:idx_prices_symbol_date,priority:1"`

	// Local calendar date, YYYY-MM-DD.
	TradeDate string `gorm:"type:date;not null;uniqueIndex:uniq_price_bar,priority:2;index:idx_prices_symbol_date,priority:2"`

	Open          decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	High          decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	Low           decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	Close         decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	Volume        int64           `gorm:"not null;default:0"`
	AdjustedClose decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PriceBar) TableName() string {
	return "prices"
}
