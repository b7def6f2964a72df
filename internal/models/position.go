package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one account/symbol holding as of a calendar snapshot date.
// The (account_id, symbol, snapshot_date) key makes re-running a snapshot
// for the same day an update, never a duplicate row.
type Position struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	AccountID string `gorm:"type:text;not null;uniqueIndex:uniq_position_snapshot,priority:1;index:idx_positions_account_date,priority:1"`
	Symbol    string `gorm:"type:text;not null;uniqueIndex:uniq_position_snapshot,priority:2"`

	Quantity decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	AvgCost  decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	// Left unset on the snapshot path; the real-time valuation feed is a
	// separate concern.
	MarketValue   *decimal.Decimal `gorm:"type:numeric(30,10)"`
	UnrealizedPnL *decimal.Decimal `gorm:"column:unrealized_pnl;type:numeric(30,10)"`

	// Local calendar date, YYYY-MM-DD.
	SnapshotDate string `gorm:"type:date;not null;uniqueIndex:uniq_position_snapshot,priority:3;index:idx_positions_account_date,priority:2"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Position) TableName() string {
	return "positions"
}
