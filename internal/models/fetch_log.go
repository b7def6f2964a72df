package models

import (
	"time"

	"gorm.io/datatypes"
)

// FetchLog is an append-only audit record of one fetch attempt.
// Never updated or deleted.
type FetchLog struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement"`
	FetchType    string         `gorm:"type:text;not null;index"`
	Symbol       string         `gorm:"type:text"`
	Status       string         `gorm:"type:text;not null"`
	ErrorMessage *string        `gorm:"type:text"`
	Details      datatypes.JSON `gorm:"type:json"`
	FetchTime    time.Time      `gorm:"autoCreateTime;index"`
}

func (FetchLog) TableName() string {
	return "fetch_logs"
}

const (
	FetchTypeAccounts     = "accounts"
	FetchTypePositions    = "positions"
	FetchTypePriceHistory = "price_history"

	FetchStatusSuccess = "success"
	FetchStatusError   = "error"
)
