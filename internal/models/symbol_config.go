package models

import "time"

// SymbolConfig defines which symbols the weekly price job refreshes.
// Mutated only by configuration; read-only to the sync jobs.
type SymbolConfig struct {
	Symbol    string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AssetType string    `gorm:"type:text"`
	Exchange  string    `gorm:"type:text"`
	Currency  string    `gorm:"type:text"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SymbolConfig) TableName() string {
	return "symbols_config"
}
