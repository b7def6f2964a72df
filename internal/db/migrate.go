package db

import (
	"stocktracker/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&models.Account{},
		&models.Position{},
		&models.PriceBar{},
		&models.SymbolConfig{},
		&models.FetchLog{},
	)
}
