package gormrepository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocktracker/internal/models"
	"stocktracker/internal/repository"
)

const defaultPriceChunkSize = 5000

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveAccounts(ctx context.Context, rows []models.Account) error {
	if s == nil || s.db == nil || len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account_name",
				"currency",
			}),
		}).Create(&rows).Error
	})
}

func (s *Store) SavePositions(ctx context.Context, rows []models.Position) error {
	if s == nil || s.db == nil || len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "account_id"},
				{Name: "symbol"},
				{Name: "snapshot_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity",
				"avg_cost",
				"market_value",
				"unrealized_pnl",
			}),
		}).Create(&rows).Error
	})
}

// SavePrices commits each chunk in its own transaction: a very large
// historical backfill never holds one statement or one transaction open for
// the whole batch. A failed chunk leaves prior chunks committed.
func (s *Store) SavePrices(ctx context.Context, rows []models.PriceBar, chunkSize int) error {
	if s == nil || s.db == nil || len(rows) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = defaultPriceChunkSize
	}
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "symbol"},
					{Name: "trade_date"},
				},
				DoUpdates: clause.AssignmentColumns([]string{
					"open",
					"high",
					"low",
					"close",
					"volume",
					"adjusted_close",
				}),
			}).Create(&chunk).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) InsertFetchLog(ctx context.Context, row *models.FetchLog) error {
	if s == nil || s.db == nil || row == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *Store) ListFetchLogs(ctx context.Context, limit int) ([]models.FetchLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var rows []models.FetchLog
	err := s.db.WithContext(ctx).
		Model(&models.FetchLog{}).
		Order("fetch_time desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListPositions(ctx context.Context, params repository.ListPositionsParams) ([]models.Position, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Position{})
	if params.SnapshotDate != nil && *params.SnapshotDate != "" {
		query = query.
			Where("snapshot_date = ?", *params.SnapshotDate).
			Order("account_id asc, symbol asc")
	} else {
		query = query.Order("snapshot_date desc, account_id asc, symbol asc")
	}
	var rows []models.Position
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ListPrices(ctx context.Context, params repository.ListPricesParams) ([]models.PriceBar, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PriceBar{})
	if params.Symbol != nil && *params.Symbol != "" {
		query = query.
			Where("symbol = ?", *params.Symbol).
			Order("trade_date asc")
	} else {
		query = query.Order("symbol asc, trade_date asc")
	}
	var rows []models.PriceBar
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) UpsertSymbolConfigs(ctx context.Context, rows []models.SymbolConfig) error {
	if s == nil || s.db == nil || len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"asset_type",
				"exchange",
				"currency",
				"is_active",
			}),
		}).Create(&rows).Error
	})
}

func (s *Store) ListActiveSymbols(ctx context.Context) ([]models.SymbolConfig, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []models.SymbolConfig
	err := s.db.WithContext(ctx).
		Model(&models.SymbolConfig{}).
		Where("is_active = ?", true).
		Order("symbol asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
