package repository

import (
	"context"

	"stocktracker/internal/models"
)

type ListPositionsParams struct {
	// YYYY-MM-DD; nil lists every snapshot.
	SnapshotDate *string
}

type ListPricesParams struct {
	// nil lists every symbol.
	Symbol *string
}

// Repository is the persistence surface the sync jobs and exports depend on.
// All Save* calls are idempotent batch upserts keyed by the natural unique
// key of each table; InsertFetchLog is append-only.
type Repository interface {
	SaveAccounts(ctx context.Context, rows []models.Account) error
	SavePositions(ctx context.Context, rows []models.Position) error
	// SavePrices splits rows into chunks of chunkSize (<=0 uses the default
	// of 5000). Each chunk commits in its own transaction.
	SavePrices(ctx context.Context, rows []models.PriceBar, chunkSize int) error

	InsertFetchLog(ctx context.Context, row *models.FetchLog) error
	ListFetchLogs(ctx context.Context, limit int) ([]models.FetchLog, error)

	ListPositions(ctx context.Context, params ListPositionsParams) ([]models.Position, error)
	ListPrices(ctx context.Context, params ListPricesParams) ([]models.PriceBar, error)

	UpsertSymbolConfigs(ctx context.Context, rows []models.SymbolConfig) error
	ListActiveSymbols(ctx context.Context) ([]models.SymbolConfig, error)
}
