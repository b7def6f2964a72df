package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stocktracker/internal/models"
	"stocktracker/internal/repository"
)

// auditFetch appends one fetch outcome to the audit trail. Best-effort: a
// failed audit write is logged, never propagated, so it cannot turn a
// healthy fetch into a failed job.
func auditFetch(ctx context.Context, repo repository.Repository, logger *zap.Logger, fetchType, symbol, status string, fetchErr error, details map[string]any) {
	if repo == nil {
		return
	}
	row := models.FetchLog{
		FetchType: fetchType,
		Symbol:    symbol,
		Status:    status,
	}
	if fetchErr != nil {
		msg := fetchErr.Error()
		row.ErrorMessage = &msg
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			row.Details = datatypes.JSON(raw)
		}
	}
	if err := repo.InsertFetchLog(ctx, &row); err != nil && logger != nil {
		logger.Warn("fetch audit write failed",
			zap.String("fetch_type", fetchType),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}
}
