package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stocktracker/internal/client/ibgw"
	"stocktracker/internal/config"
	"stocktracker/internal/models"
	"stocktracker/internal/repository"
	"stocktracker/internal/session"
)

// PriceSyncService refreshes the historical bar series for every active
// symbol, strictly sequentially in listing order. A symbol that errors is
// recorded in the audit trail and skipped; the sweep continues.
type PriceSyncService struct {
	Repo    repository.Repository
	Session *session.Session
	Logger  *zap.Logger
	Sync    config.SyncConfig

	// Passed through to the store's chunked price writer; <=0 uses the
	// store default.
	ChunkSize int
}

func (s *PriceSyncService) Run(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Session == nil {
		return nil
	}
	if !s.Session.EnsureConnection(ctx) {
		auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePriceHistory, "", models.FetchStatusError, session.ErrConnectFailed, nil)
		return session.ErrConnectFailed
	}
	defer s.Session.Disconnect(ctx)

	symbols, err := s.Repo.ListActiveSymbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		s.Logger.Info("no active symbols configured, nothing to update")
		return nil
	}

	updated := 0
	for _, sym := range symbols {
		bars, err := s.Session.HistoricalBars(ctx, ibgw.HistoryRequest{
			Symbol:     sym.Symbol,
			Duration:   s.Sync.HistoryDuration,
			BarSize:    s.Sync.BarSize,
			WhatToShow: s.Sync.WhatToShow,
		})
		if err != nil {
			if errors.Is(err, session.ErrConnectFailed) {
				// The session is gone; the rest of the sweep cannot succeed.
				auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePriceHistory, sym.Symbol, models.FetchStatusError, err, nil)
				return err
			}
			s.Logger.Warn("historical bars fetch failed",
				zap.String("symbol", sym.Symbol),
				zap.Error(err),
			)
			auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePriceHistory, sym.Symbol, models.FetchStatusError, err, nil)
			continue
		}
		if len(bars) == 0 {
			auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePriceHistory, sym.Symbol, models.FetchStatusSuccess, nil, map[string]any{"rows": 0})
			continue
		}

		rows := make([]models.PriceBar, 0, len(bars))
		for _, b := range bars {
			rows = append(rows, models.PriceBar{
				Symbol:        sym.Symbol,
				TradeDate:     b.Date,
				Open:          b.Open,
				High:          b.High,
				Low:           b.Low,
				Close:         b.Close,
				Volume:        b.Volume,
				AdjustedClose: b.Close,
			})
		}
		if err := s.Repo.SavePrices(ctx, rows, s.ChunkSize); err != nil {
			return err
		}
		auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePriceHistory, sym.Symbol, models.FetchStatusSuccess, nil, map[string]any{"rows": len(rows)})
		updated++
	}
	s.Logger.Info("weekly price update complete",
		zap.Int("symbols", len(symbols)),
		zap.Int("updated", updated),
	)
	return nil
}
