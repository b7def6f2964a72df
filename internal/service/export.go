package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"stocktracker/internal/export"
	"stocktracker/internal/repository"
)

// ExportService renders the store back out as dated report artifacts.
// It never touches the gateway.
type ExportService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Dir    string
}

func (s *ExportService) Run(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	positions, err := s.Repo.ListPositions(ctx, repository.ListPositionsParams{})
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	prices, err := s.Repo.ListPrices(ctx, repository.ListPricesParams{})
	if err != nil {
		return fmt.Errorf("read prices: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	reportPath := filepath.Join(s.Dir, "monthly_report_"+today+".xlsx")
	if err := export.WriteMonthlyReport(reportPath, positions, prices); err != nil {
		return fmt.Errorf("write excel report: %w", err)
	}
	positionsPath := filepath.Join(s.Dir, "positions_"+today+".csv")
	if err := export.WritePositionsCSV(positionsPath, positions); err != nil {
		return fmt.Errorf("write positions csv: %w", err)
	}
	pricesPath := filepath.Join(s.Dir, "prices_"+today+".csv")
	if err := export.WritePricesCSV(pricesPath, prices); err != nil {
		return fmt.Errorf("write prices csv: %w", err)
	}

	s.Logger.Info("monthly export complete",
		zap.String("report", reportPath),
		zap.Int("positions", len(positions)),
		zap.Int("prices", len(prices)),
	)
	return nil
}
