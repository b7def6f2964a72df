package service

import (
	"context"

	"stocktracker/internal/client/ibgw"
	"stocktracker/internal/models"
	"stocktracker/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	accounts  []models.Account
	positions []models.Position
	prices    []models.PriceBar
	symbols   []models.SymbolConfig
	fetchLogs []models.FetchLog

	saveAccountsErr  error
	savePositionsErr error
	savePricesErr    error
}

func (s *stubRepo) SaveAccounts(ctx context.Context, rows []models.Account) error {
	if s.saveAccountsErr != nil {
		return s.saveAccountsErr
	}
	s.accounts = append(s.accounts, rows...)
	return nil
}

func (s *stubRepo) SavePositions(ctx context.Context, rows []models.Position) error {
	if s.savePositionsErr != nil {
		return s.savePositionsErr
	}
	s.positions = append(s.positions, rows...)
	return nil
}

func (s *stubRepo) SavePrices(ctx context.Context, rows []models.PriceBar, chunkSize int) error {
	if s.savePricesErr != nil {
		return s.savePricesErr
	}
	s.prices = append(s.prices, rows...)
	return nil
}

func (s *stubRepo) InsertFetchLog(ctx context.Context, row *models.FetchLog) error {
	s.fetchLogs = append(s.fetchLogs, *row)
	return nil
}

func (s *stubRepo) ListFetchLogs(ctx context.Context, limit int) ([]models.FetchLog, error) {
	return s.fetchLogs, nil
}

func (s *stubRepo) ListPositions(ctx context.Context, params repository.ListPositionsParams) ([]models.Position, error) {
	return s.positions, nil
}

func (s *stubRepo) ListPrices(ctx context.Context, params repository.ListPricesParams) ([]models.PriceBar, error) {
	return s.prices, nil
}

func (s *stubRepo) UpsertSymbolConfigs(ctx context.Context, rows []models.SymbolConfig) error {
	s.symbols = append(s.symbols, rows...)
	return nil
}

func (s *stubRepo) ListActiveSymbols(ctx context.Context) ([]models.SymbolConfig, error) {
	var active []models.SymbolConfig
	for _, sym := range s.symbols {
		if sym.IsActive {
			active = append(active, sym)
		}
	}
	return active, nil
}

// fakeGateway is a test-only session.Conn.
type fakeGateway struct {
	openErr      error
	accounts     []ibgw.Account
	accountsErr  error
	positionsBy  map[string][]ibgw.PositionRow
	positionsErr map[string]error
	barsBy       map[string][]ibgw.Bar
	barsErr      map[string]error
}

func (f *fakeGateway) OpenSession(ctx context.Context, clientID int) error {
	return f.openErr
}

func (f *fakeGateway) SessionAlive(ctx context.Context) (bool, error) {
	return f.openErr == nil, nil
}

func (f *fakeGateway) CloseSession(ctx context.Context) error {
	return nil
}

func (f *fakeGateway) Accounts(ctx context.Context) ([]ibgw.Account, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeGateway) Positions(ctx context.Context, accountID string) ([]ibgw.PositionRow, error) {
	if err := f.positionsErr[accountID]; err != nil {
		return nil, err
	}
	return f.positionsBy[accountID], nil
}

func (f *fakeGateway) HistoricalBars(ctx context.Context, req ibgw.HistoryRequest) ([]ibgw.Bar, error) {
	if err := f.barsErr[req.Symbol]; err != nil {
		return nil, err
	}
	return f.barsBy[req.Symbol], nil
}
