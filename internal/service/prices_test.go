package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocktracker/internal/client/ibgw"
	"stocktracker/internal/config"
	"stocktracker/internal/models"
	"stocktracker/internal/session"
)

func activeSymbols(symbols ...string) []models.SymbolConfig {
	var rows []models.SymbolConfig
	for _, s := range symbols {
		rows = append(rows, models.SymbolConfig{Symbol: s, IsActive: true})
	}
	return rows
}

func bar(date string, close int64) ibgw.Bar {
	return ibgw.Bar{
		Date:   date,
		Open:   decimal.NewFromInt(close - 1),
		High:   decimal.NewFromInt(close + 1),
		Low:    decimal.NewFromInt(close - 2),
		Close:  decimal.NewFromInt(close),
		Volume: 1000,
	}
}

func TestWeeklyUpdateContinuesPastErroringSymbol(t *testing.T) {
	gw := &fakeGateway{
		barsBy: map[string][]ibgw.Bar{
			"MSFT": {bar("2026-02-23", 400), bar("2026-02-24", 402)},
		},
		barsErr: map[string]error{
			"AAPL": errors.New("no market data subscription"),
		},
	}
	repo := &stubRepo{symbols: activeSymbols("AAPL", "MSFT")}
	svc := &PriceSyncService{
		Repo:    repo,
		Session: testSession(gw),
		Logger:  zap.NewNop(),
		Sync:    config.SyncConfig{HistoryDuration: "10 Y", BarSize: "1 day", WhatToShow: "TRADES"},
	}

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(repo.prices) != 2 {
		t.Fatalf("prices=%d want 2 (MSFT only)", len(repo.prices))
	}
	for _, p := range repo.prices {
		if p.Symbol != "MSFT" {
			t.Fatalf("symbol=%q want MSFT", p.Symbol)
		}
		if p.AdjustedClose.Cmp(p.Close) != 0 {
			t.Fatalf("adjusted_close=%s want close=%s", p.AdjustedClose, p.Close)
		}
	}

	var statuses []string
	for _, l := range repo.fetchLogs {
		statuses = append(statuses, l.Symbol+":"+l.Status)
	}
	if len(repo.fetchLogs) != 2 {
		t.Fatalf("fetchLogs=%v want one error and one success", statuses)
	}
	if repo.fetchLogs[0].Symbol != "AAPL" || repo.fetchLogs[0].Status != models.FetchStatusError {
		t.Fatalf("fetchLogs=%v", statuses)
	}
	if repo.fetchLogs[1].Symbol != "MSFT" || repo.fetchLogs[1].Status != models.FetchStatusSuccess {
		t.Fatalf("fetchLogs=%v", statuses)
	}
}

func TestWeeklyUpdateConnectFailureIsFatal(t *testing.T) {
	gw := &fakeGateway{openErr: errors.New("refused")}
	repo := &stubRepo{symbols: activeSymbols("AAPL")}
	svc := &PriceSyncService{Repo: repo, Session: testSession(gw), Logger: zap.NewNop()}

	err := svc.Run(context.Background())
	if !errors.Is(err, session.ErrConnectFailed) {
		t.Fatalf("err=%v want ErrConnectFailed", err)
	}
	if len(repo.prices) != 0 {
		t.Fatalf("prices=%d want 0", len(repo.prices))
	}
}

func TestWeeklyUpdateEmptySeriesIsNotAnError(t *testing.T) {
	gw := &fakeGateway{barsBy: map[string][]ibgw.Bar{}}
	repo := &stubRepo{symbols: activeSymbols("NEWIPO")}
	svc := &PriceSyncService{Repo: repo, Session: testSession(gw), Logger: zap.NewNop()}

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(repo.prices) != 0 {
		t.Fatalf("prices=%d want 0", len(repo.prices))
	}
	if len(repo.fetchLogs) != 1 || repo.fetchLogs[0].Status != models.FetchStatusSuccess {
		t.Fatalf("fetchLogs=%#v want one success row", repo.fetchLogs)
	}
}

func TestWeeklyUpdateStorageFailurePropagates(t *testing.T) {
	gw := &fakeGateway{
		barsBy: map[string][]ibgw.Bar{"AAPL": {bar("2026-02-23", 200)}},
	}
	repo := &stubRepo{
		symbols:       activeSymbols("AAPL"),
		savePricesErr: errors.New("database is locked"),
	}
	sess := testSession(gw)
	svc := &PriceSyncService{Repo: repo, Session: sess, Logger: zap.NewNop()}

	if err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected storage error")
	}
	if sess.State() != session.Disconnected {
		t.Fatalf("state=%s want disconnected", sess.State())
	}
}
