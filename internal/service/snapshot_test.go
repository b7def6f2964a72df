package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocktracker/internal/client/ibgw"
	"stocktracker/internal/config"
	"stocktracker/internal/models"
	"stocktracker/internal/session"
)

func testSession(conn session.Conn) *session.Session {
	return session.New(conn, zap.NewNop(), config.GatewayConfig{
		ClientID:       1,
		ConnectTimeout: 20 * time.Millisecond,
		FetchTimeout:   20 * time.Millisecond,
		RetryAttempts:  3,
		RetryWait:      time.Millisecond,
	})
}

func TestSnapshotSavesOneBatchStampedToday(t *testing.T) {
	gw := &fakeGateway{
		accounts: []ibgw.Account{
			{AccountID: "DU1", AccountName: "Paper", Currency: "USD"},
			{AccountID: "DU2", AccountName: "Live", Currency: "USD"},
		},
		positionsBy: map[string][]ibgw.PositionRow{
			"DU1": {
				{AccountID: "DU1", Symbol: "AAPL", Quantity: decimal.NewFromInt(100), AvgCost: decimal.NewFromFloat(180.5)},
				{AccountID: "DU1", Symbol: "MSFT", Quantity: decimal.NewFromInt(40), AvgCost: decimal.NewFromInt(400)},
			},
			"DU2": {
				{AccountID: "DU2", Symbol: "VT", Quantity: decimal.NewFromInt(10), AvgCost: decimal.NewFromInt(110)},
			},
		},
	}
	repo := &stubRepo{}
	sess := testSession(gw)
	svc := &SnapshotService{Repo: repo, Session: sess, Logger: zap.NewNop()}

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}

	if len(repo.accounts) != 2 {
		t.Fatalf("accounts=%d want 2", len(repo.accounts))
	}
	if len(repo.positions) != 3 {
		t.Fatalf("positions=%d want 3", len(repo.positions))
	}
	today := time.Now().Format("2006-01-02")
	for _, p := range repo.positions {
		if p.SnapshotDate != today {
			t.Fatalf("snapshot_date=%q want %q", p.SnapshotDate, today)
		}
	}
	// Session released after the job.
	if sess.State() != session.Disconnected {
		t.Fatalf("state=%s want disconnected", sess.State())
	}
}

func TestSnapshotConnectFailureIsFatal(t *testing.T) {
	gw := &fakeGateway{openErr: errors.New("refused")}
	repo := &stubRepo{}
	svc := &SnapshotService{Repo: repo, Session: testSession(gw), Logger: zap.NewNop()}

	err := svc.Run(context.Background())
	if !errors.Is(err, session.ErrConnectFailed) {
		t.Fatalf("err=%v want ErrConnectFailed", err)
	}
	if len(repo.positions) != 0 {
		t.Fatalf("positions=%d want 0", len(repo.positions))
	}
	if len(repo.fetchLogs) != 1 || repo.fetchLogs[0].Status != models.FetchStatusError {
		t.Fatalf("fetchLogs=%#v want one error row", repo.fetchLogs)
	}
}

func TestSnapshotContinuesPastFailingAccount(t *testing.T) {
	gw := &fakeGateway{
		accounts: []ibgw.Account{
			{AccountID: "DU1"},
			{AccountID: "DU2"},
		},
		positionsBy: map[string][]ibgw.PositionRow{
			"DU2": {
				{AccountID: "DU2", Symbol: "VT", Quantity: decimal.NewFromInt(10), AvgCost: decimal.NewFromInt(110)},
			},
		},
		positionsErr: map[string]error{
			"DU1": errors.New("pacing violation"),
		},
	}
	repo := &stubRepo{}
	svc := &SnapshotService{Repo: repo, Session: testSession(gw), Logger: zap.NewNop()}

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(repo.positions) != 1 || repo.positions[0].Symbol != "VT" {
		t.Fatalf("positions=%#v want just VT", repo.positions)
	}

	sawError := false
	for _, l := range repo.fetchLogs {
		if l.Status == models.FetchStatusError && l.Symbol == "DU1" {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("fetchLogs=%#v want error row for DU1", repo.fetchLogs)
	}
}

func TestSnapshotStorageFailurePropagates(t *testing.T) {
	gw := &fakeGateway{
		accounts: []ibgw.Account{{AccountID: "DU1"}},
		positionsBy: map[string][]ibgw.PositionRow{
			"DU1": {{AccountID: "DU1", Symbol: "AAPL", Quantity: decimal.NewFromInt(1), AvgCost: decimal.NewFromInt(1)}},
		},
	}
	repo := &stubRepo{savePositionsErr: errors.New("disk full")}
	sess := testSession(gw)
	svc := &SnapshotService{Repo: repo, Session: sess, Logger: zap.NewNop()}

	if err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected storage error")
	}
	// Session released even on the error path.
	if sess.State() != session.Disconnected {
		t.Fatalf("state=%s want disconnected", sess.State())
	}
}
