package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stocktracker/internal/models"
	"stocktracker/internal/repository"
	"stocktracker/internal/session"
)

// SnapshotService captures one positions snapshot per account per local
// calendar day. Re-running it on the same day overwrites the day's rows.
type SnapshotService struct {
	Repo    repository.Repository
	Session *session.Session
	Logger  *zap.Logger
}

func (s *SnapshotService) Run(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Session == nil {
		return nil
	}
	if !s.Session.EnsureConnection(ctx) {
		auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePositions, "", models.FetchStatusError, session.ErrConnectFailed, nil)
		return session.ErrConnectFailed
	}
	// Released on every exit path; a failed snapshot must not leave the
	// session connected-but-abandoned.
	defer s.Session.Disconnect(ctx)

	accounts, err := s.Session.Accounts(ctx)
	if err != nil {
		auditFetch(ctx, s.Repo, s.Logger, models.FetchTypeAccounts, "", models.FetchStatusError, err, nil)
		return err
	}

	today := time.Now().Format("2006-01-02")
	accountRows := make([]models.Account, 0, len(accounts))
	var positionRows []models.Position
	for _, acct := range accounts {
		accountRows = append(accountRows, models.Account{
			AccountID:   acct.AccountID,
			AccountName: acct.AccountName,
			Currency:    acct.Currency,
		})
		rows, err := s.Session.Positions(ctx, acct.AccountID)
		if err != nil {
			// One account failing must not abort the rest of the sweep.
			s.Logger.Warn("positions fetch failed",
				zap.String("account", acct.AccountID),
				zap.Error(err),
			)
			auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePositions, acct.AccountID, models.FetchStatusError, err, nil)
			continue
		}
		for _, p := range rows {
			positionRows = append(positionRows, models.Position{
				AccountID:    p.AccountID,
				Symbol:       p.Symbol,
				Quantity:     p.Quantity,
				AvgCost:      p.AvgCost,
				SnapshotDate: today,
			})
		}
	}

	if len(accountRows) > 0 {
		if err := s.Repo.SaveAccounts(ctx, accountRows); err != nil {
			return err
		}
	}
	if len(positionRows) > 0 {
		if err := s.Repo.SavePositions(ctx, positionRows); err != nil {
			return err
		}
		auditFetch(ctx, s.Repo, s.Logger, models.FetchTypePositions, "", models.FetchStatusSuccess, nil, map[string]any{
			"accounts": len(accountRows),
			"rows":     len(positionRows),
			"date":     today,
		})
	}
	s.Logger.Info("positions snapshot complete",
		zap.String("date", today),
		zap.Int("accounts", len(accountRows)),
		zap.Int("rows", len(positionRows)),
	)
	return nil
}
