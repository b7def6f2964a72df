package service

import (
	"context"

	"go.uber.org/zap"

	"stocktracker/internal/session"
)

// ReconnectService is a liveness probe with no data side effects: it keeps
// the gateway session warm between data-fetch windows.
type ReconnectService struct {
	Session *session.Session
	Logger  *zap.Logger
}

func (s *ReconnectService) Run(ctx context.Context) error {
	if s == nil || s.Session == nil {
		return nil
	}
	connected := s.Session.EnsureConnection(ctx)
	s.Logger.Info("gateway liveness check",
		zap.Bool("connected", connected),
		zap.String("state", s.Session.State().String()),
	)
	return nil
}
