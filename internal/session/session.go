// Package session owns the one logical connection to the brokerage gateway:
// connect with bounded retries, liveness checks, auto-reconnect, idempotent
// disconnect, and connection-state-aware reads.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"stocktracker/internal/client/ibgw"
	"stocktracker/internal/config"
)

// ErrConnectFailed is the hard-failure signal: the gateway could not be
// reached after exhausting retries. Fetch-level errors are returned as-is
// and callers treat them as soft (skip and continue).
var ErrConnectFailed = errors.New("gateway connection failed")

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn is the gateway contract the session drives. *ibgw.Client implements it.
type Conn interface {
	OpenSession(ctx context.Context, clientID int) error
	SessionAlive(ctx context.Context) (bool, error)
	CloseSession(ctx context.Context) error
	Accounts(ctx context.Context) ([]ibgw.Account, error)
	Positions(ctx context.Context, accountID string) ([]ibgw.PositionRow, error)
	HistoricalBars(ctx context.Context, req ibgw.HistoryRequest) ([]ibgw.Bar, error)
}

type Session struct {
	conn   Conn
	logger *zap.Logger

	clientID       int
	connectTimeout time.Duration
	fetchTimeout   time.Duration
	retryWait      time.Duration
	maxAttempts    int

	mu    sync.Mutex
	state State
}

func New(conn Conn, logger *zap.Logger, cfg config.GatewayConfig) *Session {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = time.Second
	}
	return &Session{
		conn:           conn,
		logger:         logger,
		clientID:       cfg.ClientID,
		connectTimeout: connectTimeout,
		fetchTimeout:   fetchTimeout,
		retryWait:      retryWait,
		maxAttempts:    attempts,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect establishes the gateway session, making up to maxAttempts attempts
// each bounded by connectTimeout, with retryWait between attempts. The
// returned error wraps ErrConnectFailed; retrying is this method's job, not
// the caller's.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Session) connectLocked(ctx context.Context) error {
	s.state = Connecting
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
		err := s.conn.OpenSession(attemptCtx, s.clientID)
		cancel()
		if err == nil {
			s.state = Connected
			s.logger.Info("gateway session established", zap.Int("attempt", attempt))
			return nil
		}
		lastErr = err
		s.logger.Warn("gateway connect attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.maxAttempts),
			zap.Error(err),
		)
		if attempt < s.maxAttempts {
			select {
			case <-ctx.Done():
				s.state = Disconnected
				return fmt.Errorf("%w: %v", ErrConnectFailed, ctx.Err())
			case <-time.After(s.retryWait):
			}
		}
	}
	s.state = Disconnected
	return fmt.Errorf("%w after %d attempts: %v", ErrConnectFailed, s.maxAttempts, lastErr)
}

// Disconnect closes the gateway session. Closing an already-closed session
// is a no-op; always safe to call.
func (s *Session) Disconnect(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Connected {
		return
	}
	closeCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	if err := s.conn.CloseSession(closeCtx); err != nil {
		s.logger.Warn("gateway disconnect failed", zap.Error(err))
	} else {
		s.logger.Info("gateway session closed")
	}
	s.state = Disconnected
}

// EnsureConnection reports whether a live session exists, connecting first
// if needed. When the session looks connected a cheap liveness probe guards
// against a silently dropped bridge session; a dead probe triggers one
// reconnect cycle. This is the sole entry point jobs use.
func (s *Session) EnsureConnection(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Connected {
		probeCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
		alive, err := s.conn.SessionAlive(probeCtx)
		cancel()
		if err == nil && alive {
			return true
		}
		s.logger.Warn("gateway session lost, reconnecting", zap.Error(err))
		s.state = Disconnected
	}
	return s.connectLocked(ctx) == nil
}

// Accounts lists the account identifiers known to the gateway.
// Returns ErrConnectFailed when no session could be established.
func (s *Session) Accounts(ctx context.Context) ([]ibgw.Account, error) {
	if !s.EnsureConnection(ctx) {
		return nil, ErrConnectFailed
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	accounts, err := s.conn.Accounts(fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	s.logger.Info("fetched accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}

// Positions returns normalized position rows for one account, or all
// accounts when accountID is empty. Market value and unrealized P&L stay
// unset: the real-time valuation feed is not part of the snapshot path.
func (s *Session) Positions(ctx context.Context, accountID string) ([]ibgw.PositionRow, error) {
	if !s.EnsureConnection(ctx) {
		return nil, ErrConnectFailed
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	rows, err := s.conn.Positions(fetchCtx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	account := accountID
	if account == "" {
		account = "ALL"
	}
	s.logger.Info("fetched positions", zap.String("account", account), zap.Int("count", len(rows)))
	return rows, nil
}

// HistoricalBars fetches one symbol's OHLCV series, bounded by the fetch
// timeout. A fetch error is soft for the sweep: the caller records it and
// moves on to the next symbol.
func (s *Session) HistoricalBars(ctx context.Context, req ibgw.HistoryRequest) ([]ibgw.Bar, error) {
	if !s.EnsureConnection(ctx) {
		return nil, ErrConnectFailed
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	bars, err := s.conn.HistoricalBars(fetchCtx, req)
	if err != nil {
		return nil, fmt.Errorf("historical bars %s: %w", req.Symbol, err)
	}
	s.logger.Info("fetched historical bars", zap.String("symbol", req.Symbol), zap.Int("count", len(bars)))
	return bars, nil
}
