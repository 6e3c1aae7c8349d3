package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"kitecover/internal/domain"
	"kitecover/internal/ports"
)

const defaultCancelMaxAttempts = 6

// SessionManager establishes an authenticated broker session, reusing the
// persisted access token when the broker still accepts it and falling back
// to the interactive login flow when it does not.
type SessionManager struct {
	logger            ports.Logger
	broker            ports.BrokerClient
	tokens            ports.TokenStore
	login             ports.TokenSource
	journal           ports.OrderJournal
	cancelMaxAttempts int
}

// SessionManagerConfig holds the collaborators and tunables for a session manager.
type SessionManagerConfig struct {
	Logger            ports.Logger
	Broker            ports.BrokerClient
	Tokens            ports.TokenStore
	Login             ports.TokenSource
	Journal           ports.OrderJournal // optional; order placement is not recorded when nil
	CancelMaxAttempts int
}

// NewSessionManager creates a new session manager instance.
func NewSessionManager(cfg SessionManagerConfig) (*SessionManager, error) {
	if cfg.Logger == nil || cfg.Broker == nil || cfg.Tokens == nil || cfg.Login == nil {
		return nil, fmt.Errorf("missing required dependencies for SessionManager")
	}
	attempts := cfg.CancelMaxAttempts
	if attempts <= 0 {
		attempts = defaultCancelMaxAttempts
	}
	return &SessionManager{
		logger:            cfg.Logger,
		broker:            cfg.Broker,
		tokens:            cfg.Tokens,
		login:             cfg.Login,
		journal:           cfg.Journal,
		cancelMaxAttempts: attempts,
	}, nil
}

// Authenticate yields a validated session. The persisted token is tried
// first; any validation failure falls back to the interactive login flow.
// Interactive-flow failures are fatal and carry ports.ErrAuthFlowFailed.
func (m *SessionManager) Authenticate(ctx context.Context) (*Session, error) {
	op := "Authenticate"

	token, err := m.tokens.Load()
	if err != nil {
		m.logger.Warn(ctx, op+": could not read persisted token", map[string]interface{}{"error": err.Error()})
	}

	if token != "" {
		m.broker.SetAccessToken(token)
		profile, err := m.broker.Profile(ctx)
		if err == nil {
			m.logger.Info(ctx, op+": persisted token accepted", map[string]interface{}{"userID": profile.UserID})
			return m.newSession(), nil
		}
		// A rejected token is the expected path to re-login; anything else
		// is logged for what it was, but the session cannot proceed without
		// validation either way.
		switch {
		case errors.Is(err, ports.ErrTokenInvalid):
			m.logger.Info(ctx, op+": persisted token rejected, starting interactive login")
		case errors.Is(err, ports.ErrConnectionFailed), errors.Is(err, ports.ErrTimeout):
			m.logger.Warn(ctx, op+": token validation hit a network error, starting interactive login", map[string]interface{}{"error": err.Error()})
		default:
			m.logger.Warn(ctx, op+": token validation failed, starting interactive login", map[string]interface{}{"error": err.Error()})
		}
	} else {
		m.logger.Info(ctx, op+": no persisted token, starting interactive login")
	}

	session, err := m.interactiveLogin(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// interactiveLogin drives the browser flow, exchanges the request token for
// an access token, persists it and validates the resulting session.
func (m *SessionManager) interactiveLogin(ctx context.Context) (*Session, error) {
	op := "interactiveLogin"

	requestToken, err := m.login.RequestToken(ctx, m.broker.LoginURL())
	if err != nil {
		if errors.Is(err, ports.ErrAuthFlowFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ports.ErrAuthFlowFailed, err)
	}

	accessToken, err := m.broker.GenerateSession(ctx, requestToken)
	if err != nil {
		return nil, fmt.Errorf("session exchange: %w: %w", ports.ErrAuthFlowFailed, err)
	}
	m.broker.SetAccessToken(accessToken)

	if err := m.tokens.Save(accessToken); err != nil {
		// The session itself is live; losing persistence only costs an extra
		// login on the next run.
		m.logger.Warn(ctx, op+": could not persist access token", map[string]interface{}{"error": err.Error()})
	}

	profile, err := m.broker.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("validating fresh session: %w: %w", ports.ErrAuthFlowFailed, err)
	}
	m.logger.Info(ctx, op+": session established", map[string]interface{}{"userID": profile.UserID})

	return m.newSession(), nil
}

func (m *SessionManager) newSession() *Session {
	return &Session{
		logger:            m.logger,
		broker:            m.broker,
		journal:           m.journal,
		cancelMaxAttempts: m.cancelMaxAttempts,
	}
}

// Session is the capability object exposed once authentication succeeds.
// All account queries are thin pass-throughs to the live broker session;
// nothing is cached.
type Session struct {
	logger            ports.Logger
	broker            ports.BrokerClient
	journal           ports.OrderJournal
	cancelMaxAttempts int
}

// Margins retrieves the equity margin summary.
func (s *Session) Margins(ctx context.Context) (*ports.Margins, error) {
	return s.broker.Margins(ctx)
}

// Profile retrieves the account profile.
func (s *Session) Profile(ctx context.Context) (*ports.Profile, error) {
	return s.broker.Profile(ctx)
}

// LTP retrieves last traded prices keyed by trading symbol.
func (s *Session) LTP(ctx context.Context, exchange string, symbols ...string) (map[string]float64, error) {
	return s.broker.LTP(ctx, exchange, symbols...)
}

// Quote retrieves full quotes keyed by trading symbol.
func (s *Session) Quote(ctx context.Context, exchange string, symbols ...string) (map[string]ports.Quote, error) {
	return s.broker.Quote(ctx, exchange, symbols...)
}

// OHLC retrieves OHLC quotes keyed by trading symbol.
func (s *Session) OHLC(ctx context.Context, exchange string, symbols ...string) (map[string]ports.OHLC, error) {
	return s.broker.OHLC(ctx, exchange, symbols...)
}

// Positions retrieves the net and day position books.
func (s *Session) Positions(ctx context.Context) (*ports.Positions, error) {
	return s.broker.Positions(ctx)
}

// Trades retrieves the day's executed trades.
func (s *Session) Trades(ctx context.Context) ([]ports.TradeSnapshot, error) {
	return s.broker.Trades(ctx)
}

// Orders retrieves the day's order book.
func (s *Session) Orders(ctx context.Context) ([]ports.OrderSnapshot, error) {
	return s.broker.Orders(ctx)
}

// Holdings retrieves long-term holdings.
func (s *Session) Holdings(ctx context.Context) ([]ports.Holding, error) {
	return s.broker.Holdings(ctx)
}

// IsNilPositions reports whether the sum of absolute quantities across net
// positions is zero.
func (s *Session) IsNilPositions(ctx context.Context) (bool, error) {
	positions, err := s.broker.Positions(ctx)
	if err != nil {
		return false, err
	}
	return absQuantitySum(positions.Net) == 0, nil
}

// IsNilPositionsDay reports whether the sum of absolute quantities across
// day positions is zero.
func (s *Session) IsNilPositionsDay(ctx context.Context) (bool, error) {
	positions, err := s.broker.Positions(ctx)
	if err != nil {
		return false, err
	}
	return absQuantitySum(positions.Day) == 0, nil
}

// IsNilOrders reports whether the net pending quantity across all orders is
// zero (pending minus already-cancelled).
func (s *Session) IsNilOrders(ctx context.Context) (bool, error) {
	orders, err := s.broker.Orders(ctx)
	if err != nil {
		return false, err
	}
	return netPendingSum(orders) == 0, nil
}

// CancelAllOrders cancels every order with net pending quantity, then
// re-checks and re-issues cancels up to the configured bound. Exceeding the
// bound logs a warning and returns a value wrapping ports.ErrCancelIncomplete
// rather than looping forever.
func (s *Session) CancelAllOrders(ctx context.Context) error {
	op := "CancelAllOrders"

	if err := s.cancelPending(ctx); err != nil {
		return err
	}

	for attempt := 1; attempt <= s.cancelMaxAttempts; attempt++ {
		done, err := s.IsNilOrders(ctx)
		if err != nil {
			return err
		}
		if done {
			s.logger.Info(ctx, op+": all orders cancelled", map[string]interface{}{"attempts": attempt})
			return nil
		}
		s.logger.Debug(ctx, op+": pending orders remain, re-issuing cancels", map[string]interface{}{"attempt": attempt})
		if err := s.cancelPending(ctx); err != nil {
			return err
		}
	}

	s.logger.Warn(ctx, op+": giving up with pending orders remaining", map[string]interface{}{"maxAttempts": s.cancelMaxAttempts})
	return fmt.Errorf("%s exceeded %d attempts: %w", op, s.cancelMaxAttempts, ports.ErrCancelIncomplete)
}

// cancelPending issues a cancel for every order that still has net pending
// quantity. Individual cancel rejections are logged and skipped; the broker
// may have filled or cancelled the order between the snapshot and the call.
func (s *Session) cancelPending(ctx context.Context) error {
	orders, err := s.broker.Orders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.NetPending() <= 0 {
			continue
		}
		if err := s.broker.CancelOrder(ctx, o.Variety, o.OrderID); err != nil {
			if errors.Is(err, ports.ErrContextCanceled) || errors.Is(err, ports.ErrTimeout) {
				return err
			}
			s.logger.Warn(ctx, "cancel rejected for order", map[string]interface{}{"orderID": o.OrderID, "error": err.Error()})
		}
	}
	return nil
}

// PlaceOrders submits payloads sequentially, recording each accepted order in
// the journal. There is no automatic retry on placement: the first rejection
// stops the batch and the IDs accepted so far are returned with the error.
func (s *Session) PlaceOrders(ctx context.Context, payloads []ports.OrderParams) ([]string, error) {
	orderIDs := make([]string, 0, len(payloads))
	for i, p := range payloads {
		orderID, err := s.broker.PlaceOrder(ctx, p)
		if err != nil {
			return orderIDs, fmt.Errorf("placing order %d of %d (%s %s): %w",
				i+1, len(payloads), p.TransactionType, p.Tradingsymbol, err)
		}
		orderIDs = append(orderIDs, orderID)
		s.recordOrder(ctx, orderID, p)
	}
	return orderIDs, nil
}

// recordOrder writes a journal entry for an accepted order. Journal failures
// are logged, not propagated: the order is already live at the broker.
func (s *Session) recordOrder(ctx context.Context, orderID string, p ports.OrderParams) {
	if s.journal == nil {
		return
	}
	leg := domain.LegEntry
	if p.OrderType == domain.OrderTypeStopMarket {
		leg = domain.LegProtective
	}
	_, err := s.journal.Record(ctx, &domain.OrderRecord{
		BrokerOrderID:   orderID,
		Tradingsymbol:   p.Tradingsymbol,
		TransactionType: p.TransactionType,
		OrderType:       p.OrderType,
		Quantity:        p.Quantity,
		Price:           p.Price,
		TriggerPrice:    p.TriggerPrice,
		Leg:             leg,
		PlacedAt:        time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn(ctx, "could not journal placed order", map[string]interface{}{"orderID": orderID, "error": err.Error()})
	}
}

func absQuantitySum(positions []ports.PositionSnapshot) int {
	sum := 0
	for _, p := range positions {
		sum += int(math.Abs(float64(p.Quantity)))
	}
	return sum
}

func netPendingSum(orders []ports.OrderSnapshot) float64 {
	var pending, cancelled float64
	for _, o := range orders {
		pending += math.Abs(o.PendingQuantity)
		cancelled += math.Abs(o.CancelledQuantity)
	}
	return pending - cancelled
}
