package kiteclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kitecover/internal/ports"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// Client implements the ports.BrokerClient interface using the gokiteconnect library.
type Client struct {
	kite      *kiteconnect.Client
	apiSecret string
	logger    ports.Logger
}

// Config holds configuration specific to the Kite client adapter.
type Config struct {
	APIKey    string
	APISecret string
	Logger    ports.Logger
}

// New creates a new Kite client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Kite client")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: API key and secret are required", ports.ErrConfigurationError)
	}

	return &Client{
		kite:      kiteconnect.New(cfg.APIKey),
		apiSecret: cfg.APISecret,
		logger:    cfg.Logger,
	}, nil
}

// handleError translates Kite API errors into standardized ports errors.
// The broker reports a typed exception per response; the mapping below is
// what lets session logic distinguish an expired token from a network blip.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var kiteErr kiteconnect.Error
	if errors.As(err, &kiteErr) {
		fields["errorType"] = kiteErr.ErrorType
		fields["httpCode"] = kiteErr.Code

		var mappedErr error
		switch kiteErr.ErrorType {
		case kiteconnect.TokenError, kiteconnect.UserError, kiteconnect.TwoFAError:
			mappedErr = ports.ErrTokenInvalid
		case kiteconnect.PermissionError:
			mappedErr = ports.ErrPermissionDenied
		case kiteconnect.OrderError:
			mappedErr = ports.ErrOrderPlacementFailed
		case kiteconnect.InputError:
			mappedErr = ports.ErrInvalidRequest
		case kiteconnect.NetworkError:
			mappedErr = ports.ErrConnectionFailed
		case kiteconnect.DataError:
			mappedErr = ports.ErrUnknown
		default:
			mappedErr = ports.ErrUnknown
		}
		if kiteErr.Code == 429 {
			mappedErr = ports.ErrRateLimited
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	// Handle non-API errors (network, context cancellation, etc.)
	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "no such host") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// LoginURL returns the URL the interactive login flow must open.
func (c *Client) LoginURL() string {
	return c.kite.GetLoginURL()
}

// GenerateSession exchanges a request token for an access token and binds it.
func (c *Client) GenerateSession(ctx context.Context, requestToken string) (string, error) {
	op := "GenerateSession"
	if err := ctx.Err(); err != nil {
		return "", c.handleError(ctx, err, op)
	}
	session, err := c.kite.GenerateSession(requestToken, c.apiSecret)
	if err != nil {
		return "", c.handleError(ctx, err, op)
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{"userID": session.UserID})
	return session.AccessToken, nil
}

// SetAccessToken binds a previously persisted access token.
func (c *Client) SetAccessToken(accessToken string) {
	c.kite.SetAccessToken(accessToken)
}

// Profile retrieves the account profile.
func (c *Client) Profile(ctx context.Context) (*ports.Profile, error) {
	op := "Profile"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	profile, err := c.kite.GetUserProfile()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	return &ports.Profile{
		UserID:   profile.UserID,
		UserName: profile.UserName,
		Email:    profile.Email,
	}, nil
}

// Margins retrieves the equity margin summary.
func (c *Client) Margins(ctx context.Context) (*ports.Margins, error) {
	op := "Margins"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	margins, err := c.kite.GetUserMargins()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	return translateMargins(margins), nil
}

// instrument formats a symbol into the broker's "EXCHANGE:SYMBOL" key.
func instrument(exchange, symbol string) string {
	return exchange + ":" + symbol
}

// symbolOf strips the exchange prefix from a quote map key.
func symbolOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// LTP retrieves the last traded price for each symbol in a single call.
func (c *Client) LTP(ctx context.Context, exchange string, symbols ...string) (map[string]float64, error) {
	op := "LTP"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	instruments := make([]string, 0, len(symbols))
	for _, s := range symbols {
		instruments = append(instruments, instrument(exchange, s))
	}
	quotes, err := c.kite.GetLTP(instruments...)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make(map[string]float64, len(quotes))
	for key, q := range quotes {
		out[symbolOf(key)] = q.LastPrice
	}
	return out, nil
}

// Quote retrieves full quotes keyed by trading symbol.
func (c *Client) Quote(ctx context.Context, exchange string, symbols ...string) (map[string]ports.Quote, error) {
	op := "Quote"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	instruments := make([]string, 0, len(symbols))
	for _, s := range symbols {
		instruments = append(instruments, instrument(exchange, s))
	}
	quotes, err := c.kite.GetQuote(instruments...)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make(map[string]ports.Quote, len(quotes))
	for key, q := range quotes {
		out[symbolOf(key)] = ports.Quote{
			LastPrice:    q.LastPrice,
			AveragePrice: q.AveragePrice,
			Volume:       int64(q.Volume),
			BuyQuantity:  int64(q.BuyQuantity),
			SellQuantity: int64(q.SellQuantity),
			OHLC: ports.OHLC{
				LastPrice: q.LastPrice,
				Open:      q.OHLC.Open,
				High:      q.OHLC.High,
				Low:       q.OHLC.Low,
				Close:     q.OHLC.Close,
			},
			LowerCircuit: q.LowerCircuitLimit,
			UpperCircuit: q.UpperCircuitLimit,
		}
	}
	return out, nil
}

// OHLC retrieves OHLC quotes keyed by trading symbol.
func (c *Client) OHLC(ctx context.Context, exchange string, symbols ...string) (map[string]ports.OHLC, error) {
	op := "OHLC"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	instruments := make([]string, 0, len(symbols))
	for _, s := range symbols {
		instruments = append(instruments, instrument(exchange, s))
	}
	quotes, err := c.kite.GetOHLC(instruments...)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make(map[string]ports.OHLC, len(quotes))
	for key, q := range quotes {
		out[symbolOf(key)] = ports.OHLC{
			LastPrice: q.LastPrice,
			Open:      q.OHLC.Open,
			High:      q.OHLC.High,
			Low:       q.OHLC.Low,
			Close:     q.OHLC.Close,
		}
	}
	return out, nil
}

// Positions retrieves the net and day position books.
func (c *Client) Positions(ctx context.Context) (*ports.Positions, error) {
	op := "Positions"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	positions, err := c.kite.GetPositions()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	return &ports.Positions{
		Net: translatePositions(positions.Net),
		Day: translatePositions(positions.Day),
	}, nil
}

// Holdings retrieves long-term holdings.
func (c *Client) Holdings(ctx context.Context) ([]ports.Holding, error) {
	op := "Holdings"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	holdings, err := c.kite.GetHoldings()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make([]ports.Holding, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, ports.Holding{
			Tradingsymbol: h.Tradingsymbol,
			Exchange:      h.Exchange,
			ISIN:          h.ISIN,
			Quantity:      h.Quantity,
			AveragePrice:  h.AveragePrice,
			LastPrice:     h.LastPrice,
			PnL:           h.PnL,
		})
	}
	return out, nil
}

// Orders retrieves the day's order book.
func (c *Client) Orders(ctx context.Context) ([]ports.OrderSnapshot, error) {
	op := "Orders"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	orders, err := c.kite.GetOrders()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make([]ports.OrderSnapshot, 0, len(orders))
	for _, o := range orders {
		out = append(out, ports.OrderSnapshot{
			OrderID:           o.OrderID,
			Tradingsymbol:     o.TradingSymbol,
			Exchange:          o.Exchange,
			Status:            o.Status,
			TransactionType:   o.TransactionType,
			OrderType:         o.OrderType,
			Variety:           o.Variety,
			Quantity:          o.Quantity,
			PendingQuantity:   o.PendingQuantity,
			CancelledQuantity: o.CancelledQuantity,
			FilledQuantity:    o.FilledQuantity,
			Price:             o.Price,
			TriggerPrice:      o.TriggerPrice,
		})
	}
	return out, nil
}

// Trades retrieves the day's executed trades.
func (c *Client) Trades(ctx context.Context) ([]ports.TradeSnapshot, error) {
	op := "Trades"
	if err := ctx.Err(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	trades, err := c.kite.GetTrades()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make([]ports.TradeSnapshot, 0, len(trades))
	for _, t := range trades {
		out = append(out, ports.TradeSnapshot{
			TradeID:         t.TradeID,
			OrderID:         t.OrderID,
			Tradingsymbol:   t.TradingSymbol,
			TransactionType: t.TransactionType,
			Quantity:        t.Quantity,
			AveragePrice:    t.AveragePrice,
		})
	}
	return out, nil
}

// PlaceOrder submits one order payload and returns the broker order ID.
func (c *Client) PlaceOrder(ctx context.Context, params ports.OrderParams) (string, error) {
	op := "PlaceOrder"
	if err := ctx.Err(); err != nil {
		return "", c.handleError(ctx, err, op)
	}

	variety := params.Variety
	if variety == "" {
		variety = kiteconnect.VarietyRegular
	}

	resp, err := c.kite.PlaceOrder(variety, kiteconnect.OrderParams{
		Exchange:        params.Exchange,
		Tradingsymbol:   params.Tradingsymbol,
		Validity:        params.Validity,
		Product:         params.Product,
		OrderType:       string(params.OrderType),
		TransactionType: string(params.TransactionType),
		Quantity:        params.Quantity,
		Price:           params.Price,
		TriggerPrice:    params.TriggerPrice,
		Tag:             params.Tag,
	})
	if err != nil {
		return "", c.handleError(ctx, err, op)
	}

	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"orderID":         resp.OrderID,
		"tradingsymbol":   params.Tradingsymbol,
		"transactionType": params.TransactionType,
		"orderType":       params.OrderType,
		"quantity":        params.Quantity,
	})
	return resp.OrderID, nil
}

// CancelOrder cancels an open order by variety and ID.
func (c *Client) CancelOrder(ctx context.Context, variety, orderID string) error {
	op := "CancelOrder"
	if err := ctx.Err(); err != nil {
		return c.handleError(ctx, err, op)
	}
	if variety == "" {
		variety = kiteconnect.VarietyRegular
	}
	_, err := c.kite.CancelOrder(variety, orderID, nil)
	if err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{"orderID": orderID})
	return nil
}

// --- Translation Helpers ---

func translateMargins(margins kiteconnect.AllMargins) *ports.Margins {
	return &ports.Margins{
		Enabled:       margins.Equity.Enabled,
		Net:           margins.Equity.Net,
		AvailableCash: margins.Equity.Available.Cash,
		UtilisedDebit: margins.Equity.Used.Debits,
	}
}

func translatePositions(positions []kiteconnect.Position) []ports.PositionSnapshot {
	out := make([]ports.PositionSnapshot, 0, len(positions))
	for _, p := range positions {
		out = append(out, ports.PositionSnapshot{
			Tradingsymbol: p.Tradingsymbol,
			Exchange:      p.Exchange,
			Product:       p.Product,
			Quantity:      p.Quantity,
			AveragePrice:  p.AveragePrice,
			LastPrice:     p.LastPrice,
			PnL:           p.PnL,
		})
	}
	return out
}
