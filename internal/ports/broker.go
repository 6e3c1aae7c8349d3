package ports

import (
	"context"

	"kitecover/internal/domain"
)

// PositionSnapshot is a read-only view of one position row as reported by the
// broker at call time. No caching is done anywhere above this type.
type PositionSnapshot struct {
	Tradingsymbol string  // Symbol of the position
	Exchange      string  // Exchange segment (e.g. NSE)
	Product       string  // Product type (e.g. MIS, CNC)
	Quantity      int     // Signed quantity (negative for short)
	AveragePrice  float64 // Average entry price
	LastPrice     float64 // Last traded price at snapshot time
	PnL           float64 // Profit and loss as reported by the broker
}

// Positions holds both position books returned by the broker.
type Positions struct {
	Net []PositionSnapshot
	Day []PositionSnapshot
}

// OrderSnapshot is a read-only view of one order row as reported by the broker.
type OrderSnapshot struct {
	OrderID           string  // Broker order ID
	Tradingsymbol     string  // Symbol of the order
	Exchange          string  // Exchange segment
	Status            string  // Broker status string (OPEN, COMPLETE, ...)
	TransactionType   string  // BUY or SELL
	OrderType         string  // LIMIT, SL, SL-M, MARKET
	Variety           string  // Order variety (regular, co, ...)
	Quantity          float64 // Original quantity
	PendingQuantity   float64 // Quantity still pending
	CancelledQuantity float64 // Quantity already cancelled
	FilledQuantity    float64 // Quantity filled
	Price             float64 // Limit price
	TriggerPrice      float64 // Trigger price
}

// NetPending is the order's pending quantity minus its already-cancelled
// quantity; zero means the order is effectively closed.
func (o OrderSnapshot) NetPending() float64 {
	return o.PendingQuantity - o.CancelledQuantity
}

// TradeSnapshot is a read-only view of one executed trade.
type TradeSnapshot struct {
	TradeID         string
	OrderID         string
	Tradingsymbol   string
	TransactionType string
	Quantity        float64
	AveragePrice    float64
}

// Holding is a read-only view of one long-term holding row.
type Holding struct {
	Tradingsymbol string
	Exchange      string
	ISIN          string
	Quantity      int
	AveragePrice  float64
	LastPrice     float64
	PnL           float64
}

// Margins summarizes the funds available on the equity segment.
type Margins struct {
	Enabled       bool
	Net           float64
	AvailableCash float64
	UtilisedDebit float64
}

// Profile holds the broker account identity, used as the lightweight
// token-validation call.
type Profile struct {
	UserID   string
	UserName string
	Email    string
}

// OHLC is an open/high/low/close quadruple with the last traded price.
type OHLC struct {
	LastPrice float64
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// Quote is a fuller market quote for a symbol.
type Quote struct {
	LastPrice      float64
	AveragePrice   float64
	Volume         int64
	BuyQuantity    int64
	SellQuantity   int64
	OHLC           OHLC
	LowerCircuit   float64
	UpperCircuit   float64
}

// OrderParams is a broker-ready order payload. Field names follow the
// broker's wire vocabulary (tradingsymbol, transaction_type) rather than the
// intent table's.
type OrderParams struct {
	Exchange        string
	Tradingsymbol   string
	TransactionType domain.OrderSide
	OrderType       domain.OrderType
	Quantity        int
	Price           float64
	TriggerPrice    float64
	Product         string
	Validity        string
	Variety         string
	Tag             string
}

// BrokerClient defines the interface for interacting with the brokerage API.
// This abstraction decouples session and order logic from the concrete SDK.
type BrokerClient interface {
	// LoginURL returns the URL the interactive login flow must open.
	LoginURL() string

	// GenerateSession exchanges a short-lived request token for an access
	// token via the broker's session-exchange endpoint and binds it.
	GenerateSession(ctx context.Context, requestToken string) (string, error)

	// SetAccessToken binds a previously persisted access token.
	SetAccessToken(accessToken string)

	// Profile retrieves the account profile. Cheap; used to validate a token.
	Profile(ctx context.Context) (*Profile, error)

	// Margins retrieves the equity margin summary.
	Margins(ctx context.Context) (*Margins, error)

	// LTP retrieves the last traded price for each instrument, keyed by the
	// plain trading symbol (exchange prefix stripped).
	LTP(ctx context.Context, exchange string, symbols ...string) (map[string]float64, error)

	// Quote retrieves full quotes keyed by trading symbol.
	Quote(ctx context.Context, exchange string, symbols ...string) (map[string]Quote, error)

	// OHLC retrieves OHLC quotes keyed by trading symbol.
	OHLC(ctx context.Context, exchange string, symbols ...string) (map[string]OHLC, error)

	// Positions retrieves the net and day position books.
	Positions(ctx context.Context) (*Positions, error)

	// Holdings retrieves long-term holdings.
	Holdings(ctx context.Context) ([]Holding, error)

	// Orders retrieves the day's order book.
	Orders(ctx context.Context) ([]OrderSnapshot, error)

	// Trades retrieves the day's executed trades.
	Trades(ctx context.Context) ([]TradeSnapshot, error)

	// PlaceOrder submits one order payload and returns the broker order ID.
	PlaceOrder(ctx context.Context, params OrderParams) (string, error)

	// CancelOrder cancels an open order by variety and ID.
	CancelOrder(ctx context.Context, variety, orderID string) error
}
