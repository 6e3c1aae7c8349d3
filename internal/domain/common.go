package domain

// OrderSide represents the side of an order (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// IsValid reports whether the side is one of the two known values.
func (s OrderSide) IsValid() bool {
	return s == Buy || s == Sell
}

// Opposite returns the inverse side. The zero value maps to itself.
func (s OrderSide) Opposite() OrderSide {
	switch s {
	case Buy:
		return Sell
	case Sell:
		return Buy
	default:
		return s
	}
}

// OrderType represents the broker order type.
type OrderType string

const (
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStopLoss   OrderType = "SL"   // stop with a limit price
	OrderTypeStopMarket OrderType = "SL-M" // stop executed at market
)

// TriggerOffset is the broker-imposed minimum gap between trigger and limit
// price on SL entry legs, in currency units.
const TriggerOffset = 0.05

// PositionScope selects which position book a query runs over.
type PositionScope string

const (
	ScopeNet PositionScope = "net"
	ScopeDay PositionScope = "day"
)

// IsValid reports whether the scope is one of the two known books.
func (s PositionScope) IsValid() bool {
	return s == ScopeNet || s == ScopeDay
}
