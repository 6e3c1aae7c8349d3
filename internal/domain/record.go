package domain

import "time"

// OrderLeg tags which half of a cover-order pair a journal record belongs to.
type OrderLeg string

const (
	LegEntry      OrderLeg = "entry"
	LegProtective OrderLeg = "protective"
)

// OrderRecord is a journal entry for an order submitted to the broker.
type OrderRecord struct {
	ID              int64     // Unique identifier (assigned by the journal)
	BrokerOrderID   string    // Order ID returned by the broker
	Tradingsymbol   string    // Symbol the order was placed for
	TransactionType OrderSide // BUY or SELL
	OrderType       OrderType // LIMIT, SL or SL-M
	Quantity        int       // Requested quantity
	Price           float64   // Limit price (stop-loss level on protective legs)
	TriggerPrice    float64   // Trigger price, zero unless the entry leg is SL
	Leg             OrderLeg  // entry or protective
	PlacedAt        time.Time // Submission time
}
