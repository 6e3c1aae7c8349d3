package app

import (
	"context"
	"fmt"

	"kitecover/internal/domain"
	"kitecover/internal/ports"
)

// Record-type tags for AccountRecord rows.
const (
	RecordTypePositions = "positions"
	RecordTypeOrders    = "orders"
)

// AccountRecord is one row of the combined orders-and-positions summary,
// projected to a common shape regardless of origin.
type AccountRecord struct {
	Tradingsymbol   string
	TransactionType domain.OrderSide
	Quantity        float64
	RecordType      string // positions or orders
}

// AllOrdersAndPositions unions the requested position book with the current
// order book. Positions get a synthetic side from the sign of their quantity
// and an absolute quantity; orders carry their net pending quantity.
// Pure read-then-combine, positions first.
func (s *Session) AllOrdersAndPositions(ctx context.Context, scope domain.PositionScope) ([]AccountRecord, error) {
	if !scope.IsValid() {
		return nil, fmt.Errorf("%w: position scope must be %q or %q, got %q",
			ports.ErrInvalidRequest, domain.ScopeNet, domain.ScopeDay, scope)
	}

	positions, err := s.broker.Positions(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.broker.Orders(ctx)
	if err != nil {
		return nil, err
	}

	book := positions.Day
	if scope == domain.ScopeNet {
		book = positions.Net
	}

	records := make([]AccountRecord, 0, len(book)+len(orders))
	for _, p := range book {
		side := domain.Buy
		qty := p.Quantity
		if qty < 0 {
			side = domain.Sell
			qty = -qty
		}
		records = append(records, AccountRecord{
			Tradingsymbol:   p.Tradingsymbol,
			TransactionType: side,
			Quantity:        float64(qty),
			RecordType:      RecordTypePositions,
		})
	}
	for _, o := range orders {
		records = append(records, AccountRecord{
			Tradingsymbol:   o.Tradingsymbol,
			TransactionType: domain.OrderSide(o.TransactionType),
			Quantity:        o.NetPending(),
			RecordType:      RecordTypeOrders,
		})
	}
	return records, nil
}
