package app

import (
	"context"
	"fmt"

	"kitecover/internal/domain"
	"kitecover/internal/ports"
)

// OrderExtras carries the broker fields merged uniformly into every
// synthesized payload, entry and protective leg alike.
type OrderExtras struct {
	Exchange string
	Product  string
	Validity string
	Variety  string
	Tag      string
}

// OrderSynthesizer turns a table of trade intents into broker-ready
// cover-order payloads: one entry leg plus one protective leg per intent.
type OrderSynthesizer struct {
	broker ports.BrokerClient
	logger ports.Logger
}

// NewOrderSynthesizer creates a synthesizer bound to a broker client for
// last-traded-price lookups.
func NewOrderSynthesizer(broker ports.BrokerClient, logger ports.Logger) (*OrderSynthesizer, error) {
	if broker == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for OrderSynthesizer")
	}
	return &OrderSynthesizer{broker: broker, logger: logger}, nil
}

// OrderTypeFor decides limit versus stop relative to the last traded price.
// A limit order must sit on the favorable side of the market: below it for a
// buy, above it for a sell. Everything else, equality included, has to go in
// as a stop.
func OrderTypeFor(price, ltp float64, side domain.OrderSide) (domain.OrderType, error) {
	switch side {
	case domain.Buy:
		if price < ltp {
			return domain.OrderTypeLimit, nil
		}
		return domain.OrderTypeStopLoss, nil
	case domain.Sell:
		if price > ltp {
			return domain.OrderTypeLimit, nil
		}
		return domain.OrderTypeStopLoss, nil
	default:
		return "", fmt.Errorf("%w: side must be BUY or SELL, got %q", ports.ErrInvalidIntent, side)
	}
}

// BuildCoverOrders synthesizes 2N payloads from N intents: all entry legs in
// intent order, then all protective legs in intent order. The grouping is a
// guarantee; callers may depend on submission order.
//
// A malformed intent or a symbol with no resolvable last traded price fails
// the whole batch: a payload with an undefined price must never be produced.
func (s *OrderSynthesizer) BuildCoverOrders(ctx context.Context, intents []domain.TradeIntent, extras OrderExtras) ([]ports.OrderParams, error) {
	if len(intents) == 0 {
		return nil, nil
	}

	for i, intent := range intents {
		if err := intent.Validate(); err != nil {
			return nil, fmt.Errorf("intent %d (%s): %w: %w", i, intent.Symbol, ports.ErrInvalidIntent, err)
		}
	}

	ltps, err := s.lookupPrices(ctx, intents, extras.Exchange)
	if err != nil {
		return nil, err
	}

	payloads := make([]ports.OrderParams, 0, 2*len(intents))

	for _, intent := range intents {
		orderType, err := OrderTypeFor(intent.Price, ltps[intent.Symbol], intent.Side)
		if err != nil {
			return nil, err
		}

		entry := ports.OrderParams{
			Exchange:        extras.Exchange,
			Tradingsymbol:   intent.Symbol,
			TransactionType: intent.Side,
			OrderType:       orderType,
			Quantity:        intent.Quantity,
			Price:           intent.Price,
			Product:         extras.Product,
			Validity:        extras.Validity,
			Variety:         extras.Variety,
			Tag:             extras.Tag,
		}
		if orderType == domain.OrderTypeStopLoss {
			entry.TriggerPrice = intent.Price - domain.TriggerOffset
		}
		payloads = append(payloads, entry)
	}

	// Protective legs: opposite side, stop-market, the stop-loss level goes
	// out on the price field. Never a trigger price.
	for _, intent := range intents {
		payloads = append(payloads, ports.OrderParams{
			Exchange:        extras.Exchange,
			Tradingsymbol:   intent.Symbol,
			TransactionType: intent.Side.Opposite(),
			OrderType:       domain.OrderTypeStopMarket,
			Quantity:        intent.Quantity,
			Price:           intent.StopLoss,
			Product:         extras.Product,
			Validity:        extras.Validity,
			Variety:         extras.Variety,
			Tag:             extras.Tag,
		})
	}

	s.logger.Info(ctx, "cover orders synthesized", map[string]interface{}{
		"intents":  len(intents),
		"payloads": len(payloads),
	})
	return payloads, nil
}

// lookupPrices fetches the last traded price for the distinct symbols in one
// batched call and verifies every symbol resolved to a usable price.
func (s *OrderSynthesizer) lookupPrices(ctx context.Context, intents []domain.TradeIntent, exchange string) (map[string]float64, error) {
	seen := make(map[string]struct{}, len(intents))
	symbols := make([]string, 0, len(intents))
	for _, intent := range intents {
		if _, ok := seen[intent.Symbol]; ok {
			continue
		}
		seen[intent.Symbol] = struct{}{}
		symbols = append(symbols, intent.Symbol)
	}

	ltps, err := s.broker.LTP(ctx, exchange, symbols...)
	if err != nil {
		return nil, fmt.Errorf("price lookup for %d symbols: %w", len(symbols), err)
	}

	for _, symbol := range symbols {
		ltp, ok := ltps[symbol]
		if !ok || ltp <= 0 {
			return nil, fmt.Errorf("symbol %s: %w", symbol, ports.ErrMissingPrice)
		}
	}
	return ltps, nil
}
