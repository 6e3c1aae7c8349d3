package domain

import "fmt"

// TradeIntent is a single row of the trade intent table: what the caller
// wants to trade, before it is turned into broker order payloads.
// Immutable once read.
type TradeIntent struct {
	Symbol   string    `yaml:"symbol"`
	Price    float64   `yaml:"price"`
	Quantity int       `yaml:"quantity"`
	Side     OrderSide `yaml:"side"`
	StopLoss float64   `yaml:"stop_loss"`
}

// Validate checks the intent for the defects that would otherwise surface as
// a malformed order payload downstream.
func (i TradeIntent) Validate() error {
	if i.Symbol == "" {
		return fmt.Errorf("symbol is empty")
	}
	if i.Price <= 0 {
		return fmt.Errorf("price must be positive, got %v", i.Price)
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", i.Quantity)
	}
	if !i.Side.IsValid() {
		return fmt.Errorf("side must be BUY or SELL, got %q", i.Side)
	}
	if i.StopLoss <= 0 {
		return fmt.Errorf("stop_loss must be positive, got %v", i.StopLoss)
	}
	return nil
}
