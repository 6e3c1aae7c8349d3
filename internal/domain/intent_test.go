package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeIntentValidate(t *testing.T) {
	valid := TradeIntent{Symbol: "TCS", Price: 100, Quantity: 10, Side: Buy, StopLoss: 95}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TradeIntent)
	}{
		{name: "empty symbol", mutate: func(i *TradeIntent) { i.Symbol = "" }},
		{name: "zero price", mutate: func(i *TradeIntent) { i.Price = 0 }},
		{name: "negative price", mutate: func(i *TradeIntent) { i.Price = -1 }},
		{name: "zero quantity", mutate: func(i *TradeIntent) { i.Quantity = 0 }},
		{name: "negative quantity", mutate: func(i *TradeIntent) { i.Quantity = -5 }},
		{name: "unknown side", mutate: func(i *TradeIntent) { i.Side = "HOLD" }},
		{name: "zero stop loss", mutate: func(i *TradeIntent) { i.StopLoss = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := valid
			tt.mutate(&intent)
			assert.Error(t, intent.Validate())
		})
	}
}

func TestOrderSideOpposite(t *testing.T) {
	assert.Equal(t, Sell, Buy.Opposite())
	assert.Equal(t, Buy, Sell.Opposite())
}

func TestOrderSideIsValid(t *testing.T) {
	assert.True(t, Buy.IsValid())
	assert.True(t, Sell.IsValid())
	assert.False(t, OrderSide("HOLD").IsValid())
	assert.False(t, OrderSide("").IsValid())
}

func TestPositionScopeIsValid(t *testing.T) {
	assert.True(t, ScopeNet.IsValid())
	assert.True(t, ScopeDay.IsValid())
	assert.False(t, PositionScope("week").IsValid())
}
