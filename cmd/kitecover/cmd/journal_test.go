package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitecover/internal/adapters/sqlite"
	"kitecover/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func setupJournal(t *testing.T) *sqlite.Journal {
	t.Helper()
	journal, err := sqlite.NewJournal(sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "journal.db"),
		Logger: &mockLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })
	return journal
}

func TestPrintJournal_CountOnly(t *testing.T) {
	journal := setupJournal(t)
	ctx := context.Background()

	_, err := journal.Record(ctx, &domain.OrderRecord{
		BrokerOrderID:   "151220000000000",
		Tradingsymbol:   "TCS",
		TransactionType: domain.Buy,
		OrderType:       domain.OrderTypeLimit,
		Quantity:        10,
		Price:           100,
		Leg:             domain.LegEntry,
		PlacedAt:        time.Now(),
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printJournal(ctx, journal, "", 10, &out))

	assert.Contains(t, out.String(), "Orders recorded today: 1")
	assert.NotContains(t, out.String(), "ORDER ID", "no record listing without a symbol")
}

func TestPrintJournal_RecentBySymbol(t *testing.T) {
	journal := setupJournal(t)
	ctx := context.Background()

	for _, rec := range []*domain.OrderRecord{
		{
			BrokerOrderID:   "151220000000001",
			Tradingsymbol:   "TCS",
			TransactionType: domain.Buy,
			OrderType:       domain.OrderTypeLimit,
			Quantity:        10,
			Price:           100,
			Leg:             domain.LegEntry,
			PlacedAt:        time.Now(),
		},
		{
			BrokerOrderID:   "151220000000002",
			Tradingsymbol:   "INFY",
			TransactionType: domain.Sell,
			OrderType:       domain.OrderTypeStopMarket,
			Quantity:        5,
			Price:           48,
			Leg:             domain.LegProtective,
			PlacedAt:        time.Now(),
		},
	} {
		_, err := journal.Record(ctx, rec)
		require.NoError(t, err)
	}

	var out bytes.Buffer
	require.NoError(t, printJournal(ctx, journal, "TCS", 10, &out))

	assert.Contains(t, out.String(), "Orders recorded today: 2")
	assert.Contains(t, out.String(), "151220000000001")
	assert.NotContains(t, out.String(), "151220000000002", "other symbols filtered out")
}

func TestPrintJournal_NoRecordsForSymbol(t *testing.T) {
	journal := setupJournal(t)

	var out bytes.Buffer
	require.NoError(t, printJournal(context.Background(), journal, "TCS", 10, &out))

	assert.Contains(t, out.String(), "No records for TCS")
}
