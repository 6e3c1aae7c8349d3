package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitecover/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	journal, err := NewJournal(Config{
		DBPath: filepath.Join(t.TempDir(), "journal.db"),
		Logger: &mockLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })
	return journal
}

func sampleRecord(symbol string, placedAt time.Time) *domain.OrderRecord {
	return &domain.OrderRecord{
		BrokerOrderID:   "151220000000000",
		Tradingsymbol:   symbol,
		TransactionType: domain.Buy,
		OrderType:       domain.OrderTypeLimit,
		Quantity:        10,
		Price:           100,
		TriggerPrice:    0,
		Leg:             domain.LegEntry,
		PlacedAt:        placedAt,
	}
}

func TestNewJournal_RequiresLogger(t *testing.T) {
	_, err := NewJournal(Config{DBPath: filepath.Join(t.TempDir(), "journal.db")})
	require.Error(t, err)
}

func TestRecordAndRecentBySymbol(t *testing.T) {
	journal := setupTestJournal(t)
	ctx := context.Background()

	rec := sampleRecord("TCS", time.Now().UTC())
	id, err := journal.Record(ctx, rec)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	assert.Equal(t, id, rec.ID)

	records, err := journal.RecentBySymbol(ctx, "TCS", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]
	assert.Equal(t, rec.BrokerOrderID, got.BrokerOrderID)
	assert.Equal(t, domain.Buy, got.TransactionType)
	assert.Equal(t, domain.OrderTypeLimit, got.OrderType)
	assert.Equal(t, domain.LegEntry, got.Leg)
	assert.Equal(t, 10, got.Quantity)
	assert.Equal(t, 100.0, got.Price)
}

func TestRecentBySymbol_OrderAndLimit(t *testing.T) {
	journal := setupTestJournal(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		rec := sampleRecord("TCS", base.Add(time.Duration(i)*time.Minute))
		rec.Price = 100 + float64(i)
		_, err := journal.Record(ctx, rec)
		require.NoError(t, err)
	}

	records, err := journal.RecentBySymbol(ctx, "TCS", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 102.0, records[0].Price, "most recent first")
	assert.Equal(t, 101.0, records[1].Price)
}

func TestRecentBySymbol_FiltersSymbol(t *testing.T) {
	journal := setupTestJournal(t)
	ctx := context.Background()

	_, err := journal.Record(ctx, sampleRecord("TCS", time.Now().UTC()))
	require.NoError(t, err)
	_, err = journal.Record(ctx, sampleRecord("INFY", time.Now().UTC()))
	require.NoError(t, err)

	records, err := journal.RecentBySymbol(ctx, "INFY", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "INFY", records[0].Tradingsymbol)
}

func TestRecentBySymbol_Empty(t *testing.T) {
	journal := setupTestJournal(t)

	records, err := journal.RecentBySymbol(context.Background(), "TCS", 10)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCountToday(t *testing.T) {
	journal := setupTestJournal(t)
	ctx := context.Background()

	count, err := journal.CountToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = journal.Record(ctx, sampleRecord("TCS", time.Now()))
	require.NoError(t, err)
	_, err = journal.Record(ctx, sampleRecord("INFY", time.Now()))
	require.NoError(t, err)

	count, err = journal.CountToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
