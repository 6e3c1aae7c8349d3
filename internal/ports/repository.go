package ports

import (
	"context"

	"kitecover/internal/domain"
)

// OrderJournal defines the interface for recording orders submitted to the
// broker. The broker remains the source of truth for order state; the
// journal is an audit trail.
type OrderJournal interface {
	// Record saves a submitted order and returns its assigned ID.
	Record(ctx context.Context, rec *domain.OrderRecord) (int64, error)
	// RecentBySymbol retrieves the most recent records for a symbol, up to a limit.
	RecentBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.OrderRecord, error)
	// CountToday counts records written today.
	CountToday(ctx context.Context) (int, error)
}
