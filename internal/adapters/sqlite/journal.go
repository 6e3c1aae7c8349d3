package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kitecover/internal/domain"
	"kitecover/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Journal implements the ports.OrderJournal interface using SQLite.
type Journal struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite journal.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewJournal creates a new SQLite journal instance.
func NewJournal(cfg Config) (*Journal, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite journal")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/kitecover.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; limit the Go pool to one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, logger: cfg.Logger}

	if err := j.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize journal schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Order journal ready", map[string]interface{}{"path": dbPath})

	return j, nil
}

func (j *Journal) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS order_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		broker_order_id TEXT NOT NULL,
		tradingsymbol TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		order_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		trigger_price REAL NOT NULL DEFAULT 0,
		leg TEXT NOT NULL,
		placed_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_order_log_symbol_placed_at ON order_log (tradingsymbol, placed_at);
	`
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		j.logger.Info(context.Background(), "Closing order journal")
		return j.db.Close()
	}
	return nil
}

// Record saves a submitted order and returns its assigned ID.
func (j *Journal) Record(ctx context.Context, rec *domain.OrderRecord) (int64, error) {
	const query = `
	INSERT INTO order_log (broker_order_id, tradingsymbol, transaction_type, order_type,
	                       quantity, price, trigger_price, leg, placed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := j.db.ExecContext(ctx, query,
		rec.BrokerOrderID, rec.Tradingsymbol, rec.TransactionType, rec.OrderType,
		rec.Quantity, rec.Price, rec.TriggerPrice, rec.Leg, rec.PlacedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order record for %s: %w: %w", rec.Tradingsymbol, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for order record %s: %w", rec.Tradingsymbol, err)
	}
	rec.ID = id
	j.logger.Debug(ctx, "Order recorded", map[string]interface{}{"recordID": id, "symbol": rec.Tradingsymbol, "leg": rec.Leg})
	return id, nil
}

// RecentBySymbol retrieves the most recent records for a symbol, up to a limit.
func (j *Journal) RecentBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.OrderRecord, error) {
	const query = `
	SELECT id, broker_order_id, tradingsymbol, transaction_type, order_type,
	       quantity, price, trigger_price, leg, placed_at
	FROM order_log
	WHERE tradingsymbol = ? ORDER BY placed_at DESC, id DESC LIMIT ?`

	rows, err := j.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query order records for %s: %w: %w", symbol, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	records := make([]*domain.OrderRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order record: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order record rows: %w", err)
	}
	return records, nil
}

// CountToday counts records written today.
func (j *Journal) CountToday(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM order_log WHERE date(placed_at) = date('now', 'localtime')`
	var count int
	if err := j.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count today's order records: %w: %w", ports.ErrQueryFailed, err)
	}
	return count, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*domain.OrderRecord, error) {
	rec := &domain.OrderRecord{}
	var txnType, orderType, leg string
	err := s.Scan(
		&rec.ID, &rec.BrokerOrderID, &rec.Tradingsymbol, &txnType, &orderType,
		&rec.Quantity, &rec.Price, &rec.TriggerPrice, &leg, &rec.PlacedAt)
	if err != nil {
		return nil, err
	}
	rec.TransactionType = domain.OrderSide(txnType)
	rec.OrderType = domain.OrderType(orderType)
	rec.Leg = domain.OrderLeg(leg)
	return rec, nil
}
