package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

// Store records capture sessions and publish progress
type Store struct {
	db *sql.DB
}

// Capture is one decoding pass over a capture file
type Capture struct {
	ID                 string
	Path               string
	SizeBytes          int64
	Mode               string
	StartedUnixMillis  int64
	FinishedUnixMillis sql.NullInt64
	RecordCount        int64
}

// StockEntry is a stock directory row, keyed by capture and stock locate
type StockEntry struct {
	StockLocate     uint16
	Symbol          string
	MarketCategory  string
	FinancialStatus string
	RoundLotSize    uint32
	Authenticity    string
}

// Checkpoint is the number of records of a capture already published
type Checkpoint struct {
	Path              string
	SizeBytes         int64
	PublishedRecords  int64
	UpdatedUnixMillis int64
}

// Open creates or opens the store
func Open(path string) (*Store, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS captures (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			mode TEXT NOT NULL,
			started_unix_millis INTEGER NOT NULL,
			finished_unix_millis INTEGER NULL,
			record_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS message_counts (
			capture_id TEXT NOT NULL,
			msg_type TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (capture_id, msg_type)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_directory (
			capture_id TEXT NOT NULL,
			stock_locate INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			market_category TEXT NOT NULL,
			financial_status TEXT NOT NULL,
			round_lot_size INTEGER NOT NULL,
			authenticity TEXT NOT NULL,
			PRIMARY KEY (capture_id, stock_locate)
		)`,
		`CREATE TABLE IF NOT EXISTS publish_checkpoints (
			path TEXT PRIMARY KEY,
			size_bytes INTEGER NOT NULL,
			published_records INTEGER NOT NULL,
			updated_unix_millis INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_captures_started
			ON captures(started_unix_millis)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// BeginCapture inserts a new capture session and returns it
func (s *Store) BeginCapture(ctx context.Context, path string, sizeBytes int64, mode itch.Mode) (Capture, error) {
	c := Capture{
		ID:                uuid.NewString(),
		Path:              path,
		SizeBytes:         sizeBytes,
		Mode:              mode.String(),
		StartedUnixMillis: time.Now().UnixMilli(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO captures (id, path, size_bytes, mode, started_unix_millis, finished_unix_millis, record_count)
		 VALUES (?, ?, ?, ?, ?, NULL, 0)`,
		c.ID, c.Path, c.SizeBytes, c.Mode, c.StartedUnixMillis,
	)
	if err != nil {
		return Capture{}, fmt.Errorf("failed to insert capture: %w", err)
	}
	return c, nil
}

// FinishCapture stores the record total and per-type counts of a capture
func (s *Store) FinishCapture(ctx context.Context, captureID string, recordCount int64, counts map[itch.MessageType]uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE captures SET finished_unix_millis = ?, record_count = ? WHERE id = ?",
		time.Now().UnixMilli(), recordCount, captureID,
	)
	if err != nil {
		return fmt.Errorf("failed to update capture: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("capture %s not found", captureID)
	}

	for t, n := range counts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO message_counts (capture_id, msg_type, count) VALUES (?, ?, ?)
			 ON CONFLICT(capture_id, msg_type) DO UPDATE SET count = excluded.count`,
			captureID, string(rune(t)), int64(n),
		)
		if err != nil {
			return fmt.Errorf("failed to insert message count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MessageCounts returns the stored per-type counts of a capture
func (s *Store) MessageCounts(ctx context.Context, captureID string) (map[itch.MessageType]uint64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT msg_type, count FROM message_counts WHERE capture_id = ?",
		captureID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query message counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[itch.MessageType]uint64)
	for rows.Next() {
		var t string
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("failed to scan message count: %w", err)
		}
		if len(t) == 1 {
			counts[itch.MessageType(t[0])] = uint64(n)
		}
	}
	return counts, rows.Err()
}

// UpsertStockDirectory records the latest directory entry for a locate
func (s *Store) UpsertStockDirectory(ctx context.Context, captureID string, e StockEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stock_directory (capture_id, stock_locate, symbol, market_category, financial_status, round_lot_size, authenticity)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(capture_id, stock_locate) DO UPDATE SET
			symbol = excluded.symbol,
			market_category = excluded.market_category,
			financial_status = excluded.financial_status,
			round_lot_size = excluded.round_lot_size,
			authenticity = excluded.authenticity`,
		captureID, int64(e.StockLocate), e.Symbol, e.MarketCategory, e.FinancialStatus, int64(e.RoundLotSize), e.Authenticity,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stock directory: %w", err)
	}
	return nil
}

// StockEntryFrom converts a decoded stock directory message
func StockEntryFrom(m *itch.StockDirectory) StockEntry {
	return StockEntry{
		StockLocate:     m.StockLocate,
		Symbol:          m.Stock.String(),
		MarketCategory:  string(rune(m.MarketCategory)),
		FinancialStatus: string(rune(m.FinancialStatus)),
		RoundLotSize:    m.RoundLotSize,
		Authenticity:    string(rune(m.Authenticity)),
	}
}

// LookupSymbol returns the symbol registered for a locate in a capture
func (s *Store) LookupSymbol(ctx context.Context, captureID string, locate uint16) (string, bool, error) {
	var symbol string
	err := s.db.QueryRowContext(ctx,
		"SELECT symbol FROM stock_directory WHERE capture_id = ? AND stock_locate = ?",
		captureID, int64(locate),
	).Scan(&symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to lookup symbol: %w", err)
	}
	return symbol, true, nil
}

// ListCaptures returns the most recent captures first
func (s *Store) ListCaptures(ctx context.Context, limit int) ([]Capture, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, size_bytes, mode, started_unix_millis, finished_unix_millis, record_count
		 FROM captures
		 ORDER BY started_unix_millis DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		err := rows.Scan(
			&c.ID, &c.Path, &c.SizeBytes, &c.Mode,
			&c.StartedUnixMillis, &c.FinishedUnixMillis, &c.RecordCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		captures = append(captures, c)
	}

	return captures, rows.Err()
}

// Checkpoint returns the publish checkpoint for a capture path. A
// checkpoint saved for a file of a different size is ignored.
func (s *Store) Checkpoint(ctx context.Context, path string, sizeBytes int64) (Checkpoint, bool, error) {
	var c Checkpoint
	err := s.db.QueryRowContext(ctx,
		"SELECT path, size_bytes, published_records, updated_unix_millis FROM publish_checkpoints WHERE path = ?",
		path,
	).Scan(&c.Path, &c.SizeBytes, &c.PublishedRecords, &c.UpdatedUnixMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if c.SizeBytes != sizeBytes {
		return Checkpoint{}, false, nil
	}
	return c, true, nil
}

// SaveCheckpoint stores the published record count for a capture path
func (s *Store) SaveCheckpoint(ctx context.Context, path string, sizeBytes, published int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO publish_checkpoints (path, size_bytes, published_records, updated_unix_millis)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			published_records = excluded.published_records,
			updated_unix_millis = excluded.updated_unix_millis`,
		path, sizeBytes, published, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
