package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"crednova/polaris/pkg/decision"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
    id              TEXT PRIMARY KEY,
    status          TEXT NOT NULL,
    risk_category   TEXT NOT NULL DEFAULT '',
    reason          TEXT NOT NULL,
    application     TEXT NOT NULL,
    decision        TEXT NOT NULL,
    created_at      TIMESTAMP NOT NULL,
    processing_ns   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
CREATE INDEX IF NOT EXISTS idx_decisions_status ON decisions(status);
`

// SQLiteConfig contains tuning options for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/decisions.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at cfg.Path and
// initializes the schema.
func NewSQLiteStore(cfg *SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if cfg == nil {
		cfg = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "storage.sqlite"))

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &SQLiteStore{db: db, config: cfg, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	return nil
}

// Save persists a decision record.
func (s *SQLiteStore) Save(ctx context.Context, record *Record) error {
	appJSON, err := json.Marshal(record.Application)
	if err != nil {
		return NewStorageError("sqlite", "marshal_application", err)
	}
	decJSON, err := json.Marshal(record.Decision)
	if err != nil {
		return NewStorageError("sqlite", "marshal_decision", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, status, risk_category, reason, application, decision, created_at, processing_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		string(record.Decision.Status),
		string(record.Decision.RiskCategory),
		record.Decision.Reason,
		string(appJSON),
		string(decJSON),
		record.CreatedAt.UTC(),
		record.ProcessingTime.Nanoseconds(),
	)
	if err != nil {
		return NewStorageError("sqlite", "insert", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application, decision, created_at, processing_ns
		FROM decisions WHERE id = ?`,
		id.String(),
	)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}
	return record, nil
}

// List returns records matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	query := `SELECT id, application, decision, created_at, processing_ns FROM decisions WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes records created before the cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM decisions WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_before", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "rows_affected", err)
	}
	return deleted, nil
}

// DeleteOldest removes the n oldest records.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM decisions WHERE id IN (
			SELECT id FROM decisions ORDER BY created_at ASC LIMIT ?
		)`, n)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_oldest", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "rows_affected", err)
	}
	return deleted, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		idStr        string
		appJSON      string
		decJSON      string
		createdAt    time.Time
		processingNs int64
	)
	if err := row.Scan(&idStr, &appJSON, &decJSON, &createdAt, &processingNs); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", idStr, err)
	}

	var app decision.Application
	if err := json.Unmarshal([]byte(appJSON), &app); err != nil {
		return nil, fmt.Errorf("unmarshal application: %w", err)
	}
	var dec decision.Decision
	if err := json.Unmarshal([]byte(decJSON), &dec); err != nil {
		return nil, fmt.Errorf("unmarshal decision: %w", err)
	}

	return &Record{
		ID:             id,
		Application:    app,
		Decision:       dec,
		CreatedAt:      createdAt,
		ProcessingTime: time.Duration(processingNs),
	}, nil
}
