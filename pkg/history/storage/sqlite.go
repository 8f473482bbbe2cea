package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mdnav-hq/mdnav/pkg/history"
)

const backendSQLite = "sqlite"

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path. ":memory:" is accepted.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for concurrent readers.
	// Default: true
	WALMode bool

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultSQLiteConfig returns the default SQLite configuration for path.
func DefaultSQLiteConfig(path string) *SQLiteConfig {
	return &SQLiteConfig{
		Path:         path,
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements history.Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database and creates the schema if needed.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil || config.Path == "" {
		return nil, history.NewStorageError(backendSQLite, "open", errors.New("database path is required"))
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.storage.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "open", err)
	}

	maxOpen := config.MaxOpenConns
	if maxOpen <= 0 || config.Path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets pragmas, creates the schema and checks its version.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode && s.config.Path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError(backendSQLite, "enable_wal", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return history.NewStorageError(backendSQLite, "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError(backendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return history.NewStorageError(backendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Record persists an entry.
func (s *SQLiteStore) Record(ctx context.Context, entry *history.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, entry.Source, entry.Status,
		entry.ResultCount, entry.Duration.Microseconds(),
		nullString(entry.Error), nullString(entry.ErrorKind),
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return history.NewStorageError(backendSQLite, "record", err)
	}
	return nil
}

// List returns matching entries, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter *history.Filter) ([]*history.Entry, error) {
	if filter == nil {
		filter = &history.Filter{}
	}

	whereClause, args := buildWhereClause(filter)

	query := "SELECT " + entryColumns + " FROM history"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "list", err)
	}
	defer rows.Close()

	entries := []*history.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, history.NewStorageError(backendSQLite, "scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError(backendSQLite, "list", err)
	}

	return entries, nil
}

// Count returns the number of matching entries.
func (s *SQLiteStore) Count(ctx context.Context, filter *history.Filter) (int64, error) {
	if filter == nil {
		filter = &history.Filter{}
	}

	whereClause, args := buildWhereClause(filter)
	query := "SELECT COUNT(*) FROM history"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, history.NewStorageError(backendSQLite, "count", err)
	}
	return count, nil
}

// Delete removes matching entries.
func (s *SQLiteStore) Delete(ctx context.Context, filter *history.Filter) (int64, error) {
	if filter == nil {
		filter = &history.Filter{}
	}

	whereClause, args := buildWhereClause(filter)
	query := "DELETE FROM history"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	return s.exec(ctx, "delete", query, args...)
}

// Trim keeps the newest keep entries.
func (s *SQLiteStore) Trim(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	return s.exec(ctx, "trim", `
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return history.NewStorageError(backendSQLite, "ping", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError(backendSQLite, "close", err)
	}
	s.logger.Debug("SQLite history store closed")
	return nil
}

func (s *SQLiteStore) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, op, err)
	}
	return n, nil
}

// buildWhereClause returns the conditions (without "WHERE") and their args.
func buildWhereClause(filter *history.Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UnixNano())
	}
	if filter.Before != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, filter.Before.UnixNano())
	}

	return strings.Join(conditions, " AND "), args
}

func scanEntry(rows *sql.Rows) (*history.Entry, error) {
	var entry history.Entry
	var durationUs, createdAt int64
	var errVal, errKind sql.NullString

	err := rows.Scan(
		&entry.ID, &entry.Query, &entry.Source, &entry.Status,
		&entry.ResultCount, &durationUs, &errVal, &errKind, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Duration = time.Duration(durationUs) * time.Microsecond
	entry.CreatedAt = time.Unix(0, createdAt).UTC()
	entry.Error = errVal.String
	entry.ErrorKind = errKind.String

	return &entry, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
