package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)

	"humanlayer/hlyr/pkg/history"
)

// SQLite driver names.
const (
	DriverModernc = "sqlite"
	DriverCGO     = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is DriverModernc or DriverCGO.
	// Default: DriverModernc
	Driver string

	// Path is the database file path. Parent directories are created.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration for path.
func DefaultSQLiteConfig(path string) *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverModernc,
		Path:         path,
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements history.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database and creates the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil || config.Path == "" {
		return nil, history.NewStorageError("sqlite", "open", fmt.Errorf("database path is required"))
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverCGO {
		return nil, history.NewStorageError("sqlite", "open", fmt.Errorf("unknown driver %q", config.Driver))
	}

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, history.NewStorageError("sqlite", "open", err)
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "history.storage.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("history storage opened",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return history.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store persists a turn.
func (s *SQLiteStorage) Store(ctx context.Context, turn *history.Turn) error {
	const query = `
		INSERT INTO turns (
			id, session_id, timestamp_ns, active_provider, provider, model,
			stream, prompt, reply, error, latency_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		turn.ID, turn.SessionID, turn.Timestamp.UnixNano(), turn.ActiveProvider,
		nullable(turn.Provider), nullable(turn.Model),
		turn.Stream, turn.Prompt, nullable(turn.Reply), nullable(turn.Error),
		turn.Latency.Milliseconds(),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns the turns matching query.
func (s *SQLiteStorage) Query(ctx context.Context, query *history.Query) ([]*history.Turn, error) {
	where, args := buildWhereClause(query)

	sqlQuery := `SELECT id, session_id, timestamp_ns, active_provider, provider, model,
		stream, prompt, reply, error, latency_ms FROM turns` + where

	order := "DESC"
	if query.Ascending {
		order = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY timestamp_ns %s, rowid %s", order, order)

	switch {
	case query.Limit > 0:
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
	case query.Offset > 0:
		sqlQuery += " LIMIT -1"
	}
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	turns := []*history.Turn{}
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	return turns, nil
}

// Count returns the number of turns matching query.
func (s *SQLiteStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhereClause(query)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM turns"+where, args...).Scan(&count); err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes the turns matching query.
func (s *SQLiteStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhereClause(query)

	result, err := s.db.ExecContext(ctx, "DELETE FROM turns"+where, args...)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}
	return nil
}

// buildWhereClause returns " WHERE ..." (or "") and its arguments.
func buildWhereClause(query *history.Query) (string, []any) {
	var conditions []string
	var args []any

	if query.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, query.SessionID)
	}
	if query.Provider != "" {
		conditions = append(conditions, "(provider = ? OR active_provider = ?)")
		args = append(args, query.Provider, query.Provider)
	}
	if query.StartTime != nil {
		conditions = append(conditions, "timestamp_ns >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "timestamp_ns <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	switch query.Status {
	case history.StatusSuccess:
		conditions = append(conditions, "error IS NULL")
	case history.StatusError:
		conditions = append(conditions, "error IS NOT NULL")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanTurn(rows *sql.Rows) (*history.Turn, error) {
	var turn history.Turn
	var timestampNs, latencyMs int64
	var provider, model, reply, errMsg sql.NullString

	err := rows.Scan(
		&turn.ID, &turn.SessionID, &timestampNs, &turn.ActiveProvider, &provider, &model,
		&turn.Stream, &turn.Prompt, &reply, &errMsg, &latencyMs,
	)
	if err != nil {
		return nil, err
	}

	turn.Timestamp = time.Unix(0, timestampNs)
	turn.Latency = time.Duration(latencyMs) * time.Millisecond
	turn.Provider = provider.String
	turn.Model = model.String
	turn.Reply = reply.String
	turn.Error = errMsg.String
	return &turn, nil
}

// nullable stores an empty string as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
