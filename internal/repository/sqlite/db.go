package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"filetrack/internal/domain/repositories"

	// pure-Go driver, registers "sqlite"
	_ "modernc.org/sqlite"
)

// DBTX is implemented by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// GetExecutor returns the transaction stored in ctx, or db when there is none
func GetExecutor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := repositories.TxFrom[*sql.Tx](ctx); ok && tx != nil {
		return tx
	}
	return db
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
//
// The pool is capped at one connection: SQLite allows a single writer, and an
// in-memory database only lives as long as its connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// currentSchemaVersion is bumped with every new migration
const currentSchemaVersion = 1

// Migrate applies pending schema migrations
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return fmt.Errorf("check schema version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(ctx, db); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	return nil
}

func migrateToV1(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`CREATE TABLE projects (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			path       TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE chats (
			id            TEXT PRIMARY KEY,
			project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title         TEXT NOT NULL DEFAULT '',
			worktree_path TEXT,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
		`CREATE INDEX idx_chats_project ON chats(project_id)`,
		`CREATE TABLE sub_chats (
			id         TEXT PRIMARY KEY,
			chat_id    TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
			title      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE file_changes (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			id             TEXT NOT NULL UNIQUE,
			chat_id        TEXT REFERENCES chats(id) ON DELETE CASCADE,
			sub_chat_id    TEXT REFERENCES sub_chats(id) ON DELETE CASCADE,
			project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			operation_type TEXT NOT NULL CHECK (operation_type IN ('create', 'update', 'delete', 'rename')),
			file_path      TEXT NOT NULL,
			old_file_path  TEXT,
			old_content    TEXT,
			new_content    TEXT,
			worktree_path  TEXT,
			timestamp      TEXT NOT NULL,
			source         TEXT NOT NULL,
			session_id     TEXT
		)`,
		`CREATE INDEX idx_file_changes_chat ON file_changes(chat_id, seq)`,
		`CREATE INDEX idx_file_changes_project ON file_changes(project_id, seq)`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
		currentSchemaVersion, formatTime(time.Now()),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Timestamps are stored as RFC 3339 text in UTC
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
