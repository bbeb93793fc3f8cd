package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables and indexes if they don't exist
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				path       TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            TEXT PRIMARY KEY,
				project_id    TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title         TEXT NOT NULL DEFAULT '',
				worktree_path TEXT,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Chats, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				chat_id    TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title      TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.SubChats, tables.Chats),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq            BIGINT GENERATED ALWAYS AS IDENTITY,
				id             TEXT PRIMARY KEY,
				chat_id        TEXT REFERENCES %s(id) ON DELETE CASCADE,
				sub_chat_id    TEXT REFERENCES %s(id) ON DELETE CASCADE,
				project_id     TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				operation_type TEXT NOT NULL CHECK (operation_type IN ('create', 'update', 'delete', 'rename')),
				file_path      TEXT NOT NULL,
				old_file_path  TEXT,
				old_content    TEXT,
				new_content    TEXT,
				worktree_path  TEXT,
				timestamp      TIMESTAMPTZ NOT NULL,
				source         TEXT NOT NULL,
				session_id     TEXT
			)`, tables.FileChanges, tables.Chats, tables.SubChats, tables.Projects),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_chat ON %[1]s(chat_id, seq)`, tables.FileChanges),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_project ON %[1]s(project_id, seq)`, tables.FileChanges),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_project ON %[1]s(project_id)`, tables.Chats),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
