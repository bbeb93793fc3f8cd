package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/filechange"
	changeRepo "filetrack/internal/domain/repositories/filechange"

	"github.com/google/uuid"
)

const insertFileChange = `
	INSERT INTO file_changes (id, chat_id, sub_chat_id, project_id, operation_type, file_path,
		old_file_path, old_content, new_content, worktree_path, timestamp, source, session_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectFileChanges = `
	SELECT id, chat_id, sub_chat_id, project_id, operation_type, file_path,
		old_file_path, old_content, new_content, worktree_path, timestamp, source, session_id
	FROM file_changes`

// SQLiteFileChangeRepository implements FileChangeRepository using SQLite
type SQLiteFileChangeRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFileChangeRepository creates a new SQLiteFileChangeRepository
func NewFileChangeRepository(config *RepositoryConfig) changeRepo.FileChangeRepository {
	return &SQLiteFileChangeRepository{db: config.DB, logger: config.Logger}
}

// Create inserts a single record
func (r *SQLiteFileChangeRepository) Create(ctx context.Context, change *models.FileChange) error {
	return r.insert(ctx, GetExecutor(ctx, r.db), change)
}

// CreateBatch inserts records in order. Run it inside ExecTx for atomicity.
func (r *SQLiteFileChangeRepository) CreateBatch(ctx context.Context, changes []models.FileChange) error {
	executor := GetExecutor(ctx, r.db)
	for i := range changes {
		if err := r.insert(ctx, executor, &changes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteFileChangeRepository) insert(ctx context.Context, executor DBTX, c *models.FileChange) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	_, err := executor.ExecContext(ctx, insertFileChange,
		c.ID,
		c.ChatID,
		c.SubChatID,
		c.ProjectID,
		string(c.OperationType),
		c.FilePath,
		c.OldFilePath,
		c.OldContent,
		c.NewContent,
		c.WorktreePath,
		formatTime(c.Timestamp),
		c.Source,
		c.SessionID,
	)
	if err != nil {
		switch {
		case IsForeignKeyError(err):
			return fmt.Errorf("file change %s references a missing parent: %w", c.FilePath, domain.ErrNotFound)
		case IsDuplicateError(err):
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file change %s already exists", c.ID),
				ResourceType: "file_change",
				ResourceID:   c.ID,
			}
		default:
			return fmt.Errorf("insert file change %s: %w", c.FilePath, err)
		}
	}
	return nil
}

// ListByChat retrieves all records for a chat in insertion order
func (r *SQLiteFileChangeRepository) ListByChat(ctx context.Context, chatID string) ([]models.FileChange, error) {
	return r.list(ctx, selectFileChanges+` WHERE chat_id = ? ORDER BY seq ASC`, chatID)
}

// ListByProject retrieves all records for a project in insertion order
func (r *SQLiteFileChangeRepository) ListByProject(ctx context.Context, projectID string) ([]models.FileChange, error) {
	return r.list(ctx, selectFileChanges+` WHERE project_id = ? ORDER BY seq ASC`, projectID)
}

func (r *SQLiteFileChangeRepository) list(ctx context.Context, query, arg string) ([]models.FileChange, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list file changes: %w", err)
	}
	defer rows.Close()

	changes := []models.FileChange{}
	for rows.Next() {
		var (
			c                                models.FileChange
			chatID, subChatID, oldPath       sql.NullString
			oldContent, newContent, worktree sql.NullString
			sessionID                        sql.NullString
			timestamp                        string
		)
		if err := rows.Scan(
			&c.ID,
			&chatID,
			&subChatID,
			&c.ProjectID,
			&c.OperationType,
			&c.FilePath,
			&oldPath,
			&oldContent,
			&newContent,
			&worktree,
			&timestamp,
			&c.Source,
			&sessionID,
		); err != nil {
			return nil, fmt.Errorf("scan file change: %w", err)
		}

		c.ChatID = nullable(chatID)
		c.SubChatID = nullable(subChatID)
		c.OldFilePath = nullable(oldPath)
		c.OldContent = nullable(oldContent)
		c.NewContent = nullable(newContent)
		c.WorktreePath = nullable(worktree)
		c.SessionID = nullable(sessionID)
		if c.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, err
		}

		changes = append(changes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file changes: %w", err)
	}
	return changes, nil
}
