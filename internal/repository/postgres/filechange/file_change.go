package filechange

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/filechange"
	changeRepo "filetrack/internal/domain/repositories/filechange"
	"filetrack/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fileChangeColumns = `id, chat_id, sub_chat_id, project_id, operation_type, file_path, old_file_path,
	old_content, new_content, worktree_path, timestamp, source, session_id`

// PostgresFileChangeRepository implements FileChangeRepository using PostgreSQL
type PostgresFileChangeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFileChangeRepository creates a new PostgresFileChangeRepository
func NewFileChangeRepository(config *postgres.RepositoryConfig) changeRepo.FileChangeRepository {
	return &PostgresFileChangeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresFileChangeRepository) insertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.FileChanges, fileChangeColumns)
}

// Create inserts a single record
func (r *PostgresFileChangeRepository) Create(ctx context.Context, change *models.FileChange) error {
	prepare(change)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, r.insertQuery(), insertArgs(change)...); err != nil {
		return r.mapInsertError(change, err)
	}
	return nil
}

// CreateBatch inserts records in one round trip. Run it inside ExecTx for atomicity.
func (r *PostgresFileChangeRepository) CreateBatch(ctx context.Context, changes []models.FileChange) error {
	if len(changes) == 0 {
		return nil
	}

	query := r.insertQuery()
	batch := &pgx.Batch{}
	for i := range changes {
		prepare(&changes[i])
		batch.Queue(query, insertArgs(&changes[i])...)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	results := executor.SendBatch(ctx, batch)
	for i := range changes {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return r.mapInsertError(&changes[i], err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("close file change batch: %w", err)
	}
	return nil
}

// ListByChat retrieves all records for a chat in insertion order
func (r *PostgresFileChangeRepository) ListByChat(ctx context.Context, chatID string) ([]models.FileChange, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE chat_id = $1
		ORDER BY seq ASC
	`, fileChangeColumns, r.tables.FileChanges)

	return r.list(ctx, query, chatID)
}

// ListByProject retrieves all records for a project in insertion order
func (r *PostgresFileChangeRepository) ListByProject(ctx context.Context, projectID string) ([]models.FileChange, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1
		ORDER BY seq ASC
	`, fileChangeColumns, r.tables.FileChanges)

	return r.list(ctx, query, projectID)
}

func (r *PostgresFileChangeRepository) list(ctx context.Context, query string, arg string) ([]models.FileChange, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list file changes: %w", err)
	}
	defer rows.Close()

	changes := []models.FileChange{}
	for rows.Next() {
		var c models.FileChange
		if err := rows.Scan(
			&c.ID,
			&c.ChatID,
			&c.SubChatID,
			&c.ProjectID,
			&c.OperationType,
			&c.FilePath,
			&c.OldFilePath,
			&c.OldContent,
			&c.NewContent,
			&c.WorktreePath,
			&c.Timestamp,
			&c.Source,
			&c.SessionID,
		); err != nil {
			return nil, fmt.Errorf("scan file change: %w", err)
		}
		changes = append(changes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file changes: %w", err)
	}

	return changes, nil
}

func (r *PostgresFileChangeRepository) mapInsertError(change *models.FileChange, err error) error {
	switch {
	case postgres.IsPgForeignKeyError(err):
		return fmt.Errorf("file change %s references a missing parent (%s): %w",
			change.FilePath, postgres.ConstraintName(err), domain.ErrNotFound)
	case postgres.IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("file change %s already exists", change.ID),
			ResourceType: "file_change",
			ResourceID:   change.ID,
		}
	default:
		return fmt.Errorf("insert file change %s: %w", change.FilePath, err)
	}
}

// prepare fills the generated fields a caller may leave empty
func prepare(change *models.FileChange) {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now()
	}
}

func insertArgs(c *models.FileChange) []interface{} {
	return []interface{}{
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
		c.Timestamp,
		c.Source,
		c.SessionID,
	}
}
