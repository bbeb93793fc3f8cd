package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/workspace"
	workspaceRepo "filetrack/internal/domain/repositories/workspace"

	"github.com/google/uuid"
)

// SQLiteProjectRepository implements ProjectRepository using SQLite
type SQLiteProjectRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewProjectRepository creates a new SQLiteProjectRepository
func NewProjectRepository(config *RepositoryConfig) workspaceRepo.ProjectRepository {
	return &SQLiteProjectRepository{db: config.DB, logger: config.Logger}
}

// Create inserts a new project
func (r *SQLiteProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO projects (id, name, path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		project.ID,
		project.Name,
		project.Path,
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
	)
	if err != nil {
		if IsDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project %s already exists", project.ID),
				ResourceType: "project",
				ResourceID:   project.ID,
			}
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *SQLiteProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := GetExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, name, path, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{ResourceType: "project", ResourceID: id}
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// List retrieves all projects
func (r *SQLiteProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, path, created_at, updated_at
		FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// Delete removes a project; chats, sub-chats and file changes cascade
func (r *SQLiteProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "projects", "project", id)
}

// SQLiteChatRepository implements ChatRepository using SQLite
type SQLiteChatRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewChatRepository creates a new SQLiteChatRepository
func NewChatRepository(config *RepositoryConfig) workspaceRepo.ChatRepository {
	return &SQLiteChatRepository{db: config.DB, logger: config.Logger}
}

// Create inserts a new chat
func (r *SQLiteChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO chats (id, project_id, title, worktree_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		chat.ID,
		chat.ProjectID,
		chat.Title,
		chat.WorktreePath,
		formatTime(chat.CreatedAt),
		formatTime(chat.UpdatedAt),
	)
	if err != nil {
		if IsForeignKeyError(err) {
			return &domain.NotFoundError{ResourceType: "project", ResourceID: chat.ProjectID}
		}
		if IsDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("chat %s already exists", chat.ID),
				ResourceType: "chat",
				ResourceID:   chat.ID,
			}
		}
		return fmt.Errorf("create chat: %w", err)
	}
	return nil
}

// GetByID retrieves a chat by ID
func (r *SQLiteChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	row := GetExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, project_id, title, worktree_path, created_at, updated_at
		FROM chats WHERE id = ?`, id)

	chat, err := scanChat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{ResourceType: "chat", ResourceID: id}
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return chat, nil
}

// ListByProject retrieves all chats for a project
func (r *SQLiteChatRepository) ListByProject(ctx context.Context, projectID string) ([]models.Chat, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT id, project_id, title, worktree_path, created_at, updated_at
		FROM chats WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := []models.Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, nil
}

// Delete removes a chat; sub-chats and file changes cascade
func (r *SQLiteChatRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "chats", "chat", id)
}

// SQLiteSubChatRepository implements SubChatRepository using SQLite
type SQLiteSubChatRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSubChatRepository creates a new SQLiteSubChatRepository
func NewSubChatRepository(config *RepositoryConfig) workspaceRepo.SubChatRepository {
	return &SQLiteSubChatRepository{db: config.DB, logger: config.Logger}
}

// Create inserts a new sub-chat
func (r *SQLiteSubChatRepository) Create(ctx context.Context, subChat *models.SubChat) error {
	if subChat.ID == "" {
		subChat.ID = uuid.NewString()
	}

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO sub_chats (id, chat_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		subChat.ID,
		subChat.ChatID,
		subChat.Title,
		formatTime(subChat.CreatedAt),
		formatTime(subChat.UpdatedAt),
	)
	if err != nil {
		if IsForeignKeyError(err) {
			return &domain.NotFoundError{ResourceType: "chat", ResourceID: subChat.ChatID}
		}
		return fmt.Errorf("create sub-chat: %w", err)
	}
	return nil
}

// GetByID retrieves a sub-chat by ID
func (r *SQLiteSubChatRepository) GetByID(ctx context.Context, id string) (*models.SubChat, error) {
	row := GetExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, chat_id, title, created_at, updated_at
		FROM sub_chats WHERE id = ?`, id)

	subChat, err := scanSubChat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{ResourceType: "sub-chat", ResourceID: id}
		}
		return nil, fmt.Errorf("get sub-chat: %w", err)
	}
	return subChat, nil
}

// ListByChat retrieves all sub-chats of a chat
func (r *SQLiteSubChatRepository) ListByChat(ctx context.Context, chatID string) ([]models.SubChat, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT id, chat_id, title, created_at, updated_at
		FROM sub_chats WHERE chat_id = ? ORDER BY created_at ASC`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list sub-chats: %w", err)
	}
	defer rows.Close()

	subChats := []models.SubChat{}
	for rows.Next() {
		subChat, err := scanSubChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sub-chat: %w", err)
		}
		subChats = append(subChats, *subChat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sub-chats: %w", err)
	}
	return subChats, nil
}

// Delete removes a sub-chat; its file changes cascade
func (r *SQLiteSubChatRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "sub_chats", "sub-chat", id)
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(s scanner) (*models.Project, error) {
	var (
		p                    models.Project
		createdAt, updatedAt string
		err                  error
	)
	if err = s.Scan(&p.ID, &p.Name, &p.Path, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanChat(s scanner) (*models.Chat, error) {
	var (
		c                    models.Chat
		worktree             sql.NullString
		createdAt, updatedAt string
		err                  error
	)
	if err = s.Scan(&c.ID, &c.ProjectID, &c.Title, &worktree, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.WorktreePath = nullable(worktree)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanSubChat(s scanner) (*models.SubChat, error) {
	var (
		sc                   models.SubChat
		createdAt, updatedAt string
		err                  error
	)
	if err = s.Scan(&sc.ID, &sc.ChatID, &sc.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if sc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sc, nil
}

// deleteByID deletes one row, returning NotFoundError when nothing matched.
// table is always a package constant.
func deleteByID(ctx context.Context, db *sql.DB, table, resource, id string) error {
	result, err := GetExecutor(ctx, db).ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if n == 0 {
		return &domain.NotFoundError{ResourceType: resource, ResourceID: id}
	}
	return nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
