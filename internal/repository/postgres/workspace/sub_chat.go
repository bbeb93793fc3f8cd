package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/workspace"
	workspaceRepo "filetrack/internal/domain/repositories/workspace"
	"filetrack/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubChatRepository implements SubChatRepository using PostgreSQL
type PostgresSubChatRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewSubChatRepository creates a new PostgresSubChatRepository
func NewSubChatRepository(config *postgres.RepositoryConfig) workspaceRepo.SubChatRepository {
	return &PostgresSubChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new sub-chat
func (r *PostgresSubChatRepository) Create(ctx context.Context, subChat *models.SubChat) error {
	if subChat.ID == "" {
		subChat.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, chat_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.SubChats)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		subChat.ID,
		subChat.ChatID,
		subChat.Title,
		subChat.CreatedAt,
		subChat.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{ResourceType: "chat", ResourceID: subChat.ChatID}
		}
		return fmt.Errorf("create sub-chat: %w", err)
	}

	return nil
}

// GetByID retrieves a sub-chat by ID
func (r *PostgresSubChatRepository) GetByID(ctx context.Context, id string) (*models.SubChat, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_id, title, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.SubChats)

	var subChat models.SubChat
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&subChat.ID,
		&subChat.ChatID,
		&subChat.Title,
		&subChat.CreatedAt,
		&subChat.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{ResourceType: "sub-chat", ResourceID: id}
		}
		return nil, fmt.Errorf("get sub-chat: %w", err)
	}

	return &subChat, nil
}

// ListByChat retrieves all sub-chats of a chat
func (r *PostgresSubChatRepository) ListByChat(ctx context.Context, chatID string) ([]models.SubChat, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_id, title, created_at, updated_at
		FROM %s
		WHERE chat_id = $1
		ORDER BY created_at ASC
	`, r.tables.SubChats)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list sub-chats: %w", err)
	}
	defer rows.Close()

	subChats := []models.SubChat{}
	for rows.Next() {
		var subChat models.SubChat
		if err := rows.Scan(
			&subChat.ID,
			&subChat.ChatID,
			&subChat.Title,
			&subChat.CreatedAt,
			&subChat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sub-chat: %w", err)
		}
		subChats = append(subChats, subChat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sub-chats: %w", err)
	}

	return subChats, nil
}

// Delete removes a sub-chat; its file changes cascade
func (r *PostgresSubChatRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.SubChats)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete sub-chat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{ResourceType: "sub-chat", ResourceID: id}
	}

	return nil
}
