package workspace

import (
	"context"

	"filetrack/internal/domain/models/workspace"
)

// ChatRepository defines data access operations for chats
type ChatRepository interface {
	// Create inserts a chat. Returns domain.ErrNotFound if the project does not exist
	Create(ctx context.Context, chat *workspace.Chat) error

	// GetByID returns domain.ErrNotFound if the chat does not exist
	GetByID(ctx context.Context, id string) (*workspace.Chat, error)

	// ListByProject returns the project's chats, newest first
	ListByProject(ctx context.Context, projectID string) ([]workspace.Chat, error)

	// Delete removes a chat and cascades to its sub-chats and file changes
	Delete(ctx context.Context, id string) error
}

// SubChatRepository defines data access operations for sub-chats
type SubChatRepository interface {
	// Create inserts a sub-chat. Returns domain.ErrNotFound if the chat does not exist
	Create(ctx context.Context, subChat *workspace.SubChat) error

	// GetByID returns domain.ErrNotFound if the sub-chat does not exist
	GetByID(ctx context.Context, id string) (*workspace.SubChat, error)

	// ListByChat returns the chat's sub-chats, oldest first
	ListByChat(ctx context.Context, chatID string) ([]workspace.SubChat, error)

	// Delete removes a sub-chat and cascades to its file changes
	Delete(ctx context.Context, id string) error
}
