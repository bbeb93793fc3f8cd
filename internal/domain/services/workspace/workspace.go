package workspace

import (
	"context"

	"filetrack/internal/domain/models/workspace"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// CreateChatRequest represents a request to create a chat
type CreateChatRequest struct {
	ProjectID    string  `json:"project_id"`
	Title        string  `json:"title"`
	WorktreePath *string `json:"worktree_path,omitempty"`
}

// CreateSubChatRequest represents a request to create a sub-chat
type CreateSubChatRequest struct {
	ChatID string `json:"chat_id"`
	Title  string `json:"title"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*workspace.Project, error)
	GetProject(ctx context.Context, id string) (*workspace.Project, error)
	ListProjects(ctx context.Context) ([]workspace.Project, error)

	// DeleteProject removes the project with all its chats and file changes
	DeleteProject(ctx context.Context, id string) error
}

// ChatService defines business logic operations for chats and sub-chats
type ChatService interface {
	CreateChat(ctx context.Context, req *CreateChatRequest) (*workspace.Chat, error)
	GetChat(ctx context.Context, id string) (*workspace.Chat, error)
	ListChats(ctx context.Context, projectID string) ([]workspace.Chat, error)
	DeleteChat(ctx context.Context, id string) error

	CreateSubChat(ctx context.Context, req *CreateSubChatRequest) (*workspace.SubChat, error)
	ListSubChats(ctx context.Context, chatID string) ([]workspace.SubChat, error)
	DeleteSubChat(ctx context.Context, id string) error
}
