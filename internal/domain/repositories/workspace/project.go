package workspace

import (
	"context"

	"filetrack/internal/domain/models/workspace"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a project, filling ID when empty
	Create(ctx context.Context, project *workspace.Project) error

	// GetByID returns domain.ErrNotFound if the project does not exist
	GetByID(ctx context.Context, id string) (*workspace.Project, error)

	// List returns all projects, newest first (empty slice if none)
	List(ctx context.Context) ([]workspace.Project, error)

	// Delete removes a project and cascades to its chats, sub-chats and file changes
	Delete(ctx context.Context, id string) error
}
