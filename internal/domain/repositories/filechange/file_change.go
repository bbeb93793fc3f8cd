package filechange

import (
	"context"

	"filetrack/internal/domain/models/filechange"
)

// FileChangeRepository persists and reads file change records.
// Records are append-only: there is no update method.
type FileChangeRepository interface {
	// Create inserts one record. ID and Timestamp are filled when empty.
	// Returns domain.ErrNotFound if a referenced project, chat or sub-chat is missing.
	Create(ctx context.Context, change *filechange.FileChange) error

	// CreateBatch inserts records in order. Callers wanting atomicity run it
	// inside TransactionManager.ExecTx.
	CreateBatch(ctx context.Context, changes []filechange.FileChange) error

	// ListByChat returns every record for the chat (any sub-chat) in insertion order
	ListByChat(ctx context.Context, chatID string) ([]filechange.FileChange, error)

	// ListByProject returns every record for the project in insertion order
	ListByProject(ctx context.Context, projectID string) ([]filechange.FileChange, error)
}
