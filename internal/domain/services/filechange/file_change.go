package filechange

import (
	"context"
	"time"

	"filetrack/internal/domain/models/filechange"
)

// TrackMessagesRequest is one "messages saved" batch from the agent runtime
type TrackMessagesRequest struct {
	ChatID    string               `json:"chat_id"`
	SubChatID *string              `json:"sub_chat_id,omitempty"`
	SessionID *string              `json:"session_id,omitempty"`
	Messages  []filechange.Message `json:"messages"`
}

// TrackFileChangeRequest is a fully formed record for the direct write path.
// ProjectID may be omitted when ChatID is given; it is then resolved via the chat.
type TrackFileChangeRequest struct {
	ChatID        *string                  `json:"chat_id,omitempty"`
	SubChatID     *string                  `json:"sub_chat_id,omitempty"`
	ProjectID     string                   `json:"project_id"`
	OperationType filechange.OperationType `json:"operation_type"`
	FilePath      string                   `json:"file_path"`
	OldFilePath   *string                  `json:"old_file_path,omitempty"`
	OldContent    *string                  `json:"old_content,omitempty"`
	NewContent    *string                  `json:"new_content,omitempty"`
	WorktreePath  *string                  `json:"worktree_path,omitempty"`
	Timestamp     *time.Time               `json:"timestamp,omitempty"`
	Source        string                   `json:"source"`
	SessionID     *string                  `json:"session_id,omitempty"`
}

// TrackResult reports what one batch produced. A batch never fails the caller;
// SkipReason explains why nothing was written when Dropped is true.
type TrackResult struct {
	Records       []filechange.FileChange `json:"records"`
	EventCount    int                     `json:"event_count"`
	ElidedCount   int                     `json:"elided_count"`
	SkippedEvents int                     `json:"skipped_events"`
	Dropped       bool                    `json:"dropped"`
	SkipReason    string                  `json:"skip_reason,omitempty"`
	Err           error                   `json:"-"`
}

// FileChangeService is the public surface of the change tracking engine
type FileChangeService interface {
	// TrackFileChangesFromMessages reconciles a batch of messages into net change
	// records and persists them atomically. Failures are logged, never returned.
	TrackFileChangesFromMessages(ctx context.Context, req *TrackMessagesRequest) *TrackResult

	// TrackFileChange persists one record as-is. Errors propagate to the caller.
	TrackFileChange(ctx context.Context, req *TrackFileChangeRequest) (*filechange.FileChange, error)

	// GetCurrentChatChanges returns every record for the chat in insertion order
	GetCurrentChatChanges(ctx context.Context, chatID string) ([]filechange.FileChange, error)

	// GetWorkspaceChanges returns every record for the project across all chats
	GetWorkspaceChanges(ctx context.Context, projectID string) ([]filechange.FileChange, error)

	// SummarizeWorkspace rolls up the project's records per file path
	SummarizeWorkspace(ctx context.Context, projectID string) (*filechange.WorkspaceSummary, error)
}
