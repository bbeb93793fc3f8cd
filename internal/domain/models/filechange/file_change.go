package filechange

import (
	"time"
)

// OperationType is the kind of mutation a record describes
type OperationType string

// Operation type constants
const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
	OperationRename OperationType = "rename"
)

// Valid reports whether op is one of the known operation types
func (op OperationType) Valid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete, OperationRename:
		return true
	}
	return false
}

// Source constants (provenance of a record)
const (
	SourceToolWrite   = "tool-write"
	SourceToolEdit    = "tool-edit"
	SourceToolRename  = "tool-rename"
	SourceToolDelete  = "tool-delete"
	SourceManual      = "manual"
	SourceFileWatcher = "file-watcher"
)

// FileChange is one persisted, immutable audit record of a file mutation.
//
// Invariants:
//   - ProjectID is always set
//   - create: OldContent is nil, NewContent is set
//   - delete: NewContent is nil
//   - rename: OldFilePath is set and FilePath is the new path
//
// Records are only removed by cascade when their chat, sub-chat or project is deleted.
type FileChange struct {
	ID            string        `json:"id" db:"id"`
	ChatID        *string       `json:"chat_id,omitempty" db:"chat_id"`
	SubChatID     *string       `json:"sub_chat_id,omitempty" db:"sub_chat_id"`
	ProjectID     string        `json:"project_id" db:"project_id"`
	OperationType OperationType `json:"operation_type" db:"operation_type"`
	FilePath      string        `json:"file_path" db:"file_path"`
	OldFilePath   *string       `json:"old_file_path,omitempty" db:"old_file_path"`
	OldContent    *string       `json:"old_content,omitempty" db:"old_content"`
	NewContent    *string       `json:"new_content,omitempty" db:"new_content"`
	WorktreePath  *string       `json:"worktree_path,omitempty" db:"worktree_path"`
	Timestamp     time.Time     `json:"timestamp" db:"timestamp"`
	Source        string        `json:"source" db:"source"`
	SessionID     *string       `json:"session_id,omitempty" db:"session_id"`
}
