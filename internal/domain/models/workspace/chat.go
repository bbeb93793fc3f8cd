package workspace

import (
	"time"
)

// Chat represents a conversation within a project.
// WorktreePath is set when the chat runs in an isolated checkout.
type Chat struct {
	ID           string    `json:"id" db:"id"`
	ProjectID    string    `json:"project_id" db:"project_id"`
	Title        string    `json:"title" db:"title"`
	WorktreePath *string   `json:"worktree_path,omitempty" db:"worktree_path"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SubChat is a branch of a chat (one agent conversation thread).
type SubChat struct {
	ID        string    `json:"id" db:"id"`
	ChatID    string    `json:"chat_id" db:"chat_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
