package filechange

import (
	"time"
)

// FileSummary aggregates every record for one path in a project.
type FileSummary struct {
	FilePath      string        `json:"file_path"`
	Changes       int           `json:"changes"`
	LastOperation OperationType `json:"last_operation"`
	LastChangedAt time.Time     `json:"last_changed_at"`
	ChatIDs       []string      `json:"chat_ids"`
	Additions     int           `json:"additions"`
	Deletions     int           `json:"deletions"`
}

// WorkspaceSummary is the per-file rollup of a project's change history.
type WorkspaceSummary struct {
	ProjectID    string        `json:"project_id"`
	TotalChanges int           `json:"total_changes"`
	Files        []FileSummary `json:"files"`
}
