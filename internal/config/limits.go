package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	MaxProjectNameLength = 255

	// MaxChatTitleLength is the maximum length for chat and sub-chat titles.
	MaxChatTitleLength = 255

	// MaxFilePathLength bounds file_path, old_file_path and worktree_path.
	// Matches PATH_MAX on Linux.
	MaxFilePathLength = 4096

	// MaxSourceLength bounds the provenance tag of a file change.
	MaxSourceLength = 64

	// MaxSessionIDLength bounds agent session identifiers.
	MaxSessionIDLength = 255
)
