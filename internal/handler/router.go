package handler

import (
	"net/http"
)

// NewRouter registers every route on a Go 1.22+ pattern mux
func NewRouter(workspace *WorkspaceHandler, changes *FileChangeHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)

	// Project routes
	mux.HandleFunc("POST /api/projects", workspace.CreateProject)
	mux.HandleFunc("GET /api/projects", workspace.ListProjects)
	mux.HandleFunc("GET /api/projects/{id}", workspace.GetProject)
	mux.HandleFunc("DELETE /api/projects/{id}", workspace.DeleteProject)

	// Chat routes
	mux.HandleFunc("POST /api/projects/{id}/chats", workspace.CreateChat)
	mux.HandleFunc("GET /api/projects/{id}/chats", workspace.ListChats)
	mux.HandleFunc("GET /api/chats/{id}", workspace.GetChat)
	mux.HandleFunc("DELETE /api/chats/{id}", workspace.DeleteChat)
	mux.HandleFunc("POST /api/chats/{id}/sub-chats", workspace.CreateSubChat)
	mux.HandleFunc("GET /api/chats/{id}/sub-chats", workspace.ListSubChats)
	mux.HandleFunc("DELETE /api/sub-chats/{id}", workspace.DeleteSubChat)

	// File change routes
	mux.HandleFunc("POST /api/chats/{id}/messages", changes.TrackMessages)
	mux.HandleFunc("POST /api/file-changes", changes.TrackFileChange)
	mux.HandleFunc("GET /api/chats/{id}/file-changes", changes.GetChatChanges)
	mux.HandleFunc("GET /api/projects/{id}/file-changes", changes.GetWorkspaceChanges)
	mux.HandleFunc("GET /api/projects/{id}/file-changes/summary", changes.GetWorkspaceSummary)

	return mux
}
