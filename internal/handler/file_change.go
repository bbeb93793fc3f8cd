package handler

import (
	"log/slog"
	"net/http"

	changeSvc "filetrack/internal/domain/services/filechange"
	"filetrack/internal/httputil"
)

// FileChangeHandler exposes the change tracking engine over HTTP
type FileChangeHandler struct {
	changeService changeSvc.FileChangeService
	logger        *slog.Logger
}

// NewFileChangeHandler creates a new file change handler
func NewFileChangeHandler(changeService changeSvc.FileChangeService, logger *slog.Logger) *FileChangeHandler {
	return &FileChangeHandler{
		changeService: changeService,
		logger:        logger,
	}
}

// TrackMessages reconciles a saved batch of chat messages
// POST /api/chats/{id}/messages
// Always 202: a lost batch is reported in the body, never as an error status
func (h *FileChangeHandler) TrackMessages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	var req changeSvc.TrackMessagesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ChatID = chatID

	result := h.changeService.TrackFileChangesFromMessages(r.Context(), &req)
	httputil.RespondJSON(w, http.StatusAccepted, result)
}

// TrackFileChange records one manual or watcher-observed change
// POST /api/file-changes
func (h *FileChangeHandler) TrackFileChange(w http.ResponseWriter, r *http.Request) {
	var req changeSvc.TrackFileChangeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	change, err := h.changeService.TrackFileChange(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, change)
}

// GetChatChanges lists the records of one chat
// GET /api/chats/{id}/file-changes
func (h *FileChangeHandler) GetChatChanges(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	changes, err := h.changeService.GetCurrentChatChanges(r.Context(), chatID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, changes)
}

// GetWorkspaceChanges lists the records of every chat in a project
// GET /api/projects/{id}/file-changes
func (h *FileChangeHandler) GetWorkspaceChanges(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	changes, err := h.changeService.GetWorkspaceChanges(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, changes)
}

// GetWorkspaceSummary rolls up a project's records per file
// GET /api/projects/{id}/file-changes/summary
func (h *FileChangeHandler) GetWorkspaceSummary(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	summary, err := h.changeService.SummarizeWorkspace(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}
