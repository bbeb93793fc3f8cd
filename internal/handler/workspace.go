package handler

import (
	"log/slog"
	"net/http"

	workspaceSvc "filetrack/internal/domain/services/workspace"
	"filetrack/internal/httputil"
)

// WorkspaceHandler handles project, chat and sub-chat HTTP requests
type WorkspaceHandler struct {
	projectService workspaceSvc.ProjectService
	chatService    workspaceSvc.ChatService
	logger         *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	projectService workspaceSvc.ProjectService,
	chatService workspaceSvc.ChatService,
	logger *slog.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		projectService: projectService,
		chatService:    chatService,
		logger:         logger,
	}
}

// CreateProject creates a new project
// POST /api/projects
func (h *WorkspaceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req workspaceSvc.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// ListProjects retrieves all projects
// GET /api/projects
func (h *WorkspaceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// GetProject retrieves a project by ID
// GET /api/projects/{id}
func (h *WorkspaceHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project and everything under it
// DELETE /api/projects/{id}
func (h *WorkspaceHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), projectID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateChat creates a chat in a project
// POST /api/projects/{id}/chats
func (h *WorkspaceHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req workspaceSvc.CreateChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ProjectID = projectID

	chat, err := h.chatService.CreateChat(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chat)
}

// ListChats retrieves all chats of a project
// GET /api/projects/{id}/chats
func (h *WorkspaceHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// GetChat retrieves a chat by ID
// GET /api/chats/{id}
func (h *WorkspaceHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(r.Context(), chatID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// DeleteChat deletes a chat with its sub-chats and change records
// DELETE /api/chats/{id}
func (h *WorkspaceHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), chatID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateSubChat creates a sub-chat in a chat
// POST /api/chats/{id}/sub-chats
func (h *WorkspaceHandler) CreateSubChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	var req workspaceSvc.CreateSubChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ChatID = chatID

	subChat, err := h.chatService.CreateSubChat(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, subChat)
}

// ListSubChats retrieves the sub-chats of a chat
// GET /api/chats/{id}/sub-chats
func (h *WorkspaceHandler) ListSubChats(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	subChats, err := h.chatService.ListSubChats(r.Context(), chatID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, subChats)
}

// DeleteSubChat deletes a sub-chat with its change records
// DELETE /api/sub-chats/{id}
func (h *WorkspaceHandler) DeleteSubChat(w http.ResponseWriter, r *http.Request) {
	subChatID, ok := PathParam(w, r, "id", "Sub-chat ID")
	if !ok {
		return
	}

	if err := h.chatService.DeleteSubChat(r.Context(), subChatID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
