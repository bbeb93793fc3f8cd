package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"filetrack/internal/config"
	models "filetrack/internal/domain/models/filechange"
	"filetrack/internal/domain/models/workspace"
	changeSvc "filetrack/internal/domain/services/filechange"
	"filetrack/internal/service"
)

// newTestServer wires the full stack on an in-memory SQLite store
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{StoreDriver: config.StoreSQLite, SQLitePath: ":memory:"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repos, closeStore, err := service.OpenRepositories(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("OpenRepositories() error = %v", err)
	}
	t.Cleanup(closeStore)

	services, err := service.SetupServices(repos, cfg, logger)
	if err != nil {
		t.Fatalf("SetupServices() error = %v", err)
	}

	router := NewRouter(
		NewWorkspaceHandler(services.Projects, services.Chats, logger),
		NewFileChangeHandler(services.FileChanges, logger),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestFileChangeFlow(t *testing.T) {
	srv := newTestServer(t)

	var project workspace.Project
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/projects", map[string]string{"name": "app", "path": "/src/app"}, &project); status != http.StatusCreated {
		t.Fatalf("create project status = %d", status)
	}

	var chatA, chatB workspace.Chat
	for _, c := range []*workspace.Chat{&chatA, &chatB} {
		if status := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+project.ID+"/chats", map[string]string{"title": "chat"}, c); status != http.StatusCreated {
			t.Fatalf("create chat status = %d", status)
		}
	}

	messages := func(path string) changeSvc.TrackMessagesRequest {
		return changeSvc.TrackMessagesRequest{Messages: []models.Message{{
			Role: models.RoleAssistant,
			Parts: []models.Part{
				{Type: "tool-Write", Input: &models.PartInput{FilePath: path, Content: "hello"}},
				{Type: "tool-Write", Input: &models.PartInput{FilePath: ".claude/plans/plan.md", Content: "plan"}},
			},
		}}}
	}

	var result changeSvc.TrackResult
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/chats/"+chatA.ID+"/messages", messages("a.ts"), &result); status != http.StatusAccepted {
		t.Fatalf("track status = %d", status)
	}
	if len(result.Records) != 1 || result.SkippedEvents != 1 {
		t.Errorf("result = %+v", result)
	}
	doJSON(t, http.MethodPost, srv.URL+"/api/chats/"+chatB.ID+"/messages", messages("b.ts"), nil)

	var all []models.FileChange
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+project.ID+"/file-changes", nil, &all); status != http.StatusOK {
		t.Fatalf("workspace changes status = %d", status)
	}
	if len(all) != 2 {
		t.Errorf("workspace changes = %d, want 2", len(all))
	}

	var own []models.FileChange
	doJSON(t, http.MethodGet, srv.URL+"/api/chats/"+chatA.ID+"/file-changes", nil, &own)
	if len(own) != 1 || own[0].FilePath != "a.ts" || own[0].OperationType != models.OperationCreate {
		t.Errorf("chat changes = %+v", own)
	}

	var summary models.WorkspaceSummary
	doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+project.ID+"/file-changes/summary", nil, &summary)
	if summary.TotalChanges != 2 || len(summary.Files) != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestTrackMessagesUnknownChatIsAccepted(t *testing.T) {
	srv := newTestServer(t)

	body := changeSvc.TrackMessagesRequest{Messages: []models.Message{{
		Role:  models.RoleAssistant,
		Parts: []models.Part{{Type: "tool-Write", Input: &models.PartInput{FilePath: "a.ts", Content: "x"}}},
	}}}

	var result changeSvc.TrackResult
	status := doJSON(t, http.MethodPost, srv.URL+"/api/chats/missing/messages", body, &result)
	if status != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", status)
	}
	if !result.Dropped || result.SkipReason == "" {
		t.Errorf("result = %+v, want dropped batch", result)
	}
}

func TestTrackFileChangeErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "validation failure",
			body:       map[string]interface{}{"project_id": "p", "operation_type": "create", "file_path": "a.ts", "source": "manual"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown project",
			body:       map[string]interface{}{"project_id": "missing", "operation_type": "delete", "file_path": "a.ts", "source": "manual"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown chat",
			body:       map[string]interface{}{"chat_id": "missing", "operation_type": "delete", "file_path": "a.ts", "source": "manual"},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var problem map[string]interface{}
			status := doJSON(t, http.MethodPost, srv.URL+"/api/file-changes", tt.body, &problem)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d (%v)", status, tt.wantStatus, problem)
			}
			if problem["status"] != float64(tt.wantStatus) {
				t.Errorf("problem status = %v", problem["status"])
			}
		})
	}
}

func TestWorkspaceNotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, url := range []string{"/api/projects/missing", "/api/chats/missing"} {
		if status := doJSON(t, http.MethodGet, srv.URL+url, nil, nil); status != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", url, status)
		}
	}
	if status := doJSON(t, http.MethodDelete, srv.URL+"/api/sub-chats/missing", nil, nil); status != http.StatusNotFound {
		t.Errorf("DELETE sub-chat status = %d, want 404", status)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
