package filechange

import (
	"context"
	"errors"
	"testing"
	"time"

	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/filechange"
	"filetrack/internal/domain/models/workspace"
	"filetrack/internal/domain/repositories"
	changeSvc "filetrack/internal/domain/services/filechange"
)

// memoryChangeRepo is an in-memory FileChangeRepository.
// failOn makes CreateBatch fail when it reaches that index.
type memoryChangeRepo struct {
	records []models.FileChange
	failOn  int
	err     error
}

func newMemoryChangeRepo() *memoryChangeRepo {
	return &memoryChangeRepo{failOn: -1}
}

func (r *memoryChangeRepo) Create(_ context.Context, change *models.FileChange) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, *change)
	return nil
}

func (r *memoryChangeRepo) CreateBatch(_ context.Context, changes []models.FileChange) error {
	for i, c := range changes {
		if i == r.failOn {
			return errors.New("disk I/O error")
		}
		r.records = append(r.records, c)
	}
	return nil
}

func (r *memoryChangeRepo) ListByChat(_ context.Context, chatID string) ([]models.FileChange, error) {
	out := []models.FileChange{}
	for _, c := range r.records {
		if c.ChatID != nil && *c.ChatID == chatID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryChangeRepo) ListByProject(_ context.Context, projectID string) ([]models.FileChange, error) {
	out := []models.FileChange{}
	for _, c := range r.records {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

// memoryTxManager discards records appended by a failed fn
type memoryTxManager struct {
	repo *memoryChangeRepo
}

func (m *memoryTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	before := len(m.repo.records)
	if err := fn(ctx); err != nil {
		m.repo.records = m.repo.records[:before]
		return err
	}
	return nil
}

type memoryChatRepo struct {
	chats map[string]*workspace.Chat
}

func (r *memoryChatRepo) Create(_ context.Context, chat *workspace.Chat) error {
	r.chats[chat.ID] = chat
	return nil
}

func (r *memoryChatRepo) GetByID(_ context.Context, id string) (*workspace.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, &domain.NotFoundError{ResourceType: "chat", ResourceID: id}
	}
	return chat, nil
}

func (r *memoryChatRepo) ListByProject(_ context.Context, projectID string) ([]workspace.Chat, error) {
	var out []workspace.Chat
	for _, c := range r.chats {
		if c.ProjectID == projectID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) Delete(_ context.Context, id string) error {
	delete(r.chats, id)
	return nil
}

type serviceFixture struct {
	svc     changeSvc.FileChangeService
	changes *memoryChangeRepo
	chats   *memoryChatRepo
	now     time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	changes := newMemoryChangeRepo()
	worktree := "/worktrees/chat-1"
	chats := &memoryChatRepo{chats: map[string]*workspace.Chat{
		"chat-1": {ID: "chat-1", ProjectID: "proj-1", WorktreePath: &worktree},
		"chat-2": {ID: "chat-2", ProjectID: "proj-1"},
		"chat-3": {ID: "chat-3", ProjectID: "proj-2"},
	}}

	svc := NewFileChangeService(changes, chats, &memoryTxManager{repo: changes}, newTestIngestor(t), discardLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.(*fileChangeService).now = func() time.Time { return now }

	return &serviceFixture{svc: svc, changes: changes, chats: chats, now: now}
}

func (f *serviceFixture) track(chatID string, subChatID *string, messages ...models.Message) *changeSvc.TrackResult {
	return f.svc.TrackFileChangesFromMessages(context.Background(), &changeSvc.TrackMessagesRequest{
		ChatID:    chatID,
		SubChatID: subChatID,
		Messages:  messages,
	})
}

func TestTrackFileChangesFromMessages_CreateRecord(t *testing.T) {
	f := newServiceFixture(t)
	session := "sess-1"
	sub := "sub-1"

	result := f.svc.TrackFileChangesFromMessages(context.Background(), &changeSvc.TrackMessagesRequest{
		ChatID:    "chat-1",
		SubChatID: &sub,
		SessionID: &session,
		Messages:  []models.Message{assistant(writePart("a.ts", "hello"))},
	})

	if result.Dropped {
		t.Fatalf("batch dropped: %s", result.SkipReason)
	}
	if len(f.changes.records) != 1 {
		t.Fatalf("stored %d records, want 1", len(f.changes.records))
	}

	rec := f.changes.records[0]
	if rec.ID == "" {
		t.Error("record has no id")
	}
	if rec.OperationType != models.OperationCreate || rec.FilePath != "a.ts" {
		t.Errorf("record = %s %s", rec.OperationType, rec.FilePath)
	}
	if rec.OldContent != nil || optional(rec.NewContent) != "hello" {
		t.Errorf("contents = %s -> %s", optional(rec.OldContent), optional(rec.NewContent))
	}
	if rec.ProjectID != "proj-1" || optional(rec.ChatID) != "chat-1" || optional(rec.SubChatID) != "sub-1" {
		t.Errorf("ownership = %s/%s/%s", rec.ProjectID, optional(rec.ChatID), optional(rec.SubChatID))
	}
	if optional(rec.WorktreePath) != "/worktrees/chat-1" {
		t.Errorf("worktree = %s", optional(rec.WorktreePath))
	}
	if optional(rec.SessionID) != "sess-1" || !rec.Timestamp.Equal(f.now) {
		t.Errorf("session/timestamp = %s/%v", optional(rec.SessionID), rec.Timestamp)
	}
	if rec.Source != models.SourceToolWrite {
		t.Errorf("source = %s", rec.Source)
	}
}

func TestTrackFileChangesFromMessages_NoNetChange(t *testing.T) {
	f := newServiceFixture(t)

	result := f.track("chat-1", nil, assistant(
		editPart("b.ts", "foo", "bar"),
		editPart("b.ts", "bar", "foo"),
	))

	if len(f.changes.records) != 0 || len(result.Records) != 0 {
		t.Fatalf("stored %d records, want 0", len(f.changes.records))
	}
	if result.ElidedCount != 1 || result.EventCount != 2 {
		t.Errorf("elided = %d, events = %d", result.ElidedCount, result.EventCount)
	}
}

func TestTrackFileChangesFromMessages_ExcludedPath(t *testing.T) {
	f := newServiceFixture(t)

	result := f.track("chat-1", nil, assistant(writePart("/repo/.claude/plans/plan.md", "# plan")))

	if len(f.changes.records) != 0 {
		t.Fatalf("stored %d records, want 0", len(f.changes.records))
	}
	if result.SkippedEvents != 1 {
		t.Errorf("skipped = %d, want 1", result.SkippedEvents)
	}
}

func TestTrackFileChangesFromMessages_Scoping(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.track("chat-1", nil, assistant(writePart("one.ts", "1")))
	f.track("chat-2", nil, assistant(writePart("two.ts", "2")))
	f.track("chat-3", nil, assistant(writePart("other.ts", "3")))

	workspaceChanges, err := f.svc.GetWorkspaceChanges(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetWorkspaceChanges() error = %v", err)
	}
	if len(workspaceChanges) != 2 {
		t.Errorf("workspace changes = %d, want 2", len(workspaceChanges))
	}

	for _, chatID := range []string{"chat-1", "chat-2"} {
		chatChanges, err := f.svc.GetCurrentChatChanges(ctx, chatID)
		if err != nil {
			t.Fatalf("GetCurrentChatChanges(%s) error = %v", chatID, err)
		}
		if len(chatChanges) != 1 || optional(chatChanges[0].ChatID) != chatID {
			t.Errorf("chat %s changes = %+v", chatID, chatChanges)
		}
	}
}

func TestTrackFileChangesFromMessages_MissingParent(t *testing.T) {
	tests := []struct {
		name   string
		chatID string
	}{
		{"unknown chat", "chat-missing"},
		{"empty chat id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)

			result := f.track(tt.chatID, nil, assistant(writePart("a.ts", "x")))

			if !result.Dropped || result.SkipReason == "" {
				t.Errorf("result = %+v, want dropped with reason", result)
			}
			if !errors.Is(result.Err, ErrMissingParent) {
				t.Errorf("err = %v, want ErrMissingParent", result.Err)
			}
			if len(f.changes.records) != 0 {
				t.Errorf("stored %d records, want 0", len(f.changes.records))
			}
		})
	}
}

func TestTrackFileChangesFromMessages_PersistenceFailureIsAtomic(t *testing.T) {
	f := newServiceFixture(t)
	f.changes.failOn = 1

	result := f.track("chat-1", nil, assistant(
		writePart("a.ts", "1"),
		writePart("b.ts", "2"),
		writePart("c.ts", "3"),
	))

	if !result.Dropped || !errors.Is(result.Err, ErrPersistence) {
		t.Errorf("result = %+v, want dropped persistence failure", result)
	}
	if len(result.Records) != 0 {
		t.Errorf("result reports %d records", len(result.Records))
	}
	if len(f.changes.records) != 0 {
		t.Errorf("stored %d records after failed batch, want 0", len(f.changes.records))
	}
}

func TestTrackFileChange(t *testing.T) {
	tests := []struct {
		name    string
		req     changeSvc.TrackFileChangeRequest
		wantErr error
	}{
		{
			name: "manual update",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationUpdate, FilePath: "a.ts",
				OldContent: strPtr("1"), NewContent: strPtr("2"), Source: models.SourceManual,
			},
		},
		{
			name: "project resolved from chat",
			req: changeSvc.TrackFileChangeRequest{
				ChatID: strPtr("chat-2"), OperationType: models.OperationDelete, FilePath: "a.ts",
				Source: models.SourceFileWatcher,
			},
		},
		{
			name: "missing project and chat",
			req: changeSvc.TrackFileChangeRequest{
				OperationType: models.OperationCreate, FilePath: "a.ts", NewContent: strPtr("x"), Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "create with old content",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationCreate, FilePath: "a.ts",
				OldContent: strPtr("x"), NewContent: strPtr("y"), Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "create without new content",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationCreate, FilePath: "a.ts", Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "delete with new content",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationDelete, FilePath: "a.ts",
				NewContent: strPtr("x"), Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "rename without old path",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationRename, FilePath: "b.ts", Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "old path on update",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationUpdate, FilePath: "b.ts",
				OldFilePath: strPtr("a.ts"), NewContent: strPtr("x"), Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "unknown operation",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: "copy", FilePath: "b.ts", Source: models.SourceManual,
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "missing source",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationDelete, FilePath: "b.ts",
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "update without net change",
			req: changeSvc.TrackFileChangeRequest{
				ProjectID: "proj-1", OperationType: models.OperationUpdate, FilePath: "a.ts",
				OldContent: strPtr("same"), NewContent: strPtr("same"), Source: models.SourceManual,
			},
			wantErr: ErrNoNetChange,
		},
		{
			name: "unknown chat",
			req: changeSvc.TrackFileChangeRequest{
				ChatID: strPtr("chat-missing"), OperationType: models.OperationDelete, FilePath: "a.ts",
				Source: models.SourceManual,
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			req := tt.req

			change, err := f.svc.TrackFileChange(context.Background(), &req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if len(f.changes.records) != 0 {
					t.Errorf("stored %d records on error", len(f.changes.records))
				}
				return
			}
			if err != nil {
				t.Fatalf("TrackFileChange() error = %v", err)
			}
			if change.ID == "" || change.ProjectID != "proj-1" {
				t.Errorf("change = %+v", change)
			}
			if !change.Timestamp.Equal(f.now) {
				t.Errorf("timestamp = %v, want %v", change.Timestamp, f.now)
			}
			if len(f.changes.records) != 1 {
				t.Errorf("stored %d records, want 1", len(f.changes.records))
			}
		})
	}
}

func TestTrackFileChange_KeepsSuppliedTimestamp(t *testing.T) {
	f := newServiceFixture(t)
	at := time.Date(2025, 12, 24, 8, 30, 0, 0, time.UTC)

	change, err := f.svc.TrackFileChange(context.Background(), &changeSvc.TrackFileChangeRequest{
		ProjectID: "proj-1", OperationType: models.OperationDelete, FilePath: "a.ts",
		Timestamp: &at, Source: models.SourceFileWatcher,
	})
	if err != nil {
		t.Fatalf("TrackFileChange() error = %v", err)
	}
	if !change.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", change.Timestamp, at)
	}
}

func TestTrackFileChange_PropagatesStoreErrors(t *testing.T) {
	f := newServiceFixture(t)
	storeErr := errors.New("database is locked")
	f.changes.err = storeErr

	_, err := f.svc.TrackFileChange(context.Background(), &changeSvc.TrackFileChangeRequest{
		ProjectID: "proj-1", OperationType: models.OperationDelete, FilePath: "a.ts", Source: models.SourceManual,
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want %v", err, storeErr)
	}
}

func TestQueriesRequireIDs(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetCurrentChatChanges(ctx, " "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("GetCurrentChatChanges error = %v", err)
	}
	if _, err := f.svc.GetWorkspaceChanges(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("GetWorkspaceChanges error = %v", err)
	}
	if _, err := f.svc.SummarizeWorkspace(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("SummarizeWorkspace error = %v", err)
	}
}
