package filechange

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"filetrack/internal/config"
	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/filechange"
	"filetrack/internal/domain/models/workspace"
	"filetrack/internal/domain/repositories"
	changeRepo "filetrack/internal/domain/repositories/filechange"
	workspaceRepo "filetrack/internal/domain/repositories/workspace"
	changeSvc "filetrack/internal/domain/services/filechange"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// fileChangeService implements the FileChangeService interface
type fileChangeService struct {
	changeRepo changeRepo.FileChangeRepository
	chatRepo   workspaceRepo.ChatRepository
	txManager  repositories.TransactionManager
	ingestor   *Ingestor
	reconciler *Reconciler
	logger     *slog.Logger
	now        func() time.Time
}

// NewFileChangeService creates the change tracking service
func NewFileChangeService(
	changeRepo changeRepo.FileChangeRepository,
	chatRepo workspaceRepo.ChatRepository,
	txManager repositories.TransactionManager,
	ingestor *Ingestor,
	logger *slog.Logger,
) changeSvc.FileChangeService {
	return &fileChangeService{
		changeRepo: changeRepo,
		chatRepo:   chatRepo,
		txManager:  txManager,
		ingestor:   ingestor,
		reconciler: NewReconciler(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// TrackFileChangesFromMessages reconciles one batch of saved messages
func (s *fileChangeService) TrackFileChangesFromMessages(ctx context.Context, req *changeSvc.TrackMessagesRequest) *changeSvc.TrackResult {
	result := &changeSvc.TrackResult{Records: []models.FileChange{}}

	events, stats := s.ingestor.Extract(req.Messages)
	set, unsupported := s.reconciler.Reconcile(events)
	records, elided := netChanges(set)

	result.EventCount = len(events)
	result.SkippedEvents = stats.Skipped() + unsupported
	result.ElidedCount = elided

	if len(records) == 0 {
		s.logger.Debug("no net file changes in batch",
			"chat_id", req.ChatID,
			"events", len(events),
			"elided", elided,
		)
		return result
	}

	chat, err := s.resolveChat(ctx, req.ChatID)
	if err != nil {
		s.logger.Warn("skipping file change batch",
			"chat_id", req.ChatID,
			"records", len(records),
			"error", err,
		)
		result.Dropped = true
		result.Err = err
		result.SkipReason = err.Error()
		return result
	}

	chatID := chat.ID
	timestamp := s.now()
	for i := range records {
		records[i].ID = uuid.NewString()
		records[i].ChatID = &chatID
		records[i].SubChatID = req.SubChatID
		records[i].ProjectID = chat.ProjectID
		records[i].WorktreePath = chat.WorktreePath
		records[i].Timestamp = timestamp
		records[i].SessionID = req.SessionID
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.changeRepo.CreateBatch(txCtx, records)
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrPersistence, err)
		s.logger.Error("file change batch lost",
			"chat_id", req.ChatID,
			"records", len(records),
			"error", err,
		)
		result.Dropped = true
		result.Err = err
		result.SkipReason = err.Error()
		return result
	}

	result.Records = records
	s.logger.Info("file changes tracked",
		"chat_id", chatID,
		"project_id", chat.ProjectID,
		"records", len(records),
		"elided", elided,
		"skipped_events", result.SkippedEvents,
	)

	return result
}

// resolveChat looks up the chat that owns a batch
func (s *fileChangeService) resolveChat(ctx context.Context, chatID string) (*workspace.Chat, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("%w: chat id is empty", ErrMissingParent)
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("%w: chat %s: %v", ErrMissingParent, chatID, err)
	}
	if chat.ProjectID == "" {
		return nil, fmt.Errorf("%w: chat %s has no project", ErrMissingParent, chatID)
	}

	return chat, nil
}

// TrackFileChange persists a single externally supplied record
func (s *fileChangeService) TrackFileChange(ctx context.Context, req *changeSvc.TrackFileChangeRequest) (*models.FileChange, error) {
	if err := s.validateTrackRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.OperationType == models.OperationUpdate &&
		req.OldContent != nil && req.NewContent != nil && *req.OldContent == *req.NewContent {
		return nil, ErrNoNetChange
	}

	projectID := req.ProjectID
	if projectID == "" {
		chat, err := s.chatRepo.GetByID(ctx, *req.ChatID)
		if err != nil {
			return nil, fmt.Errorf("resolve project for chat %s: %w", *req.ChatID, err)
		}
		projectID = chat.ProjectID
	}

	timestamp := s.now()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		timestamp = *req.Timestamp
	}

	change := &models.FileChange{
		ID:            uuid.NewString(),
		ChatID:        req.ChatID,
		SubChatID:     req.SubChatID,
		ProjectID:     projectID,
		OperationType: req.OperationType,
		FilePath:      req.FilePath,
		OldFilePath:   req.OldFilePath,
		OldContent:    req.OldContent,
		NewContent:    req.NewContent,
		WorktreePath:  req.WorktreePath,
		Timestamp:     timestamp,
		Source:        req.Source,
		SessionID:     req.SessionID,
	}

	if err := s.changeRepo.Create(ctx, change); err != nil {
		return nil, err
	}

	s.logger.Info("file change recorded",
		"id", change.ID,
		"project_id", change.ProjectID,
		"operation", change.OperationType,
		"path", change.FilePath,
		"source", change.Source,
	)

	return change, nil
}

// GetCurrentChatChanges returns the chat's records in insertion order
func (s *fileChangeService) GetCurrentChatChanges(ctx context.Context, chatID string) ([]models.FileChange, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("%w: chat id is required", domain.ErrValidation)
	}
	return s.changeRepo.ListByChat(ctx, chatID)
}

// GetWorkspaceChanges returns the project's records across all chats
func (s *fileChangeService) GetWorkspaceChanges(ctx context.Context, projectID string) ([]models.FileChange, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", domain.ErrValidation)
	}
	return s.changeRepo.ListByProject(ctx, projectID)
}

// SummarizeWorkspace rolls up the project's records per file path
func (s *fileChangeService) SummarizeWorkspace(ctx context.Context, projectID string) (*models.WorkspaceSummary, error) {
	changes, err := s.GetWorkspaceChanges(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return summarize(projectID, changes), nil
}

// validateTrackRequest enforces the record invariants for the direct path
func (s *fileChangeService) validateTrackRequest(req *changeSvc.TrackFileChangeRequest) error {
	op := req.OperationType
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID,
			validation.When(req.ChatID == nil, validation.Required.Error("is required when chat_id is absent")),
		),
		validation.Field(&req.ChatID, validation.NilOrNotEmpty),
		validation.Field(&req.SubChatID, validation.NilOrNotEmpty),
		validation.Field(&req.OperationType,
			validation.Required,
			validation.In(models.OperationCreate, models.OperationUpdate, models.OperationDelete, models.OperationRename),
		),
		validation.Field(&req.FilePath,
			validation.Required,
			validation.Length(1, config.MaxFilePathLength),
		),
		validation.Field(&req.OldFilePath,
			validation.When(op == models.OperationRename, validation.Required, validation.Length(1, config.MaxFilePathLength)),
			validation.When(op != models.OperationRename, validation.Nil.Error("is only allowed for rename")),
		),
		validation.Field(&req.OldContent,
			validation.When(op == models.OperationCreate, validation.Nil.Error("must be absent for create")),
		),
		validation.Field(&req.NewContent,
			validation.When(op == models.OperationCreate, validation.NotNil.Error("is required for create")),
			validation.When(op == models.OperationDelete, validation.Nil.Error("must be absent for delete")),
		),
		validation.Field(&req.WorktreePath, validation.NilOrNotEmpty, validation.Length(1, config.MaxFilePathLength)),
		validation.Field(&req.Source,
			validation.Required,
			validation.Length(1, config.MaxSourceLength),
		),
		validation.Field(&req.SessionID, validation.NilOrNotEmpty, validation.Length(1, config.MaxSessionIDLength)),
	)
}
