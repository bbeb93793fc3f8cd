package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"filetrack/internal/config"
	"filetrack/internal/domain"
	models "filetrack/internal/domain/models/workspace"
	workspaceRepo "filetrack/internal/domain/repositories/workspace"
	workspaceSvc "filetrack/internal/domain/services/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// chatService implements the ChatService interface
type chatService struct {
	chatRepo    workspaceRepo.ChatRepository
	subChatRepo workspaceRepo.SubChatRepository
	logger      *slog.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo workspaceRepo.ChatRepository,
	subChatRepo workspaceRepo.SubChatRepository,
	logger *slog.Logger,
) workspaceSvc.ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		subChatRepo: subChatRepo,
		logger:      logger,
	}
}

// CreateChat creates a chat inside an existing project
func (s *chatService) CreateChat(ctx context.Context, req *workspaceSvc.CreateChatRequest) (*models.Chat, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Title, validation.Length(0, config.MaxChatTitleLength)),
		validation.Field(&req.WorktreePath, validation.NilOrNotEmpty, validation.Length(1, config.MaxFilePathLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	chat := &models.Chat{
		ProjectID:    req.ProjectID,
		Title:        strings.TrimSpace(req.Title),
		WorktreePath: req.WorktreePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("chat created",
		"id", chat.ID,
		"project_id", chat.ProjectID,
	)

	return chat, nil
}

// GetChat retrieves a chat by ID
func (s *chatService) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	return s.chatRepo.GetByID(ctx, id)
}

// ListChats retrieves all chats for a project
func (s *chatService) ListChats(ctx context.Context, projectID string) ([]models.Chat, error) {
	return s.chatRepo.ListByProject(ctx, projectID)
}

// DeleteChat deletes a chat with its sub-chats and change records
func (s *chatService) DeleteChat(ctx context.Context, id string) error {
	if err := s.chatRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("chat deleted", "id", id)
	return nil
}

// CreateSubChat creates a sub-chat inside an existing chat
func (s *chatService) CreateSubChat(ctx context.Context, req *workspaceSvc.CreateSubChatRequest) (*models.SubChat, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ChatID, validation.Required),
		validation.Field(&req.Title, validation.Length(0, config.MaxChatTitleLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	subChat := &models.SubChat{
		ChatID:    req.ChatID,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.subChatRepo.Create(ctx, subChat); err != nil {
		return nil, err
	}

	s.logger.Info("sub-chat created",
		"id", subChat.ID,
		"chat_id", subChat.ChatID,
	)

	return subChat, nil
}

// ListSubChats retrieves all sub-chats of a chat
func (s *chatService) ListSubChats(ctx context.Context, chatID string) ([]models.SubChat, error) {
	return s.subChatRepo.ListByChat(ctx, chatID)
}

// DeleteSubChat deletes a sub-chat with its change records
func (s *chatService) DeleteSubChat(ctx context.Context, id string) error {
	if err := s.subChatRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("sub-chat deleted", "id", id)
	return nil
}
