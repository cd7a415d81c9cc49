package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"kbchat/internal/dto"
	"kbchat/internal/models"
	"kbchat/internal/rag"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrConversationNotFound = errors.New("conversation not found")

const conversationTitleLen = 50

// ChatHistory is the persistence contract for conversations.
type ChatHistory interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	NextConversationID(ctx context.Context) (int64, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error)
	ListMessages(ctx context.Context, userID uuid.UUID, conversationID int64) ([]*models.ChatMessage, error)
	SetPinned(ctx context.Context, userID uuid.UUID, conversationID int64, pinned bool) (bool, error)
	DeleteConversation(ctx context.Context, userID uuid.UUID, conversationID int64) (bool, error)
}

// UserLookup resolves the current account state of an authenticated user.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type ChatService struct {
	engine   *rag.Engine
	chatRepo ChatHistory
	userRepo UserLookup
	logger   *zap.Logger
}

func NewChatService(engine *rag.Engine, chatRepo ChatHistory, userRepo UserLookup, logger *zap.Logger) *ChatService {
	return &ChatService{
		engine:   engine,
		chatRepo: chatRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Chat answers a question. Guests (nil userID) get an answer without
// persistence; for authenticated active users the Q/A pair is appended
// to a conversation, allocating a new conversation id when none is
// given. Answering never fails; a history-write failure is logged and
// the answer is returned as a guest response.
func (s *ChatService) Chat(ctx context.Context, userID *uuid.UUID, req *dto.ChatRequest) *dto.ChatResponse {
	answer := s.engine.Answer(ctx, req.Message)

	if userID == nil {
		return &dto.ChatResponse{Answer: answer, Guest: true}
	}

	// A valid token is not enough: an account locked after login
	// loses history on its next message, not at token expiry.
	user, err := s.userRepo.GetByID(ctx, *userID)
	if err != nil || !user.IsActive {
		return &dto.ChatResponse{Answer: answer, Guest: true}
	}

	conversationID, err := s.resolveConversationID(ctx, req.ConversationID)
	if err != nil {
		s.logger.Error("Failed to allocate conversation id", zap.Error(err))
		return &dto.ChatResponse{Answer: answer, Guest: true}
	}

	msg := &models.ChatMessage{
		ConversationID: conversationID,
		UserID:         *userID,
		Question:       req.Message,
		Answer:         answer,
		CreatedAt:      time.Now(),
	}
	if err := s.chatRepo.Append(ctx, msg); err != nil {
		s.logger.Error("Failed to persist chat message",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return &dto.ChatResponse{Answer: answer, Guest: true}
	}

	return &dto.ChatResponse{
		Answer:         answer,
		ConversationID: conversationID,
		Guest:          false,
	}
}

func (s *ChatService) resolveConversationID(ctx context.Context, requested *int64) (int64, error) {
	if requested != nil {
		return *requested, nil
	}
	return s.chatRepo.NextConversationID(ctx)
}

func (s *ChatService) Conversations(ctx context.Context, userID uuid.UUID) ([]*dto.ConversationResponse, error) {
	summaries, err := s.chatRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ConversationResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, &dto.ConversationResponse{
			ID:            summary.ID,
			Title:         conversationTitle(summary.FirstQuestion),
			LastMessageAt: summary.LastMessageAt.Format(time.RFC3339),
			MessageCount:  summary.MessageCount,
			IsPinned:      summary.IsPinned,
		})
	}

	return responses, nil
}

func (s *ChatService) Messages(ctx context.Context, userID uuid.UUID, conversationID int64) ([]*dto.MessageResponse, error) {
	messages, err := s.chatRepo.ListMessages(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrConversationNotFound
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, &dto.MessageResponse{
			Question:  msg.Question,
			Answer:    msg.Answer,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}

	return responses, nil
}

func (s *ChatService) SetPinned(ctx context.Context, userID uuid.UUID, conversationID int64, pinned bool) error {
	found, err := s.chatRepo.SetPinned(ctx, userID, conversationID, pinned)
	if err != nil {
		return err
	}
	if !found {
		return ErrConversationNotFound
	}
	return nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID uuid.UUID, conversationID int64) error {
	found, err := s.chatRepo.DeleteConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	if !found {
		return ErrConversationNotFound
	}
	return nil
}

func conversationTitle(firstQuestion string) string {
	if firstQuestion == "" {
		return "Cuộc hội thoại"
	}
	if utf8.RuneCountInString(firstQuestion) <= conversationTitleLen {
		return firstQuestion
	}
	runes := []rune(firstQuestion)
	return string(runes[:conversationTitleLen]) + "..."
}
