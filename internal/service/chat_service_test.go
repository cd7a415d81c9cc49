package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"kbchat/internal/dto"
	"kbchat/internal/models"
	"kbchat/internal/rag"
	"kbchat/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubCorpus struct{}

func (stubCorpus) ListAll(context.Context) ([]*models.Knowledge, error) { return nil, nil }

type stubLookup struct{}

func (stubLookup) GetSummary(context.Context, string, string) (string, error) { return "", nil }
func (stubLookup) SearchTitle(context.Context, string, string) (string, error) {
	return "", nil
}

// mockChatHistory records appended messages and hands out sequential
// conversation ids.
type mockChatHistory struct {
	appended []*models.ChatMessage
	nextID   int64
}

func (m *mockChatHistory) Append(_ context.Context, msg *models.ChatMessage) error {
	m.appended = append(m.appended, msg)
	return nil
}

func (m *mockChatHistory) NextConversationID(context.Context) (int64, error) {
	m.nextID++
	return m.nextID, nil
}

func (m *mockChatHistory) ListConversations(context.Context, uuid.UUID) ([]*models.ConversationSummary, error) {
	return nil, nil
}

func (m *mockChatHistory) ListMessages(context.Context, uuid.UUID, int64) ([]*models.ChatMessage, error) {
	return nil, nil
}

func (m *mockChatHistory) SetPinned(context.Context, uuid.UUID, int64, bool) (bool, error) {
	return false, nil
}

func (m *mockChatHistory) DeleteConversation(context.Context, uuid.UUID, int64) (bool, error) {
	return false, nil
}

type mockUserLookup struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserLookup) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return user, nil
}

func newStubEngine() *rag.Engine {
	retrieval := &config.RetrievalConfig{
		Mode:              rag.ModeParagraph,
		DocumentThreshold: 8,
		ParagraphFloor:    3,
		DynamicRatio:      0.6,
		DiversityRatio:    0.8,
		SourceCap:         2,
		MaxParagraphs:     4,
		EchoMaxLen:        50,
	}
	wiki := &config.WikiConfig{Language: "vi", FallbackLanguage: "en", SummaryMaxLen: 600}
	return rag.NewEngine(stubCorpus{}, stubLookup{}, retrieval, wiki, zap.NewNop())
}

func TestChatGuestNotPersisted(t *testing.T) {
	history := &mockChatHistory{}
	svc := NewChatService(newStubEngine(), history, &mockUserLookup{}, zap.NewNop())

	resp := svc.Chat(context.Background(), nil, &dto.ChatRequest{Message: "chatbot hỗ trợ gì"})

	if !resp.Guest {
		t.Error("guest request must be marked guest")
	}
	if resp.Answer == "" {
		t.Error("guest must still receive an answer")
	}
	if len(history.appended) != 0 {
		t.Errorf("guest chat must not be persisted, got %d messages", len(history.appended))
	}
}

func TestChatActiveUserPersisted(t *testing.T) {
	userID := uuid.New()
	history := &mockChatHistory{}
	users := &mockUserLookup{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Username: "alice", IsActive: true},
	}}
	svc := NewChatService(newStubEngine(), history, users, zap.NewNop())

	resp := svc.Chat(context.Background(), &userID, &dto.ChatRequest{Message: "chatbot hỗ trợ gì"})

	if resp.Guest {
		t.Error("active user must not be marked guest")
	}
	if resp.ConversationID != 1 {
		t.Errorf("ConversationID = %d, want freshly allocated 1", resp.ConversationID)
	}
	if len(history.appended) != 1 {
		t.Fatalf("appended %d messages, want 1", len(history.appended))
	}
	if history.appended[0].UserID != userID || history.appended[0].Answer != resp.Answer {
		t.Errorf("persisted message = %+v", history.appended[0])
	}
}

func TestChatInactiveUserDemotedToGuest(t *testing.T) {
	userID := uuid.New()
	history := &mockChatHistory{}
	users := &mockUserLookup{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Username: "alice", IsActive: false},
	}}
	svc := NewChatService(newStubEngine(), history, users, zap.NewNop())

	resp := svc.Chat(context.Background(), &userID, &dto.ChatRequest{Message: "chatbot hỗ trợ gì"})

	if !resp.Guest {
		t.Error("locked account with a still-valid token must be demoted to guest")
	}
	if resp.Answer == "" {
		t.Error("locked account must still receive an answer")
	}
	if len(history.appended) != 0 {
		t.Errorf("locked account chat must not be persisted, got %d messages", len(history.appended))
	}
}

func TestChatDeletedUserDemotedToGuest(t *testing.T) {
	userID := uuid.New()
	history := &mockChatHistory{}
	svc := NewChatService(newStubEngine(), history, &mockUserLookup{}, zap.NewNop())

	resp := svc.Chat(context.Background(), &userID, &dto.ChatRequest{Message: "chatbot hỗ trợ gì"})

	if !resp.Guest {
		t.Error("unknown account must be demoted to guest")
	}
	if len(history.appended) != 0 {
		t.Errorf("unknown account chat must not be persisted, got %d messages", len(history.appended))
	}
}

func TestConversationTitle(t *testing.T) {
	long := strings.Repeat("câu hỏi rất dài ", 10)

	tests := []struct {
		name          string
		firstQuestion string
		want          string
	}{
		{
			name:          "empty_gets_placeholder",
			firstQuestion: "",
			want:          "Cuộc hội thoại",
		},
		{
			name:          "short_question_unchanged",
			firstQuestion: "Chatbot là gì?",
			want:          "Chatbot là gì?",
		},
		{
			name:          "long_question_truncated",
			firstQuestion: long,
			want:          string([]rune(long)[:conversationTitleLen]) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conversationTitle(tt.firstQuestion)
			if got != tt.want {
				t.Errorf("conversationTitle(%q) = %q, want %q", tt.firstQuestion, got, tt.want)
			}
		})
	}
}

func TestConversationTitleCountsRunes(t *testing.T) {
	// Exactly at the limit in runes, well over it in bytes.
	exact := strings.Repeat("ế", conversationTitleLen)

	got := conversationTitle(exact)
	if got != exact {
		t.Errorf("title at the rune limit must not be truncated, got %d runes",
			utf8.RuneCountInString(got))
	}
}
