package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one question/answer pair inside a conversation
type ChatMessage struct {
	ID             int64     `db:"id"`
	ConversationID int64     `db:"conversation_id"`
	UserID         uuid.UUID `db:"user_id"`
	Question       string    `db:"question"`
	Answer         string    `db:"answer"`
	IsPinned       bool      `db:"is_pinned"`
	CreatedAt      time.Time `db:"created_at"`
}

// ConversationSummary is an aggregate row for the conversation list
type ConversationSummary struct {
	ID            int64     `db:"conversation_id"`
	FirstQuestion string    `db:"first_question"`
	LastMessageAt time.Time `db:"last_message_at"`
	MessageCount  int       `db:"message_count"`
	IsPinned      bool      `db:"is_pinned"`
}
