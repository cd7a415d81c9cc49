package dto

type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID *int64 `json:"conversation_id"`
}

type ChatResponse struct {
	Answer         string `json:"answer"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	Guest          bool   `json:"guest"`
}

type ConversationResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	LastMessageAt string `json:"last_message_at"`
	MessageCount  int    `json:"message_count"`
	IsPinned      bool   `json:"is_pinned"`
}

type MessageResponse struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}
