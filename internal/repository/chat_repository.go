package repository

import (
	"context"

	"kbchat/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	query := squirrel.Insert("chat_history").
		Columns("conversation_id", "user_id", "question", "answer", "is_pinned", "created_at").
		Values(msg.ConversationID, msg.UserID, msg.Question, msg.Answer, msg.IsPinned, msg.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&msg.ID)
}

// NextConversationID allocates a conversation id as max+1 across all users
func (r *ChatRepository) NextConversationID(ctx context.Context) (int64, error) {
	query := squirrel.Select("COALESCE(MAX(conversation_id), 0) + 1").
		From("chat_history").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var next int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		return 0, err
	}

	return next, nil
}

// ListConversations groups a user's history by conversation id,
// pinned conversations first, then most recently active.
func (r *ChatRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error) {
	query := squirrel.Select(
		"conversation_id",
		"MIN(question) AS first_question",
		"MAX(created_at) AS last_message_at",
		"COUNT(*) AS message_count",
		"BOOL_OR(is_pinned) AS is_pinned",
	).
		From("chat_history").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("conversation_id").
		OrderBy("BOOL_OR(is_pinned) DESC", "MAX(created_at) DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*models.ConversationSummary
	for rows.Next() {
		var conv models.ConversationSummary
		if err := rows.Scan(
			&conv.ID, &conv.FirstQuestion, &conv.LastMessageAt,
			&conv.MessageCount, &conv.IsPinned,
		); err != nil {
			return nil, err
		}
		conversations = append(conversations, &conv)
	}

	return conversations, rows.Err()
}

func (r *ChatRepository) ListMessages(ctx context.Context, userID uuid.UUID, conversationID int64) ([]*models.ChatMessage, error) {
	query := squirrel.Select("id", "conversation_id", "user_id", "question", "answer", "is_pinned", "created_at").
		From("chat_history").
		Where(squirrel.Eq{"user_id": userID, "conversation_id": conversationID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.UserID,
			&msg.Question, &msg.Answer, &msg.IsPinned, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// SetPinned flags every message of the conversation so the pin survives
// message-level aggregation. Returns false when the conversation does
// not exist for this user.
func (r *ChatRepository) SetPinned(ctx context.Context, userID uuid.UUID, conversationID int64, pinned bool) (bool, error) {
	query := squirrel.Update("chat_history").
		Set("is_pinned", pinned).
		Where(squirrel.Eq{"user_id": userID, "conversation_id": conversationID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ChatRepository) DeleteConversation(ctx context.Context, userID uuid.UUID, conversationID int64) (bool, error) {
	query := squirrel.Delete("chat_history").
		Where(squirrel.Eq{"user_id": userID, "conversation_id": conversationID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
