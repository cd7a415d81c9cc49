package handlers

import (
	"errors"
	"strconv"

	"kbchat/internal/dto"
	"kbchat/internal/service"
	"kbchat/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Ask the chatbot a question
// @Description Answers from the knowledge base; guests get answers without history
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := optionalUserID(c)
	resp := h.chatService.Chat(c.Context(), userID, &req)

	return c.JSON(resp)
}

// Conversations godoc
// @Summary List the user's conversations
// @Tags chat
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ConversationResponse
// @Router /chat/conversations [get]
func (h *ChatHandler) Conversations(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	conversations, err := h.chatService.Conversations(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list conversations",
		})
	}

	return c.JSON(conversations)
}

// Messages godoc
// @Summary List messages of one conversation
// @Tags chat
// @Produce json
// @Security Bearer
// @Param id path int true "Conversation ID"
// @Success 200 {array} dto.MessageResponse
// @Failure 404 {object} map[string]string
// @Router /chat/conversations/{id}/messages [get]
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	conversationID, err := conversationParam(c)
	if err != nil {
		return err
	}

	messages, err := h.chatService.Messages(c.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		h.logger.Error("Failed to list messages", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list messages",
		})
	}

	return c.JSON(messages)
}

// Pin godoc
// @Summary Pin a conversation
// @Tags chat
// @Produce json
// @Security Bearer
// @Param id path int true "Conversation ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /chat/conversations/{id}/pin [post]
func (h *ChatHandler) Pin(c *fiber.Ctx) error {
	return h.setPinned(c, true)
}

// Unpin godoc
// @Summary Unpin a conversation
// @Tags chat
// @Produce json
// @Security Bearer
// @Param id path int true "Conversation ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /chat/conversations/{id}/unpin [post]
func (h *ChatHandler) Unpin(c *fiber.Ctx) error {
	return h.setPinned(c, false)
}

func (h *ChatHandler) setPinned(c *fiber.Ctx, pinned bool) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	conversationID, err := conversationParam(c)
	if err != nil {
		return err
	}

	if err := h.chatService.SetPinned(c.Context(), userID, conversationID, pinned); err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		h.logger.Error("Failed to update pin", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update conversation",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// DeleteConversation godoc
// @Summary Delete a conversation and all its messages
// @Tags chat
// @Produce json
// @Security Bearer
// @Param id path int true "Conversation ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /chat/conversations/{id} [delete]
func (h *ChatHandler) DeleteConversation(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	conversationID, err := conversationParam(c)
	if err != nil {
		return err
	}

	if err := h.chatService.DeleteConversation(c.Context(), userID, conversationID); err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		h.logger.Error("Failed to delete conversation", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete conversation",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

func optionalUserID(c *fiber.Ctx) *uuid.UUID {
	raw := middleware.UserID(c)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func requireUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id := optionalUserID(c)
	if id == nil {
		return uuid.Nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization required",
		})
	}
	return *id, nil
}

func conversationParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid conversation id",
		})
	}
	return id, nil
}
