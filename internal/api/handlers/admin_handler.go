package handlers

import (
	"errors"
	"strconv"

	"kbchat/internal/dto"
	"kbchat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	userService      *service.UserService
	knowledgeService *service.KnowledgeService
	logger           *zap.Logger
}

func NewAdminHandler(userService *service.UserService, knowledgeService *service.KnowledgeService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		userService:      userService,
		knowledgeService: knowledgeService,
		logger:           logger,
	}
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.AdminUserResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list users",
		})
	}
	return c.JSON(users)
}

// UpdateUser godoc
// @Summary Update a user's email, admin flag or active flag
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param request body dto.UserUpdateRequest true "Fields to update"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := userParam(c)
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.userService.Update(c.Context(), id, &req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.logger.Error("Failed to update user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// ChangePassword godoc
// @Summary Set a new password for a user
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param request body dto.PasswordChangeRequest true "New password"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id}/password [post]
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := userParam(c)
	if err != nil {
		return err
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.userService.ChangePassword(c.Context(), id, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.logger.Error("Failed to change password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to change password",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := userParam(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.logger.Error("Failed to delete user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// ListKnowledge godoc
// @Summary List knowledge entries
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.KnowledgeResponse
// @Router /admin/knowledge [get]
func (h *AdminHandler) ListKnowledge(c *fiber.Ctx) error {
	docs, err := h.knowledgeService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list knowledge", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list knowledge",
		})
	}
	return c.JSON(docs)
}

// CreateKnowledge godoc
// @Summary Create a knowledge entry
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.KnowledgeCreateRequest true "New entry"
// @Success 201 {object} dto.KnowledgeResponse
// @Failure 400 {object} map[string]string
// @Router /admin/knowledge [post]
func (h *AdminHandler) CreateKnowledge(c *fiber.Ctx) error {
	var req dto.KnowledgeCreateRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and content are required",
		})
	}

	doc, err := h.knowledgeService.Create(c.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create knowledge", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create knowledge",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// UpdateKnowledge godoc
// @Summary Update a knowledge entry
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Knowledge ID"
// @Param request body dto.KnowledgeUpdateRequest true "Fields to update"
// @Success 200 {object} dto.KnowledgeResponse
// @Failure 404 {object} map[string]string
// @Router /admin/knowledge/{id} [put]
func (h *AdminHandler) UpdateKnowledge(c *fiber.Ctx) error {
	id, err := knowledgeParam(c)
	if err != nil {
		return err
	}

	var req dto.KnowledgeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doc, err := h.knowledgeService.Update(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrKnowledgeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Knowledge not found",
			})
		}
		h.logger.Error("Failed to update knowledge", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update knowledge",
		})
	}

	return c.JSON(doc)
}

// DeleteKnowledge godoc
// @Summary Delete a knowledge entry
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Knowledge ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /admin/knowledge/{id} [delete]
func (h *AdminHandler) DeleteKnowledge(c *fiber.Ctx) error {
	id, err := knowledgeParam(c)
	if err != nil {
		return err
	}

	if err := h.knowledgeService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrKnowledgeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Knowledge not found",
			})
		}
		h.logger.Error("Failed to delete knowledge", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete knowledge",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

func userParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}
	return id, nil
}

func knowledgeParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid knowledge id",
		})
	}
	return id, nil
}
