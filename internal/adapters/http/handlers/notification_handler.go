package handlers

import (
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/pagination"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
	cfg                 *config.Config
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, cfg *config.Config) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, cfg: cfg}
}

// Send posts a notification to a farmer
// @Summary Send notification
// @Tags Notification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SendInput true "Notification"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /notification/send [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var req services.SendInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	senderID, _ := middleware.CurrentUser(c)
	n, err := h.notificationService.Send(c.UserContext(), senderID, &req)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Created(c, "Notification sent successfully", fiber.Map{
		"notificationId": n.ID,
	})
}

// My lists the caller's notifications
// @Summary My notifications
// @Tags Notification
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /notification/my [get]
func (h *NotificationHandler) My(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUser(c)

	list, err := h.notificationService.GetMine(c.UserContext(), userID, pagination.GetParams(c, 20))
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", list)
}
