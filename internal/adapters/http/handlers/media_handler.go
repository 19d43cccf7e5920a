package handlers

import (
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MediaHandler handles media endpoints
type MediaHandler struct {
	mediaService *services.MediaService
	cfg          *config.Config
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *services.MediaService, cfg *config.Config) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, cfg: cfg}
}

// Upload stores one farmer file
// @Summary Upload media
// @Description Images (jpeg, png, gif), videos (mp4, avi) and PDFs up to 10 MB
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param description formData string false "Description"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /media/upload [post]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Fail(c, services.ErrNoFile, h.cfg.IsDev())
	}

	farmerID, _ := middleware.CurrentUser(c)
	media, err := h.mediaService.Upload(c.UserContext(), farmerID, file, c.FormValue("description"))
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Created(c, "Media uploaded", media)
}

// AgentMedia lists uploads linked to the caller
// @Summary Agent media
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /media/agent [get]
func (h *MediaHandler) AgentMedia(c *fiber.Ctx) error {
	agentID, _ := middleware.CurrentUser(c)

	items, err := h.mediaService.ListByAgent(c.UserContext(), agentID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", items)
}

// FarmerMedia lists the caller's uploads
// @Summary Farmer media
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /media/farmer [get]
func (h *MediaHandler) FarmerMedia(c *fiber.Ctx) error {
	farmerID, _ := middleware.CurrentUser(c)

	items, err := h.mediaService.ListByFarmer(c.UserContext(), farmerID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", items)
}
