package handlers

import (
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/pagination"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CropHandler handles farmer crop endpoints
type CropHandler struct {
	cropService *services.CropService
	cfg         *config.Config
}

// NewCropHandler creates a new crop handler
func NewCropHandler(cropService *services.CropService, cfg *config.Config) *CropHandler {
	return &CropHandler{cropService: cropService, cfg: cfg}
}

// Register handles crop registration
// @Summary Register crop
// @Description Creates a pending crop and assigns an agent of the farmer's region
// @Tags Crop
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterCropInput true "Crop"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /crop/register [post]
func (h *CropHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterCropInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	farmerID, _ := middleware.CurrentUser(c)
	result, err := h.cropService.RegisterCrop(c.UserContext(), farmerID, &req)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Created(c, "Crop registered successfully", result)
}

// MyCrops lists the caller's crops
// @Summary My crops
// @Tags Crop
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /crop/my [get]
func (h *CropHandler) MyCrops(c *fiber.Ctx) error {
	farmerID, _ := middleware.CurrentUser(c)

	list, err := h.cropService.GetMyCrops(c.UserContext(), farmerID, pagination.GetParams(c, 10))
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", list)
}

// GetCrop returns one crop
// @Summary Crop detail
// @Tags Crop
// @Produce json
// @Security BearerAuth
// @Param cropId path int true "Crop ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /crop/{cropId} [get]
func (h *CropHandler) GetCrop(c *fiber.Ctx) error {
	cropID, err := paramID(c, "cropId")
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	userID, role := middleware.CurrentUser(c)
	crop, err := h.cropService.GetCrop(c.UserContext(), userID, role, cropID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", crop)
}
