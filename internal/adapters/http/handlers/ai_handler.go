package handlers

import (
	"errors"

	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AIHandler proxies the prediction service
type AIHandler struct {
	predictionService *services.PredictionService
	cfg               *config.Config
}

// NewAIHandler creates a new AI handler
func NewAIHandler(predictionService *services.PredictionService, cfg *config.Config) *AIHandler {
	return &AIHandler{predictionService: predictionService, cfg: cfg}
}

// PredictRequest represents crop-predict request body
type PredictRequest struct {
	CropID uint `json:"cropId"`
}

// CropPredict requests a prediction and notifies the crop's farmer
// @Summary Crop prediction
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PredictRequest true "Crop"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /ai/crop-predict [post]
func (h *AIHandler) CropPredict(c *fiber.Ctx) error {
	var req PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, _ := middleware.CurrentUser(c)
	result, err := h.predictionService.Predict(c.UserContext(), userID, req.CropID)
	if err != nil {
		if errors.Is(err, services.ErrPredictionFailed) {
			return response.InternalServerError(c, "AI service error")
		}
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", result)
}

// Predictions lists recorded predictions of a crop
// @Summary Crop prediction history
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Param cropId path int true "Crop ID"
// @Success 200 {object} response.Response
// @Router /ai/crops/{cropId}/predictions [get]
func (h *AIHandler) Predictions(c *fiber.Ctx) error {
	cropID, err := paramID(c, "cropId")
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	items, err := h.predictionService.History(c.UserContext(), cropID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", items)
}
