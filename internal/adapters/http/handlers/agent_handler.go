package handlers

import (
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AgentHandler handles the crop review endpoints
type AgentHandler struct {
	reviewService *services.ReviewService
	cfg           *config.Config
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(reviewService *services.ReviewService, cfg *config.Config) *AgentHandler {
	return &AgentHandler{reviewService: reviewService, cfg: cfg}
}

// RejectRequest represents reject request body
type RejectRequest struct {
	Reason string `json:"reason"`
}

// PendingCrops lists crops waiting for the caller's review
// @Summary Pending crops
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /agent/pending-crops [get]
func (h *AgentHandler) PendingCrops(c *fiber.Ctx) error {
	agentID, _ := middleware.CurrentUser(c)

	crops, err := h.reviewService.GetPendingCrops(c.UserContext(), agentID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", crops)
}

// Approve approves a crop
// @Summary Approve crop
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Param cropId path int true "Crop ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /agent/approve-crop/{cropId} [post]
func (h *AgentHandler) Approve(c *fiber.Ctx) error {
	cropID, err := paramID(c, "cropId")
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	agentID, _ := middleware.CurrentUser(c)
	crop, err := h.reviewService.Approve(c.UserContext(), agentID, cropID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "Crop approved", crop)
}

// Reject rejects a crop with a reason
// @Summary Reject crop
// @Tags Agent
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cropId path int true "Crop ID"
// @Param body body RejectRequest true "Reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /agent/reject-crop/{cropId} [post]
func (h *AgentHandler) Reject(c *fiber.Ctx) error {
	cropID, err := paramID(c, "cropId")
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	agentID, _ := middleware.CurrentUser(c)
	crop, err := h.reviewService.Reject(c.UserContext(), agentID, cropID, req.Reason)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "Crop rejected", crop)
}

// Farmers lists crops assigned to the caller
// @Summary Assigned farmers' crops
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Param cropName query string false "Exact crop name"
// @Param farmerId query string false "Farmer user id or FARM code"
// @Success 200 {object} response.Response
// @Router /agent/farmers [get]
func (h *AgentHandler) Farmers(c *fiber.Ctx) error {
	agentID, _ := middleware.CurrentUser(c)

	crops, err := h.reviewService.GetFarmers(c.UserContext(), agentID, services.FarmerFilter{
		CropName: c.Query("cropName"),
		FarmerID: c.Query("farmerId"),
	})
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", crops)
}

// History lists a crop's review transitions
// @Summary Crop review history
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Param cropId path int true "Crop ID"
// @Success 200 {object} response.Response
// @Router /agent/crops/{cropId}/history [get]
func (h *AgentHandler) History(c *fiber.Ctx) error {
	cropID, err := paramID(c, "cropId")
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	agentID, _ := middleware.CurrentUser(c)
	events, err := h.reviewService.History(c.UserContext(), agentID, cropID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", events)
}
