package handlers

import (
	"fmt"
	"time"

	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin dashboard endpoints
type AdminHandler struct {
	analyticsService *services.AnalyticsService
	cfg              *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(analyticsService *services.AnalyticsService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{analyticsService: analyticsService, cfg: cfg}
}

// Agents lists agents with their distinct farmer counts
// @Summary Agents
// @Description Agents with the number of distinct farmers across their crops (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param region query string false "Exact region"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/agents [get]
func (h *AdminHandler) Agents(c *fiber.Ctx) error {
	agents, err := h.analyticsService.AgentsWithFarmerCounts(c.UserContext(), c.Query("region"))
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}
	return response.Success(c, "", agents)
}

// AnnualRevenue returns revenue per year
// @Summary Annual revenue
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/analytics/annual-revenue [get]
func (h *AdminHandler) AnnualRevenue(c *fiber.Ctx) error {
	rows, err := h.analyticsService.AnnualRevenue(c.UserContext())
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}
	return response.Success(c, "", rows)
}

// CropDistribution returns registrations per crop name
// @Summary Crop distribution
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/analytics/crop-distribution [get]
func (h *AdminHandler) CropDistribution(c *fiber.Ctx) error {
	rows, err := h.analyticsService.CropDistribution(c.UserContext())
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}
	return response.Success(c, "", rows)
}

// RegionRevenue returns revenue per farmer region
// @Summary Region revenue
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/analytics/region-revenue [get]
func (h *AdminHandler) RegionRevenue(c *fiber.Ctx) error {
	rows, err := h.analyticsService.RegionRevenue(c.UserContext())
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}
	return response.Success(c, "", rows)
}

// Overview returns every report with headline totals
// @Summary Analytics overview
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/analytics/overview [get]
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.analyticsService.Overview(c.UserContext())
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}
	return response.Success(c, "", overview)
}

// Export downloads the reports as an XLSX workbook
// @Summary Analytics export
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/analytics/export [get]
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	data, err := h.analyticsService.ExportXLSX(c.UserContext())
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	name := fmt.Sprintf("analytics-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
