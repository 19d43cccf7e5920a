package handlers

import (
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	invoiceService *services.InvoiceService
	cfg            *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, invoiceService *services.InvoiceService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		invoiceService: invoiceService,
		cfg:            cfg,
	}
}

// Create records a payment for a crop assigned to the caller
// @Summary Create payment
// @Description serviceFee = 25% of estimatedCost, profitShare = 15% of finalPrice
// @Tags Payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePaymentInput true "Payment"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payment/create [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req services.CreatePaymentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	agentID, _ := middleware.CurrentUser(c)
	payment, err := h.paymentService.CreatePayment(c.UserContext(), agentID, &req)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Created(c, "Payment record created", payment)
}

// FarmerPayments lists the caller's payments
// @Summary Farmer payments
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payment/farmer [get]
func (h *PaymentHandler) FarmerPayments(c *fiber.Ctx) error {
	farmerID, _ := middleware.CurrentUser(c)

	payments, err := h.paymentService.GetFarmerPayments(c.UserContext(), farmerID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", payments)
}

// AgentPayments lists payments of crops assigned to the caller
// @Summary Agent payments
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payment/agent [get]
func (h *PaymentHandler) AgentPayments(c *fiber.Ctx) error {
	agentID, _ := middleware.CurrentUser(c)

	payments, err := h.paymentService.GetAgentPayments(c.UserContext(), agentID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", payments)
}

// Invoice downloads a payment bill as PDF
// @Summary Payment invoice
// @Tags Payment
// @Produce application/pdf
// @Security BearerAuth
// @Param paymentId path int true "Payment ID"
// @Success 200 {file} file
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payment/{paymentId}/invoice [get]
func (h *PaymentHandler) Invoice(c *fiber.Ctx) error {
	paymentID, err := paramID(c, "paymentId")
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	userID, role := middleware.CurrentUser(c)
	pdf, name, err := h.invoiceService.Invoice(c.UserContext(), userID, role, paymentID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.Send(pdf)
}
