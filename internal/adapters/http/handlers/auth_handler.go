package handlers

import (
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// Signup handles user registration
// @Summary Register new user
// @Description Register a farmer, agent or admin. Farmers receive a FARM-<year>-<seq> identifier.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req services.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Created(c, "User registered successfully", result)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate by email or phone and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "Login successful", result)
}

// Me returns the current user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUser(c)

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "", user)
}

// UpdateProfile changes the caller's name, phone or region
// @Summary Update own profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/update-profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, _ := middleware.CurrentUser(c)
	user, err := h.userService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return response.Fail(c, err, h.cfg.IsDev())
	}

	return response.Success(c, "Profile updated", user)
}
