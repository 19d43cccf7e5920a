package routes

import (
	"time"

	"agriconnect/internal/adapters/ai"
	"agriconnect/internal/adapters/http/handlers"
	"agriconnect/internal/adapters/http/middleware"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewApp builds the Fiber application with middlewares and routes mounted
func NewApp(cfg *config.Config, db *gorm.DB, log *zap.Logger, aiClient ai.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "AgriConnect API v1.0",
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	Setup(app, db, cfg, log, aiClient)
	return app
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, log *zap.Logger, aiClient ai.Client) {
	// Initialize services
	authService := services.NewAuthService(db, cfg, log)
	userService := services.NewUserService(repositories.NewUserRepository(db), log)
	cropService := services.NewCropService(db, services.NewAgentSelector(cfg.AgentAssignment, db), log)
	reviewService := services.NewReviewService(db, log)
	paymentService := services.NewPaymentService(db, log)
	invoiceService := services.NewInvoiceService(paymentService)
	notificationService := services.NewNotificationService(db, log)
	mediaService := services.NewMediaService(db, cfg.Upload, log)
	analyticsService := services.NewAnalyticsService(db, log)
	predictionService := services.NewPredictionService(db, aiClient, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	cropHandler := handlers.NewCropHandler(cropService, cfg)
	agentHandler := handlers.NewAgentHandler(reviewService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService, invoiceService, cfg)
	notificationHandler := handlers.NewNotificationHandler(notificationService, cfg)
	mediaHandler := handlers.NewMediaHandler(mediaService, cfg)
	adminHandler := handlers.NewAdminHandler(analyticsService, cfg)
	aiHandler := handlers.NewAIHandler(predictionService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Stored uploads. File names are random so they can be cached.
	app.Use(services.UploadURLPrefix, middleware.SharedResources(), middleware.CacheControl(24*time.Hour))
	app.Static(services.UploadURLPrefix, cfg.Upload.Dir, fiber.Static{
		Browse: false,
	})

	api := app.Group("/api", middleware.NoCacheHeaders())

	farmer := middleware.RoleMiddleware(domain.RoleFarmer)
	agent := middleware.RoleMiddleware(domain.RoleAgent)
	admin := middleware.RoleMiddleware(domain.RoleAdmin)
	staff := middleware.RoleMiddleware(domain.RoleAgent, domain.RoleAdmin)
	anyRole := middleware.RoleMiddleware()

	authRequired := middleware.AuthMiddleware(cfg)

	// ============================================================
	// Auth routes
	// ============================================================
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.AuthRateLimiter(cfg), authHandler.Signup)
	auth.Post("/login", middleware.AuthRateLimiter(cfg), authHandler.Login)
	auth.Get("/me", authRequired, anyRole, authHandler.Me)
	auth.Put("/update-profile", authRequired, anyRole, authHandler.UpdateProfile)

	// ============================================================
	// Crop routes
	// ============================================================
	crop := api.Group("/crop", authRequired)
	crop.Post("/register", farmer, cropHandler.Register)
	crop.Get("/my", farmer, cropHandler.MyCrops)
	crop.Get("/:cropId", anyRole, cropHandler.GetCrop)

	// ============================================================
	// Agent routes
	// ============================================================
	agentGroup := api.Group("/agent", authRequired, agent)
	agentGroup.Get("/pending-crops", agentHandler.PendingCrops)
	agentGroup.Post("/approve-crop/:cropId", agentHandler.Approve)
	agentGroup.Post("/reject-crop/:cropId", agentHandler.Reject)
	agentGroup.Get("/farmers", agentHandler.Farmers)
	agentGroup.Get("/crops/:cropId/history", agentHandler.History)

	// ============================================================
	// Payment routes
	// ============================================================
	payment := api.Group("/payment", authRequired)
	payment.Post("/create", agent, paymentHandler.Create)
	payment.Get("/farmer", farmer, paymentHandler.FarmerPayments)
	payment.Get("/agent", agent, paymentHandler.AgentPayments)
	payment.Get("/:paymentId/invoice", anyRole, paymentHandler.Invoice)

	// ============================================================
	// Notification routes
	// ============================================================
	notification := api.Group("/notification", authRequired)
	notification.Post("/send", staff, notificationHandler.Send)
	notification.Get("/my", farmer, notificationHandler.My)

	// ============================================================
	// Media routes
	// ============================================================
	media := api.Group("/media", authRequired)
	media.Post("/upload", farmer, mediaHandler.Upload)
	media.Get("/agent", agent, mediaHandler.AgentMedia)
	media.Get("/farmer", farmer, mediaHandler.FarmerMedia)

	// ============================================================
	// Admin routes
	// ============================================================
	adminGroup := api.Group("/admin", authRequired, admin)
	adminGroup.Get("/agents", adminHandler.Agents)

	analytics := adminGroup.Group("/analytics")
	analytics.Get("/annual-revenue", adminHandler.AnnualRevenue)
	analytics.Get("/crop-distribution", adminHandler.CropDistribution)
	analytics.Get("/region-revenue", adminHandler.RegionRevenue)
	analytics.Get("/overview", adminHandler.Overview)
	analytics.Get("/export", adminHandler.Export)

	// ============================================================
	// AI routes
	// ============================================================
	aiGroup := api.Group("/ai", authRequired, staff)
	aiGroup.Post("/crop-predict", aiHandler.CropPredict)
	aiGroup.Get("/crops/:cropId/predictions", aiHandler.Predictions)
}
