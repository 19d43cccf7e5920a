package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agriconnect/internal/adapters/ai"
	"agriconnect/internal/adapters/http/routes"
	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/config"
	"agriconnect/internal/core/services"
	"agriconnect/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "agriconnect/docs" // Swagger docs
)

// @title AgriConnect API
// @version 1.0
// @description Crop registration, agent review, payments and AI predictions for farmers
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@agriconnect.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.IsDev())
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to auto migrate", zap.Error(err))
	}
	zlog.Info("database migration completed")

	if cfg.SeedDemo {
		authService := services.NewAuthService(db, cfg, zlog)
		if _, err := authService.Seed(context.Background(), config.DemoUsers()); err != nil {
			zlog.Warn("demo seed failed", zap.Error(err))
		}
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		zlog.Fatal("failed to create upload directory", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
	}

	aiClient := ai.NewHTTP(cfg.AI.BaseURL, cfg.AI.Timeout)
	app := routes.NewApp(cfg, db, zlog, aiClient)

	// Graceful shutdown
	go gracefulShutdown(app, zlog)

	// Start server
	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zlog *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server stopped gracefully")
}
