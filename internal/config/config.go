package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Upload    UploadConfig
	AI        AIConfig
	RateLimit RateLimitConfig

	// AgentAssignment names the strategy used to pick a regional agent
	AgentAssignment string
	SeedDemo        bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// UploadConfig holds media storage configuration
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// AIConfig holds the prediction service location
type AIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RateLimitConfig holds limiter settings. Zero disables the limiter.
type RateLimitConfig struct {
	GlobalPerMinute int
	AuthPerMinute   int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	assignment := getEnv("AGENT_ASSIGNMENT", "least_loaded")
	if assignment != "least_loaded" && assignment != "first_match" {
		return nil, fmt.Errorf("invalid AGENT_ASSIGNMENT: '%s' (must be 'least_loaded' or 'first_match')", assignment)
	}

	config := &Config{
		AppMode:         appMode,
		Port:            getEnv("PORT", "5000"),
		Database:        db,
		JWT:             loadJWTConfig(appMode),
		Upload:          loadUploadConfig(),
		AI:              loadAIConfig(),
		RateLimit:       loadRateLimitConfig(),
		AgentAssignment: assignment,
		SeedDemo:        getBool("SEED_DEMO", false),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, db.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	switch driver {
	case "mysql", "sqlite":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", driver)
	}

	return DatabaseConfig{
		Driver:     driver,
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", defaultPort),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "agriconnect"),
		SQLitePath: getEnv("SQLITE_PATH", "agriconnect.db"),
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)
	hours := getInt("TOKEN_TTL_HOURS", 24*7)

	return JWTConfig{
		Secret:   getEnv(prefix+"JWT_SECRET", "default_secret"),
		TokenTTL: time.Duration(hours) * time.Hour,
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		Dir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxBytes: int64(getInt("UPLOAD_MAX_BYTES", 10<<20)),
	}
}

func loadAIConfig() AIConfig {
	return AIConfig{
		BaseURL: strings.TrimRight(getEnv("AI_SERVICE_URL", "http://localhost:5001"), "/"),
		Timeout: time.Duration(getInt("AI_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		GlobalPerMinute: getInt("RATE_LIMIT", 100),
		AuthPerMinute:   getInt("AUTH_RATE_LIMIT", 5),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5173"
	}
	return origins
}

// BodyLimit is the largest request body accepted by the transport layer.
// It leaves headroom over the upload cap for the other multipart fields.
func (c *Config) BodyLimit() int {
	return int(c.Upload.MaxBytes) + 1<<20
}
