package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	Address     string // Address для HTTP сервера (e.g., 0.0.0.0:8080)
	FrontendURL string // Origin фронтенда для CORS
	Environment string // development или production

	DatabaseURL string // PostgreSQL connection string

	JWTSecret      string // Секрет для пользовательских токенов
	AdminJWTSecret string // Отдельный секрет для админских токенов

	// Секрет для временного endpoint сброса пароля админа.
	// Если пустой - endpoint отключен.
	TempAdminResetSecret string

	LogFile string
}

// Load загружает конфигурацию из .env и переменных окружения
func Load(logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("📄 No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	address := os.Getenv("ADDRESS")
	if address == "" {
		address = "0.0.0.0:" + port
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	// Платформы деплоя дают connection string под разными именами
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = os.Getenv("POSTGRES_URL")
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("PG_CONNECTION_STRING")
	}
	if databaseURL == "" {
		logger.Warn("⚠️  DATABASE_URL not set, user accounts will be unavailable")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "default-secret-change-me-in-production" // В продакшене использовать настоящий секрет!

		logger.Warn("⚠️  JWT_SECRET not set, using default (insecure!)")
	}

	adminJWTSecret := os.Getenv("ADMIN_JWT_SECRET")
	if adminJWTSecret == "" {
		adminJWTSecret = jwtSecret + "-admin"

		logger.Warn("⚠️  ADMIN_JWT_SECRET not set, deriving from JWT_SECRET")
	}

	resetSecret := os.Getenv("TEMP_ADMIN_RESET_SECRET")
	if resetSecret != "" {
		logger.Warn("⚠️  Temporary admin password reset endpoint is ENABLED")
	}

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./broker.log"
	}

	return &Config{
		Address:              address,
		FrontendURL:          frontendURL,
		Environment:          environment,
		DatabaseURL:          databaseURL,
		JWTSecret:            jwtSecret,
		AdminJWTSecret:       adminJWTSecret,
		TempAdminResetSecret: resetSecret,
		LogFile:              logFile,
	}
}
