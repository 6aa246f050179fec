package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the signing secret used when none is configured outside production.
// It is public and must never protect real accounts.
const DevJWTSecret = "dev_jwt_secret_change_me"

// DevJWTRefreshSecret is the development counterpart for refresh tokens
const DevJWTRefreshSecret = "dev_jwt_refresh_secret_change_me"

// ErrMissingJWTSecret is returned by Load in production when no signing secret is set
var ErrMissingJWTSecret = errors.New("PROD_JWT_SECRET and PROD_JWT_REFRESH_SECRET are required when APP_MODE=prod")

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Log      LogConfig
	Kafka    KafkaConfig
	Jobs     JobsConfig
	SeedDemo bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
	// UsingDevSecret is true when the non-production fallback secret is in use
	UsingDevSecret bool
}

// AccessTTL returns the access token lifetime
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessTokenMins) * time.Minute
}

// RefreshTTL returns the refresh token lifetime
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTokenDays) * 24 * time.Hour
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// KafkaConfig holds decision event publishing configuration.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers       []string
	DecisionTopic string
}

// Enabled reports whether a broker list was configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// JobsConfig holds cron schedules of the background jobs
type JobsConfig struct {
	TokenCleanupSpec  string
	StatusSummarySpec string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	AppConfig = cfg
	slog.Info("configuration loaded", "mode", cfg.AppMode, "db_driver", cfg.Database.Driver)
	return cfg, nil
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	jwtCfg, err := loadJWTConfig(appMode)
	if err != nil {
		return nil, err
	}

	dbCfg := loadDatabaseConfig(appMode)
	switch dbCfg.Driver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or memory)", dbCfg.Driver)
	}

	seed, _ := strconv.ParseBool(getEnv("SEED_DEMO", "false"))

	return &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "4000"),
		Database: dbCfg,
		JWT:      jwtCfg,
		Cookie:   loadCookieConfig(appMode),
		Log:      loadLogConfig(appMode),
		Kafka:    loadKafkaConfig(),
		Jobs: JobsConfig{
			TokenCleanupSpec:  getEnv("TOKEN_CLEANUP_CRON", "@every 1h"),
			StatusSummarySpec: getEnv("SUMMARY_CRON", "0 8 * * *"),
		},
		SeedDemo: seed && appMode == "dev",
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverMySQL))
	defaultPort := "3306"
	if driver == DriverPostgres {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "loan_app"),
	}
}

// loadJWTConfig loads JWT config based on mode. Production refuses to start
// without explicit secrets; development falls back to labelled defaults.
func loadJWTConfig(mode string) (JWTConfig, error) {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "480"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))
	if accessMins <= 0 {
		accessMins = 480
	}
	if refreshDays <= 0 {
		refreshDays = 7
	}

	cfg := JWTConfig{
		Secret:           os.Getenv(prefix + "JWT_SECRET"),
		RefreshSecret:    os.Getenv(prefix + "JWT_REFRESH_SECRET"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}

	if cfg.Secret == "" || cfg.RefreshSecret == "" {
		if mode == "prod" {
			return JWTConfig{}, ErrMissingJWTSecret
		}
		if cfg.Secret == "" {
			cfg.Secret = DevJWTSecret
		}
		if cfg.RefreshSecret == "" {
			cfg.RefreshSecret = DevJWTRefreshSecret
		}
		cfg.UsingDevSecret = true
		slog.Warn("JWT secret not set, using development fallback secret; set DEV_JWT_SECRET in .env")
	}

	return cfg, nil
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadLogConfig(mode string) LogConfig {
	format := "text"
	if mode == "prod" {
		format = "json"
	}
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", format),
	}
}

func loadKafkaConfig() KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Brokers:       brokers,
		DecisionTopic: getEnv("KAFKA_DECISION_TOPIC", "loan.decisions"),
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
		return "http://localhost:3000"
	}
	return origins
}
