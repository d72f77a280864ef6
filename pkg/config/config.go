package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Kiwoom REST endpoints (실전 / 모의)
const (
	KiwoomRealBaseURL    = "https://api.kiwoom.com"
	KiwoomVirtualBaseURL = "https://mockapi.kiwoom.com"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// MarketTimezone is used to resolve "today" and format broker dates
	MarketTimezone string

	// External APIs
	Kiwoom KiwoomConfig

	// HTTP facade
	CORS CORSConfig

	// Redis (optional shared token store)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// KiwoomConfig holds Kiwoom (키움증권) REST API configuration
type KiwoomConfig struct {
	AppKey         string
	SecretKey      string
	BaseURL        string
	IsVirtual      bool // 모의투자 여부
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// TokenWarmupCron is a 6-field cron expression; empty disables warm-up
	TokenWarmupCron string
}

// CORSConfig holds CORS settings for the public API
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Enabled   bool
	KeyPrefix string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	isVirtual := getEnvAsBool("KIWOOM_IS_VIRTUAL", false)
	defaultBaseURL := KiwoomRealBaseURL
	if isVirtual {
		defaultBaseURL = KiwoomVirtualBaseURL
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		MarketTimezone: getEnv("MARKET_TIMEZONE", "Asia/Seoul"),

		Kiwoom: KiwoomConfig{
			AppKey:          getEnv("KIWOOM_APP_KEY", ""),
			SecretKey:       getEnv("KIWOOM_SECRET_KEY", ""),
			BaseURL:         strings.TrimRight(getEnv("KIWOOM_BASE_URL", defaultBaseURL), "/"),
			IsVirtual:       isVirtual,
			ConnectTimeout:  getEnvAsDuration("KIWOOM_CONNECT_TIMEOUT", "5s"),
			ReadTimeout:     getEnvAsDuration("KIWOOM_READ_TIMEOUT", "10s"),
			TokenWarmupCron: getEnv("KIWOOM_TOKEN_WARMUP_CRON", ""),
		},

		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
		},

		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			Enabled:   getEnvAsBool("REDIS_ENABLED", false),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "traderpark"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Location returns the market time zone, falling back to UTC+9
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Kiwoom.AppKey == "" {
		return fmt.Errorf("KIWOOM_APP_KEY is required")
	}
	if c.Kiwoom.SecretKey == "" {
		return fmt.Errorf("KIWOOM_SECRET_KEY is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := time.LoadLocation(c.MarketTimezone); err != nil {
		return fmt.Errorf("MARKET_TIMEZONE %q: %w", c.MarketTimezone, err)
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping empty entries
func getEnvAsList(key string, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
