package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	AIProvider        string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiStreaming   bool
	OpenAIAPIKey      string
	OpenAIModel       string
	AITemperature     float64
	AIMaxAttempts     int
	AIRetryBackoff    time.Duration
	EvaluationTimeout time.Duration
	ReportCacheTTL    time.Duration
	PaymentAmount     int
	PaymentCurrency   string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TASKSCORE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "TaskScore API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("gemini.streaming", false)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_attempts", 3)
	v.SetDefault("ai.retry_backoff", "500ms")
	v.SetDefault("evaluation.timeout", "60s")
	v.SetDefault("report.cache_ttl", "5m")
	v.SetDefault("payment.amount", 99)
	v.SetDefault("payment.currency", "INR")

	backoff, err := time.ParseDuration(v.GetString("ai.retry_backoff"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai retry backoff: %w", err)
	}

	evalTimeout, err := time.ParseDuration(v.GetString("evaluation.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("report.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		GeminiAPIKey:      v.GetString("gemini.api_key"),
		GeminiModel:       v.GetString("gemini.model"),
		GeminiStreaming:   v.GetBool("gemini.streaming"),
		OpenAIAPIKey:      v.GetString("openai.api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		AITemperature:     v.GetFloat64("ai.temperature"),
		AIMaxAttempts:     v.GetInt("ai.max_attempts"),
		AIRetryBackoff:    backoff,
		EvaluationTimeout: evalTimeout,
		ReportCacheTTL:    cacheTTL,
		PaymentAmount:     v.GetInt("payment.amount"),
		PaymentCurrency:   strings.ToUpper(v.GetString("payment.currency")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AIMaxAttempts <= 0 {
		cfg.AIMaxAttempts = 3
	}

	if cfg.PaymentAmount <= 0 {
		cfg.PaymentAmount = 99
	}

	return cfg, nil
}
