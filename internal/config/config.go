package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	RedisAddr   string

	JWTIssuer       string
	JWTAudience     string
	JWTSecret       string
	TokenTTL        time.Duration
	TokenHashPepper string

	ResetTokenTTL      time.Duration
	SessionInactiveTTL time.Duration
	SweepInterval      time.Duration

	ResetLinkBaseURL string

	AuthRateLimitPerMin int
	APIRateLimitPerMin  int

	OTELTracingEnabled       bool
	OTELExporterOTLPEndpoint string
	OTELExporterOTLPInsecure bool
	OTELServiceName          string
	OTELEnvironment          string
	OTELTraceSamplingRatio   float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPPort:                 getEnv("HTTP_PORT", "5000"),
		LogLevel:                 strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		JWTIssuer:                getEnv("JWT_ISSUER", "contrl-financeiro"),
		JWTAudience:              getEnv("JWT_AUDIENCE", "contrl-financeiro-api"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		TokenHashPepper:          os.Getenv("TOKEN_HASH_PEPPER"),
		ResetLinkBaseURL:         getEnv("RESET_LINK_BASE_URL", "http://localhost:3000"),
		AuthRateLimitPerMin:      getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
		APIRateLimitPerMin:       getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", false),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "contrl-financeiro"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", "development"),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = tokenTTL

	resetTTL, err := time.ParseDuration(getEnv("RESET_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse RESET_TOKEN_TTL: %w", err)
	}
	cfg.ResetTokenTTL = resetTTL

	inactiveTTL, err := time.ParseDuration(getEnv("SESSION_INACTIVE_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_INACTIVE_TTL: %w", err)
	}
	cfg.SessionInactiveTTL = inactiveTTL

	sweepInterval, err := time.ParseDuration(getEnv("SESSION_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_SWEEP_INTERVAL: %w", err)
	}
	cfg.SweepInterval = sweepInterval

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if len(c.TokenHashPepper) < 16 {
		errs = append(errs, "TOKEN_HASH_PEPPER must be at least 16 chars")
	}
	if c.TokenTTL <= 0 || c.TokenTTL > (30*24*time.Hour) {
		errs = append(errs, "TOKEN_TTL must be between 1s and 30d")
	}
	if c.ResetTokenTTL <= 0 || c.ResetTokenTTL > (24*time.Hour) {
		errs = append(errs, "RESET_TOKEN_TTL must be between 1s and 24h")
	}
	if c.SessionInactiveTTL <= 0 {
		errs = append(errs, "SESSION_INACTIVE_TTL must be > 0")
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be > 0")
	}
	if c.AuthRateLimitPerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
