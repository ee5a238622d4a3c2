package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/diagnostico/internal/scoring"
)

const (
	CeilingFixed   = "fixed"
	CeilingOptions = "options"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	GRPCPort              int
	GRPCReflectionEnabled bool
	GRPCLoggingEnabled    bool
	CacheTTL              time.Duration
	ScoringCeiling        string
	ScoringFixedCeiling   int
}

// LoadFromEnv loads configuration from environment variables. An empty
// REDIS_ADDR selects the in-process cache.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/diagnostico.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		GRPCPort:              getEnvInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getEnvBool("GRPC_REFLECTION_ENABLED", false),
		GRPCLoggingEnabled:    getEnvBool("GRPC_LOGGING_ENABLED", true),
		CacheTTL:              getEnvDuration("CACHE_TTL", 10*time.Minute),
		ScoringCeiling:        strings.ToLower(getEnv("SCORING_CEILING", CeilingFixed)),
		ScoringFixedCeiling:   getEnvInt("SCORING_FIXED_CEILING", scoring.DefaultCeiling),
	}
}

// ScoringEngine builds the engine selected by SCORING_CEILING.
func (c *Config) ScoringEngine() (*scoring.Engine, error) {
	switch c.ScoringCeiling {
	case "", CeilingFixed:
		if c.ScoringFixedCeiling < 1 {
			return nil, fmt.Errorf("invalid fixed ceiling %d: must be positive", c.ScoringFixedCeiling)
		}
		return scoring.NewEngine(scoring.WithCeiling(scoring.FixedCeiling(c.ScoringFixedCeiling))), nil
	case CeilingOptions:
		return scoring.NewEngine(scoring.WithCeiling(scoring.MaxOptionCeiling)), nil
	default:
		return nil, fmt.Errorf("unknown scoring ceiling %q", c.ScoringCeiling)
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
