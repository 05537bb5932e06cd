package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port  int
	Debug bool

	// Logging
	LogLevel string
	LogFile  string // empty logs to stderr only

	// Database
	DatabaseURL string

	// RabbitMQ (empty disables event publishing)
	RabbitMQURL string

	// Redis (empty disables the live leaderboard cache)
	RedisURL string

	// Auth
	JWTSecret string

	// Runner
	RunnerBackend  string // docker, local
	RunnerTimeout  int    // seconds, per test case process
	RunnerMemoryMB int
	RunnerCPULimit float64

	// Tutor
	TutorBaseURL string
	TutorAPIKey  string
	TutorModel   string

	// Sessions
	CodingSampleSize int

	// Course rules (empty uses embedded defaults)
	RulesPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnvInt("PORT", 8080),
		Debug:            getEnvBool("DEBUG", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		DatabaseURL:      getEnv("DATABASE_URL", "practicehub.db"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		RunnerBackend:    getEnv("RUNNER_BACKEND", "local"),
		RunnerTimeout:    getEnvInt("RUNNER_TIMEOUT", 10),
		RunnerMemoryMB:   getEnvInt("RUNNER_MEMORY_MB", 256),
		RunnerCPULimit:   getEnvFloat("RUNNER_CPU_LIMIT", 0.5),
		TutorBaseURL:     getEnv("TUTOR_BASE_URL", ""),
		TutorAPIKey:      getEnv("TUTOR_API_KEY", ""),
		TutorModel:       getEnv("TUTOR_MODEL", "gpt-4o-mini"),
		CodingSampleSize: getEnvInt("CODING_SAMPLE_SIZE", 2),
		RulesPath:        getEnv("RULES_PATH", ""),
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
