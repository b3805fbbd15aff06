package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for tradelens
// ⭐ SSOT: environment variables are read here only
type Config struct {
	Env string // development, staging, production

	// Analytics knobs handed to the engines
	Analytics AnalyticsConfig

	// Monte Carlo defaults for the simulate command
	MonteCarlo MonteCarloConfig

	// Redis result cache (optional)
	Redis RedisConfig

	// Compliance rules file for firm checks
	FirmConfigPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// AnalyticsConfig parameters of the metric engines
type AnalyticsConfig struct {
	VaRConfidence       float64 // (0, 1), default 0.95
	SharpeAnnualization float64 // periods per year, default 252
	RiskFreeRate        float64 // per-period offset, default 0
}

// MonteCarloConfig simulation defaults
type MonteCarloConfig struct {
	Simulations int
	Horizon     int
	Seed        int64 // 0 = time-seeded
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	TTL      time.Duration // cached result lifetime
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Analytics: AnalyticsConfig{
			VaRConfidence:       getEnvAsFloat("VAR_CONFIDENCE", 0.95),
			SharpeAnnualization: getEnvAsFloat("SHARPE_ANNUALIZATION", 252),
			RiskFreeRate:        getEnvAsFloat("RISK_FREE_RATE", 0),
		},

		MonteCarlo: MonteCarloConfig{
			Simulations: getEnvAsInt("MC_SIMULATIONS", 10000),
			Horizon:     getEnvAsInt("MC_HORIZON", 20),
			Seed:        int64(getEnvAsInt("MC_SEED", 0)),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			TTL:      getEnvAsDuration("CACHE_TTL", "10m"),
		},

		FirmConfigPath: getEnv("FIRM_CONFIG", "firm.yaml"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Env: "development",
		Analytics: AnalyticsConfig{
			VaRConfidence:       0.95,
			SharpeAnnualization: 252,
		},
		MonteCarlo: MonteCarloConfig{Simulations: 10000, Horizon: 20},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  10 * time.Minute,
		},
		FirmConfigPath: "firm.yaml",
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// validate checks value ranges
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analytics.VaRConfidence <= 0 || c.Analytics.VaRConfidence >= 1 {
		return fmt.Errorf("VAR_CONFIDENCE must be between 0 and 1, got %v", c.Analytics.VaRConfidence)
	}
	if c.Analytics.SharpeAnnualization <= 0 {
		return fmt.Errorf("SHARPE_ANNUALIZATION must be > 0, got %v", c.Analytics.SharpeAnnualization)
	}

	if c.MonteCarlo.Simulations <= 0 || c.MonteCarlo.Horizon <= 0 {
		return fmt.Errorf("MC_SIMULATIONS and MC_HORIZON must be > 0")
	}

	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0 when Redis is enabled")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile loads the first .env found
func loadEnvFile() {
	paths := []string{".env"}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
