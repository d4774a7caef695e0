package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/risk"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	DBPath       string
	SettingsFile string

	// Logging
	LogLevel logger.LogLevel

	// Calculator defaults, overridden by SettingsFile when it exists
	Calculator risk.Settings

	// Redis replica (disabled when RedisAddr is empty)
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Kafka lifecycle events (disabled when KafkaBrokers is empty)
	KafkaBrokers []string
	KafkaTopic   string

	// Binance market data
	APIKey    string
	SecretKey string
	IsTestnet bool

	SyncTimeout time.Duration
}

// RedisEnabled reports whether a remote replica is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// KafkaEnabled reports whether lifecycle events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string

	// Storage
	cfg.DBPath = getEnv("DB_PATH", "./data/journal.db")
	cfg.SettingsFile = getEnv("SETTINGS_FILE", "./data/settings.yaml")

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	// Calculator defaults
	defaults := risk.DefaultSettings()
	cfg.Calculator.DefaultRisk, err = getEnvAsFloatRequired("DEFAULT_RISK", defaults.DefaultRisk)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DEFAULT_RISK: %v", err))
	} else if cfg.Calculator.DefaultRisk <= 0 {
		errs = append(errs, "DEFAULT_RISK must be positive")
	}

	cfg.Calculator.DefaultLeverage, err = getEnvAsFloatRequired("DEFAULT_LEVERAGE", defaults.DefaultLeverage)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DEFAULT_LEVERAGE: %v", err))
	} else if cfg.Calculator.DefaultLeverage <= 0 {
		errs = append(errs, "DEFAULT_LEVERAGE must be positive")
	}

	cfg.Calculator.DefaultAssetClass = defaults.DefaultAssetClass
	if v := os.Getenv("DEFAULT_ASSET_CLASS"); v != "" {
		ac, err := domain.ParseAssetClass(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid DEFAULT_ASSET_CLASS: %v", err))
		} else {
			cfg.Calculator.DefaultAssetClass = ac
		}
	}

	// Redis
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", "journal:")
	cfg.RedisDB, err = getEnvAsIntRequired("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REDIS_DB: %v", err))
	} else if cfg.RedisDB < 0 {
		errs = append(errs, "REDIS_DB cannot be negative")
	}

	// Kafka
	cfg.KafkaBrokers = getEnvAsList("KAFKA_BROKERS")
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "journal.trades")
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		errs = append(errs, "KAFKA_TOPIC must be set when KAFKA_BROKERS is set")
	}

	// Binance API keys are optional, price lookups use public endpoints.
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)
	if (cfg.APIKey == "") != (cfg.SecretKey == "") {
		errs = append(errs, "BINANCE_API_KEY and BINANCE_API_SECRET must be set together")
	}

	syncTimeoutSeconds := getEnvAsInt("SYNC_TIMEOUT_SECONDS", 30)
	if syncTimeoutSeconds <= 0 {
		errs = append(errs, "SYNC_TIMEOUT_SECONDS must be positive")
	}
	cfg.SyncTimeout = time.Duration(syncTimeoutSeconds) * time.Second

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
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

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
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

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
