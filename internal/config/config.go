package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Currency      string
	FlashDuration time.Duration
	MaxQuantity   int
	MenuFile      string

	LogFile  string
	LogLevel zapcore.Level

	// Reservation recording. Empty DSN or URL disables that recorder.
	DatabaseDSN   string
	RunMigrations bool
	RabbitMQURL   string
	RecordTimeout time.Duration
}

// Load reads the configuration from the environment. Unset variables fall
// back to defaults; malformed values are an error.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Currency:    get("STOREFRONT_CURRENCY", "₹"),
		MenuFile:    get("STOREFRONT_MENU_FILE", ""),
		LogFile:     get("STOREFRONT_LOG_FILE", "storefront.log"),
		DatabaseDSN: get("STOREFRONT_DB_DSN", ""),
		RabbitMQURL: get("STOREFRONT_RABBITMQ_URL", ""),
	}

	var err error
	if cfg.FlashDuration, err = parseDuration("STOREFRONT_FLASH_DURATION", get("STOREFRONT_FLASH_DURATION", "200ms")); err != nil {
		return Config{}, err
	}
	if cfg.RecordTimeout, err = parseDuration("STOREFRONT_RECORD_TIMEOUT", get("STOREFRONT_RECORD_TIMEOUT", "3s")); err != nil {
		return Config{}, err
	}

	maxQty := get("STOREFRONT_MAX_QUANTITY", "0")
	if cfg.MaxQuantity, err = strconv.Atoi(maxQty); err != nil || cfg.MaxQuantity < 0 {
		return Config{}, fmt.Errorf("STOREFRONT_MAX_QUANTITY: invalid value %q", maxQty)
	}

	if cfg.RunMigrations, err = parseBool("STOREFRONT_RUN_MIGRATIONS", get("STOREFRONT_RUN_MIGRATIONS", "true")); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel, err = zapcore.ParseLevel(get("STOREFRONT_LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("STOREFRONT_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func parseBool(key, v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
}
