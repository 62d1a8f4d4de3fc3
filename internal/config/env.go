// Package config handles environment-based configuration loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Resinat/SQLogger/internal/record"
	"github.com/robfig/cron/v3"
)

// EnvConfig holds the settings of the sqlogger binary.
type EnvConfig struct {
	// Sink
	DBPath             string
	BusyTimeout        time.Duration
	CheckpointSchedule string
	ShapeCacheSize     int

	// Demo
	Table   string
	Workers int

	// ConfigFile is the YAML file the values were seeded from, if any.
	ConfigFile string
}

func defaultConfig() *EnvConfig {
	return &EnvConfig{
		DBPath:         "log.db",
		BusyTimeout:    5 * time.Second,
		ShapeCacheSize: 64,
		Table:          "LogRecExample",
		Workers:        40,
	}
}

// LoadEnvConfig reads SQLOGGER_* environment variables, on top of the
// optional YAML file named by SQLOGGER_CONFIG_FILE, and returns a validated
// EnvConfig. All validation problems are reported in one error.
func LoadEnvConfig() (*EnvConfig, error) {
	cfg := defaultConfig()
	var errs []string

	cfg.ConfigFile = strings.TrimSpace(envStr("SQLOGGER_CONFIG_FILE", ""))
	if cfg.ConfigFile != "" {
		fc, err := loadFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		fc.applyTo(cfg)
	}

	// --- Sink ---
	cfg.DBPath = strings.TrimSpace(envStr("SQLOGGER_DB_PATH", cfg.DBPath))
	cfg.BusyTimeout = envDuration("SQLOGGER_BUSY_TIMEOUT", cfg.BusyTimeout, &errs)
	cfg.CheckpointSchedule = strings.TrimSpace(envStr("SQLOGGER_CHECKPOINT_SCHEDULE", cfg.CheckpointSchedule))
	cfg.ShapeCacheSize = envInt("SQLOGGER_SHAPE_CACHE_SIZE", cfg.ShapeCacheSize, &errs)

	// --- Demo ---
	cfg.Table = strings.TrimSpace(envStr("SQLOGGER_TABLE", cfg.Table))
	cfg.Workers = envInt("SQLOGGER_WORKERS", cfg.Workers, &errs)

	// --- Validation ---
	if cfg.DBPath == "" {
		errs = append(errs, "SQLOGGER_DB_PATH must not be empty")
	}
	if cfg.BusyTimeout <= 0 {
		errs = append(errs, "SQLOGGER_BUSY_TIMEOUT must be positive")
	}
	if cfg.CheckpointSchedule != "" {
		if _, err := cron.ParseStandard(cfg.CheckpointSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("SQLOGGER_CHECKPOINT_SCHEDULE: invalid cron expression %q: %v", cfg.CheckpointSchedule, err))
		}
	}
	validatePositive("SQLOGGER_SHAPE_CACHE_SIZE", cfg.ShapeCacheSize, &errs)
	if !record.IsIdentifier(cfg.Table) {
		errs = append(errs, fmt.Sprintf("SQLOGGER_TABLE: %q is not a plain SQL identifier", cfg.Table))
	}
	validatePositive("SQLOGGER_WORKERS", cfg.Workers, &errs)

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	return cfg, nil
}

// --- helpers ---

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}

func validatePositive(name string, value int, errs *[]string) {
	if value <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s: must be positive, got %d", name, value))
	}
}
