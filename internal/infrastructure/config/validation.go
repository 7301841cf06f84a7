package config

import (
	"fmt"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateCache(config)...)
	validationErrors = append(validationErrors, validateFetch(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateBrowse(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateCache(config *Config) []string {
	var validationErrors []string
	if config.Cache.MaxCount < 1 {
		validationErrors = append(validationErrors, "cache.max_count must be at least 1")
	}
	if config.Cache.MaxTotalCost < 1 {
		validationErrors = append(validationErrors, "cache.max_total_cost must be at least 1 byte")
	}
	return validationErrors
}

func validateFetch(config *Config) []string {
	var validationErrors []string
	if config.Fetch.Timeout < 0 {
		validationErrors = append(validationErrors, "fetch.timeout must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string

	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "console", "json", "":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}

	if config.Logging.MaxSize < 0 {
		validationErrors = append(validationErrors, "logging.max_size must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	if config.Logging.EnableFileLog && config.Logging.LogDir == "" {
		validationErrors = append(validationErrors, "logging.log_dir is required when logging.enable_file_log is set")
	}

	return validationErrors
}

func validateBrowse(config *Config) []string {
	var validationErrors []string
	if config.Browse.VisibleRows < 1 || config.Browse.VisibleRows > maxVisibleRows {
		validationErrors = append(validationErrors,
			fmt.Sprintf("browse.visible_rows must be between 1 and %d", maxVisibleRows))
	}
	return validationErrors
}
