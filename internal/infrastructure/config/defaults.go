package config

import "time"

const (
	defaultMaxCount        = 20
	defaultMaxTotalCost    = 10 * 1024 * 1024 // 10 MiB
	defaultFetchTimeoutSec = 15
	defaultMaxLogSizeMB    = 10
	defaultMaxLogBackups   = 3
	defaultMaxLogAgeDays   = 7
	defaultVisibleRows     = 8
	defaultUserAgent       = "artcache/1.0 (+https://github.com/bnema/artcache)"
	maxVisibleRows         = 100
)

// DefaultConfig returns the default configuration values for artcache.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxCount:     defaultMaxCount,
			MaxTotalCost: defaultMaxTotalCost,
		},
		Fetch: FetchConfig{
			Timeout:   defaultFetchTimeoutSec * time.Second,
			UserAgent: defaultUserAgent,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			LogDir:     getDefaultLogDir(),
			MaxSize:    defaultMaxLogSizeMB,
			MaxBackups: defaultMaxLogBackups,
			MaxAge:     defaultMaxLogAgeDays,
		},
		Browse: BrowseConfig{
			VisibleRows: defaultVisibleRows,
		},
	}
}

// getDefaultLogDir returns the default log directory, falls back to empty string on error
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}
