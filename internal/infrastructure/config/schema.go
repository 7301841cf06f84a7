package config

import "time"

// Config represents the complete configuration for artcache.
type Config struct {
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache" toml:"cache" json:"cache"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch" toml:"fetch" json:"fetch"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
	Browse  BrowseConfig  `mapstructure:"browse" yaml:"browse" toml:"browse" json:"browse"`
}

// CacheConfig bounds the in-memory artwork cache. Read once at startup.
type CacheConfig struct {
	// MaxCount is the entry-count ceiling.
	MaxCount int `mapstructure:"max_count" yaml:"max_count" toml:"max_count" json:"max_count" jsonschema:"minimum=1"`
	// MaxTotalCost is the byte-budget ceiling for decoded images.
	MaxTotalCost int64 `mapstructure:"max_total_cost" yaml:"max_total_cost" toml:"max_total_cost" json:"max_total_cost" jsonschema:"minimum=1"`
}

// FetchConfig tunes the artwork fetcher.
type FetchConfig struct {
	// Timeout bounds a single request at the transport layer; 0 disables it.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" toml:"timeout" json:"timeout"`
	// UserAgent is sent with every request when non-empty.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent" toml:"user_agent" json:"user_agent"`
	// Coalesce shares one network request between concurrent fetches of the same URL.
	Coalesce bool `mapstructure:"coalesce" yaml:"coalesce" toml:"coalesce" json:"coalesce"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format        string `mapstructure:"format" yaml:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	EnableFileLog bool   `mapstructure:"enable_file_log" yaml:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir" toml:"log_dir" json:"log_dir"`
	MaxSize       int    `mapstructure:"max_size" yaml:"max_size" toml:"max_size" json:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups" json:"max_backups"`
	MaxAge        int    `mapstructure:"max_age" yaml:"max_age" toml:"max_age" json:"max_age"`
	Compress      bool   `mapstructure:"compress" yaml:"compress" toml:"compress" json:"compress"`
}

// BrowseConfig configures the terminal browser.
type BrowseConfig struct {
	// VisibleRows is the number of recycled row slots on screen.
	VisibleRows int `mapstructure:"visible_rows" yaml:"visible_rows" toml:"visible_rows" json:"visible_rows" jsonschema:"minimum=1,maximum=100"`
}
