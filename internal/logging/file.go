package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// FileConfig controls where a host logger writes.
type FileConfig struct {
	Enabled       bool
	Rotator       RotatorConfig
	WriteToStderr bool
}

// NewWithFile builds a logger writing JSON to a rotating file and/or to
// stderr in cfg.Format. With neither output enabled the logger is a no-op.
// The returned cleanup closes the file.
func NewWithFile(cfg Config, fileCfg FileConfig) (zerolog.Logger, func(), error) {
	var writers []io.Writer
	cleanup := func() {}

	if fileCfg.WriteToStderr {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		if cfg.Format == "console" {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        out,
				TimeFormat: cfg.TimeFormat,
				NoColor:    out != os.Stderr && out != os.Stdout,
			})
		} else {
			writers = append(writers, out)
		}
	}

	if fileCfg.Enabled {
		rotator, err := NewLogRotator(fileCfg.Rotator)
		if err != nil {
			return zerolog.Nop(), cleanup, err
		}
		writers = append(writers, rotator)
		cleanup = func() { _ = rotator.Close() }
	}

	if len(writers) == 0 {
		return zerolog.Nop(), cleanup, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, cleanup, nil
}

// NewFromConfigValues creates a stderr logger from raw config strings.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	if lvl, ok := ParseLevel(level); ok {
		cfg.Level = lvl
	}
	if format == "json" {
		cfg.Format = format
	}
	return New(cfg)
}
