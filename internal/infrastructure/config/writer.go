package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the on-disk shape of Config. Durations are written as
// strings ("15s") so the file stays readable.
type fileConfig struct {
	Cache   CacheConfig   `toml:"cache"`
	Fetch   fileFetch     `toml:"fetch"`
	Logging LoggingConfig `toml:"logging"`
	Browse  BrowseConfig  `toml:"browse"`
}

type fileFetch struct {
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
	Coalesce  bool   `toml:"coalesce"`
}

func toFileConfig(cfg *Config) fileConfig {
	return fileConfig{
		Cache: cfg.Cache,
		Fetch: fileFetch{
			Timeout:   cfg.Fetch.Timeout.String(),
			UserAgent: cfg.Fetch.UserAgent,
			Coalesce:  cfg.Fetch.Coalesce,
		},
		Logging: cfg.Logging,
		Browse:  cfg.Browse,
	}
}

// WriteConfigOrdered writes the configuration to disk with consistent ordering.
// - Struct fields are written in definition order (go-toml v2 behavior)
// - TOML sections are sorted alphabetically for deterministic output
func WriteConfigOrdered(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	data, err := EncodeConfig(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeConfig renders cfg as sorted TOML.
func EncodeConfig(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)

	if err := enc.Encode(toFileConfig(cfg)); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return []byte(sortTOMLSections(buf.String())), nil
}

var sectionRegex = regexp.MustCompile(`^(\s*)\[([^\]]+)\]\s*$`)

// sortTOMLSections sorts TOML content so sections are in alphabetical order.
func sortTOMLSections(content string) string {
	type section struct {
		header string
		lines  []string
	}

	var sections []section
	var current *section
	var preamble []string

	for _, line := range strings.Split(content, "\n") {
		if match := sectionRegex.FindStringSubmatch(line); match != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &section{header: match[2], lines: []string{line}}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		} else {
			preamble = append(preamble, line)
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].header < sections[j].header
	})

	var result strings.Builder
	for _, line := range preamble {
		result.WriteString(line)
		result.WriteString("\n")
	}
	for _, sec := range sections {
		content := result.String()
		if content != "" && !strings.HasSuffix(content, "\n\n") {
			result.WriteString("\n")
		}
		for _, line := range sec.lines {
			result.WriteString(line)
			result.WriteString("\n")
		}
	}

	output := strings.TrimLeft(strings.TrimRight(result.String(), "\n"), "\n")
	if output != "" {
		output += "\n"
	}
	return output
}
