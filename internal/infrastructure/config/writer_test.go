package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	assert.Equal(t, []string{"[browse]", "[cache]", "[fetch]", "[logging]"}, sections)
	assert.Contains(t, string(content), "timeout = '15s'")
}

func TestWriteConfigOrdered_NilConfig(t *testing.T) {
	assert.Error(t, WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "config.toml")))
}

func TestEncodeConfig_RoundTripsThroughTOML(t *testing.T) {
	data, err := EncodeConfig(DefaultConfig())
	require.NoError(t, err)

	var decoded fileConfig
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, defaultMaxCount, decoded.Cache.MaxCount)
	assert.Equal(t, "15s", decoded.Fetch.Timeout)
}

func TestSortTOMLSections(t *testing.T) {
	input := `[logging]
level = 'info'

[cache]
max_count = 20
`
	want := `[cache]
max_count = 20

[logging]
level = 'info'
`
	assert.Equal(t, want, sortTOMLSections(input))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, schemaID, doc["$id"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "cache")
	assert.Contains(t, props, "fetch")
}
