package url

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_NoNormalization(t *testing.T) {
	a, err := url.Parse("https://img.example.com/Cover.png")
	require.NoError(t, err)
	b, err := url.Parse("https://img.example.com/cover.png")
	require.NoError(t, err)
	c, err := url.Parse("https://img.example.com/Cover.png")
	require.NoError(t, err)

	assert.NotEqual(t, CacheKey(a), CacheKey(b), "keys are case-sensitive")
	assert.Equal(t, CacheKey(a), CacheKey(c))
	assert.Equal(t, "https://img.example.com/Cover.png", CacheKey(a))
	assert.Empty(t, CacheKey(nil))
}

func TestParseAssetURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "https", raw: "https://example.com/a.jpg"},
		{name: "http with spaces", raw: "  http://example.com/a.jpg  "},
		{name: "relative", raw: "/a.jpg", wantErr: true},
		{name: "no host", raw: "https:///a.jpg", wantErr: true},
		{name: "file scheme", raw: "file://host/a.jpg", wantErr: true},
		{name: "garbage", raw: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseAssetURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, CacheKey(u))
		})
	}
}
