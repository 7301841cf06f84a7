// Package url derives cache identities from asset URLs.
package url

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotAbsolute is returned when an asset URL lacks a scheme or host.
var ErrNotAbsolute = errors.New("asset url must be absolute")

// CacheKey returns the canonical cache key for an asset URL.
// The key is the URL's string form: case-sensitive, no normalization.
func CacheKey(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

// ParseAssetURL parses raw into an absolute http(s) URL.
func ParseAssetURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse asset url %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", raw, ErrNotAbsolute)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%q: unsupported scheme %q", raw, u.Scheme)
	}
	return u, nil
}
