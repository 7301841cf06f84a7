// Package service defines domain service interfaces.
package service

//go:generate mockgen -source=artwork.go -destination=mocks/mock_artwork.go -package=mocks

import (
	"context"
	"errors"
	"net/url"

	"github.com/bnema/artcache/internal/domain/entity"
)

// Result is the outcome of a single artwork fetch.
//
// Exactly one of three shapes is delivered:
//   - success: Artwork set, Err nil
//   - failure: Artwork nil, Err set
//   - undecodable body: Artwork is entity.Placeholder, Err wraps the decode failure
type Result struct {
	Artwork *entity.Artwork
	Err     error
}

// Image returns the usable artwork, or nil for failures and placeholders.
func (r Result) Image() *entity.Artwork {
	if r.Err != nil || r.Artwork.IsPlaceholder() {
		return nil
	}
	return r.Artwork
}

// Placeholder reports whether the request succeeded without a usable image.
func (r Result) Placeholder() bool {
	return r.Artwork.IsPlaceholder()
}

// Failed reports whether the request produced neither an image nor a placeholder.
func (r Result) Failed() bool {
	return r.Err != nil && !r.Placeholder()
}

// Is lets callers test a Result against a fetch error with errors.Is semantics.
func (r Result) Is(target error) bool {
	return errors.Is(r.Err, target)
}

// Completion receives the result of a fetch. It is invoked exactly once per
// request, always on the UI scheduling context.
type Completion func(Result)

// ArtworkFetcher retrieves remote artwork asynchronously.
type ArtworkFetcher interface {
	// FetchImage issues one request for u and later calls done exactly once.
	// It never blocks on the network.
	FetchImage(ctx context.Context, u *url.URL, done Completion)
}
