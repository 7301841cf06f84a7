// Package artwork fetches remote artwork over HTTP and feeds the artwork cache.
package artwork

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/artcache/internal/application/port"
	"github.com/bnema/artcache/internal/domain/entity"
	"github.com/bnema/artcache/internal/domain/service"
	domainurl "github.com/bnema/artcache/internal/domain/url"
	"github.com/bnema/artcache/internal/logging"
)

const (
	// DefaultTimeout bounds a single request when no client is supplied.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes int64 = 16 * 1024 * 1024

	// DefaultMaxDecodedBytes caps the pixel buffer of a decoded image. It
	// matches the default cache budget: anything larger could never be stored.
	DefaultMaxDecodedBytes int64 = 10 * 1024 * 1024
)

// Fetcher issues one HTTP GET per FetchImage call, stores decoded images in
// an AssetStore and reports every outcome through the dispatcher.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	store      port.AssetStore
	dispatcher port.Dispatcher
	userAgent  string
	header     http.Header
	coalesce   bool
	maxBody    int64
	maxDecoded int64
	group      singleflight.Group
	inFlight   atomic.Int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client. WithTimeout does not apply to
// a supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout sets the per-request timeout of the default client; 0 disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.header.Add(key, value)
	}
}

// WithCoalescing makes concurrent fetches of the same URL share one request.
// Each caller still receives its own completion.
func WithCoalescing(enabled bool) Option {
	return func(f *Fetcher) {
		f.coalesce = enabled
	}
}

// WithMaxBodyBytes caps the bytes read from a response; 0 disables the cap.
// Longer bodies are refused with ErrTooLarge.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// WithMaxDecodedBytes caps the decoded pixel buffer, normally set to the
// cache's cost budget; 0 disables the cap. Larger images are refused from
// their header with ErrTooLarge.
func WithMaxDecodedBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxDecoded = n
	}
}

// NewFetcher creates a fetcher populating store and completing on dispatcher.
// Completions only ever run through dispatcher, so it must not be nil.
func NewFetcher(store port.AssetStore, dispatcher port.Dispatcher, opts ...Option) *Fetcher {
	if dispatcher == nil {
		panic("artwork.NewFetcher: dispatcher cannot be nil")
	}
	f := &Fetcher{
		timeout:    DefaultTimeout,
		store:      store,
		dispatcher: dispatcher,
		header:     make(http.Header),
		maxBody:    DefaultMaxBodyBytes,
		maxDecoded: DefaultMaxDecodedBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// FetchImage starts an asynchronous fetch of u and returns immediately.
// done runs exactly once, through the dispatcher. Cancelling ctx does not
// abort the request; only its values (the logger) are kept.
func (f *Fetcher) FetchImage(ctx context.Context, u *url.URL, done service.Completion) {
	complete := f.completeOnce(done)
	ctx = context.WithoutCancel(ctx)

	if u == nil {
		go complete(service.Result{Err: fmt.Errorf("%w: nil url", ErrTransport)})
		return
	}

	f.inFlight.Add(1)
	go func() {
		defer f.inFlight.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				complete(service.Result{Err: fmt.Errorf("%w: panic: %v", ErrTransport, r)})
			}
		}()

		complete(f.fetch(ctx, u))
	}()
}

// InFlight returns the number of requests not yet completed.
func (f *Fetcher) InFlight() int {
	return int(f.inFlight.Load())
}

func (f *Fetcher) completeOnce(done service.Completion) func(service.Result) {
	var once sync.Once
	return func(res service.Result) {
		once.Do(func() {
			if done == nil {
				return
			}
			f.dispatcher.Post(func() { done(res) })
		})
	}
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL) service.Result {
	if !f.coalesce {
		return f.load(ctx, u)
	}

	key := domainurl.CacheKey(u)
	v, _, shared := f.group.Do(key, func() (any, error) {
		return f.load(ctx, u), nil
	})
	if shared {
		logging.FromContext(ctx).Debug().Str("url", key).Msg("artwork request coalesced")
	}
	return v.(service.Result)
}

// load performs the request. The returned Result is final: on success the
// artwork is already in the store.
func (f *Fetcher) load(ctx context.Context, u *url.URL) service.Result {
	log := logging.FromContext(ctx)
	key := domainurl.CacheKey(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, http.NoBody)
	if err != nil {
		log.Debug().Err(err).Str("url", key).Msg("failed to create artwork request")
		return service.Result{Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for k, values := range f.header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", key).Msg("artwork request failed")
		return service.Result{Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("url", key).Msg("artwork server returned non-OK status")
		return service.Result{Err: &StatusError{StatusCode: resp.StatusCode, URL: key}}
	}

	body := io.Reader(resp.Body)
	if f.maxBody > 0 {
		body = io.LimitReader(resp.Body, f.maxBody+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		log.Debug().Err(err).Str("url", key).Msg("failed to read artwork response")
		return service.Result{Err: fmt.Errorf("%w: read body: %w", ErrTransport, err)}
	}
	if len(data) == 0 {
		log.Debug().Str("url", key).Msg("empty artwork response")
		return service.Result{Err: fmt.Errorf("%w: %s", ErrEmptyBody, key)}
	}

	if f.maxBody > 0 && int64(len(data)) > f.maxBody {
		log.Debug().Str("url", key).Int64("limit", f.maxBody).Msg("artwork response too large")
		return service.Result{
			Artwork: entity.Placeholder,
			Err:     fmt.Errorf("%w: %w: body exceeds %d bytes", ErrUndecodableBody, ErrTooLarge, f.maxBody),
		}
	}

	img, format, err := decodeImage(data, f.maxDecoded)
	if err != nil {
		log.Debug().Err(err).Str("url", key).Int("bytes", len(data)).Msg("artwork body could not be decoded")
		return service.Result{Artwork: entity.Placeholder, Err: err}
	}

	art := entity.NewArtwork(key, img)
	if f.store != nil {
		f.store.Store(key, art, art.Cost)
	}

	log.Debug().
		Str("url", key).
		Str("format", format).
		Int("bytes", len(data)).
		Int64("cost", art.Cost).
		Dur("elapsed", time.Since(start)).
		Msg("artwork fetched")

	return service.Result{Artwork: art}
}

var _ service.ArtworkFetcher = (*Fetcher)(nil)
