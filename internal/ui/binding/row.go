package binding

import (
	"context"
	"net/url"
	"sync"

	"github.com/bnema/artcache/internal/application/port"
	"github.com/bnema/artcache/internal/domain/entity"
	"github.com/bnema/artcache/internal/domain/service"
	domainurl "github.com/bnema/artcache/internal/domain/url"
	"github.com/bnema/artcache/internal/logging"
)

// State is the lifecycle phase of a row's artwork request.
type State int

const (
	// Idle means no request: the row is unbound or was reset.
	Idle State = iota
	// AwaitingImage means a fetch is in flight and the row shows a loading state.
	AwaitingImage
	// Applied means a lookup hit or a completion was applied to the row.
	Applied
	// Discarded means the completion arrived after the row was rebound.
	Discarded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingImage:
		return "awaiting"
	case Applied:
		return "applied"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Presentation is what a row currently displays.
type Presentation struct {
	Artwork     *entity.Artwork
	Loading     bool
	Failed      bool
	Placeholder bool
	Visible     bool
	Err         error
}

// request is one Bind's fetch. A completion only applies to the request
// that is still current.
type request[T comparable] struct {
	ticket Ticket[T]
	state  State
}

// Row binds one recycled presentation slot to artwork.
// Bind and Reset are meant to be called on the UI thread; completions arrive
// there through the fetcher's dispatcher.
type Row[T comparable] struct {
	store   port.AssetStore
	fetcher service.ArtworkFetcher
	guard   Guard[T]

	mu      sync.Mutex
	current *request[T]
	pres    Presentation

	onApply   func(token T, p Presentation)
	onDiscard func(token T, res service.Result)
}

// RowOption configures a Row.
type RowOption[T comparable] func(*Row[T])

// OnApply registers a hook run after the row's presentation changes because
// of a lookup hit or a completion.
func OnApply[T comparable](fn func(token T, p Presentation)) RowOption[T] {
	return func(r *Row[T]) {
		r.onApply = fn
	}
}

// OnDiscard registers a hook run when a late completion is dropped.
func OnDiscard[T comparable](fn func(token T, res service.Result)) RowOption[T] {
	return func(r *Row[T]) {
		r.onDiscard = fn
	}
}

// NewRow creates an idle row.
func NewRow[T comparable](store port.AssetStore, fetcher service.ArtworkFetcher, opts ...RowOption[T]) *Row[T] {
	r := &Row[T]{
		store:   store,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind points the row at new content identified by token.
// A cached image is applied before Bind returns and no fetch is issued.
// Otherwise the row shows a loading state and one fetch is started; its
// result is applied only if the row still shows token when it arrives.
// A nil URL leaves the row idle.
func (r *Row[T]) Bind(ctx context.Context, u *url.URL, token T) {
	r.guard.Set(token)
	req := &request[T]{ticket: r.guard.Capture(), state: Idle}

	r.mu.Lock()
	r.current = req
	r.pres = Presentation{}
	r.mu.Unlock()

	if u == nil {
		return
	}

	key := domainurl.CacheKey(u)
	if art, ok := r.store.Lookup(key); ok {
		r.settle(req, Presentation{Artwork: art, Visible: true})
		return
	}

	r.mu.Lock()
	req.state = AwaitingImage
	r.pres = Presentation{Loading: true}
	r.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("url", key).Msg("artwork cache miss, fetching")
	r.fetcher.FetchImage(ctx, u, func(res service.Result) {
		r.complete(req, res)
	})
}

// Reset returns the row to Idle and invalidates any outstanding request.
func (r *Row[T]) Reset() {
	r.guard.Clear()

	r.mu.Lock()
	r.current = nil
	r.pres = Presentation{}
	r.mu.Unlock()
}

// Presentation returns a snapshot of what the row displays.
func (r *Row[T]) Presentation() Presentation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pres
}

// State returns the phase of the row's current request.
func (r *Row[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Idle
	}
	return r.current.state
}

// Token returns the identity the row is bound to.
func (r *Row[T]) Token() (T, bool) {
	return r.guard.Current()
}

func (r *Row[T]) complete(req *request[T], res service.Result) {
	r.mu.Lock()
	stale := !req.ticket.Valid() || req != r.current
	if stale {
		req.state = Discarded
		r.mu.Unlock()
		if r.onDiscard != nil {
			r.onDiscard(req.ticket.Token(), res)
		}
		return
	}
	r.mu.Unlock()

	r.settle(req, presentationFor(res))
}

func (r *Row[T]) settle(req *request[T], p Presentation) {
	r.mu.Lock()
	if req != r.current {
		req.state = Discarded
		r.mu.Unlock()
		return
	}
	req.state = Applied
	r.pres = p
	r.mu.Unlock()

	if r.onApply != nil {
		r.onApply(req.ticket.Token(), p)
	}
}

func presentationFor(res service.Result) Presentation {
	switch {
	case res.Image() != nil:
		return Presentation{Artwork: res.Image(), Visible: true}
	case res.Placeholder():
		return Presentation{Artwork: entity.Placeholder, Placeholder: true, Visible: true, Err: res.Err}
	default:
		return Presentation{Failed: true, Err: res.Err}
	}
}
