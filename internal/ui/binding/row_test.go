package binding

import (
	"context"
	"image"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	portmocks "github.com/bnema/artcache/internal/application/port/mocks"
	"github.com/bnema/artcache/internal/domain/entity"
	"github.com/bnema/artcache/internal/domain/service"
	servicemocks "github.com/bnema/artcache/internal/domain/service/mocks"
	"github.com/bnema/artcache/internal/infrastructure/artwork"
	"github.com/bnema/artcache/internal/infrastructure/cache"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func newArtwork(key string, w, h int) *entity.Artwork {
	return entity.NewArtwork(key, image.NewRGBA(image.Rect(0, 0, w, h)))
}

// capturingFetcher records completions so tests decide when fetches finish.
func capturingFetcher(ctrl *gomock.Controller) (*servicemocks.MockArtworkFetcher, map[string]service.Completion) {
	fetcher := servicemocks.NewMockArtworkFetcher(ctrl)
	pending := make(map[string]service.Completion)
	fetcher.EXPECT().
		FetchImage(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, u *url.URL, done service.Completion) {
			pending[u.String()] = done
		}).
		AnyTimes()
	return fetcher, pending
}

func TestRow_CacheHitAppliesWithoutFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := portmocks.NewMockAssetStore(ctrl)
	// No FetchImage expectation: a fetch fails the test.
	fetcher := servicemocks.NewMockArtworkFetcher(ctrl)

	u := mustURL(t, "https://img.example.com/a.png")
	art := newArtwork(u.String(), 8, 8)
	store.EXPECT().Lookup(u.String()).Return(art, true).Times(1)

	var applied int
	row := NewRow(store, fetcher, OnApply(func(token int, p Presentation) {
		applied++
		assert.Equal(t, 1, token)
	}))
	row.Bind(context.Background(), u, 1)

	p := row.Presentation()
	assert.Equal(t, Applied, row.State())
	assert.Same(t, art, p.Artwork)
	assert.True(t, p.Visible)
	assert.False(t, p.Loading)
	assert.Equal(t, 1, applied)
}

func TestRow_MissShowsLoadingThenApplies(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher, pending := capturingFetcher(ctrl)
	store := cache.NewAssetCache(cache.DefaultLimits())

	u := mustURL(t, "https://img.example.com/a.png")
	row := NewRow[string](store, fetcher)
	row.Bind(context.Background(), u, "item-a")

	assert.Equal(t, AwaitingImage, row.State())
	assert.True(t, row.Presentation().Loading)
	assert.False(t, row.Presentation().Visible)
	require.Contains(t, pending, u.String())

	art := newArtwork(u.String(), 4, 4)
	pending[u.String()](service.Result{Artwork: art})

	p := row.Presentation()
	assert.Equal(t, Applied, row.State())
	assert.Same(t, art, p.Artwork)
	assert.True(t, p.Visible)
	assert.False(t, p.Loading)
}

func TestRow_StaleCompletionIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher, pending := capturingFetcher(ctrl)
	store := cache.NewAssetCache(cache.DefaultLimits())

	uA := mustURL(t, "https://img.example.com/a.png")
	uB := mustURL(t, "https://img.example.com/b.png")

	var discarded []string
	row := NewRow(store, fetcher, OnDiscard(func(token string, _ service.Result) {
		discarded = append(discarded, token)
	}))

	row.Bind(context.Background(), uA, "A")
	row.Bind(context.Background(), uB, "B")

	// A finishes after the row was recycled for B.
	pending[uA.String()](service.Result{Artwork: newArtwork(uA.String(), 2, 2)})

	p := row.Presentation()
	assert.Nil(t, p.Artwork, "A's image must never reach the row")
	assert.True(t, p.Loading, "row keeps showing B's loading state")
	assert.Equal(t, AwaitingImage, row.State())
	assert.Equal(t, []string{"A"}, discarded)

	artB := newArtwork(uB.String(), 3, 3)
	pending[uB.String()](service.Result{Artwork: artB})
	assert.Same(t, artB, row.Presentation().Artwork)
	assert.Equal(t, Applied, row.State())
}

func TestRow_RebindToSameTokenDropsOlderRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := servicemocks.NewMockArtworkFetcher(ctrl)
	store := cache.NewAssetCache(cache.DefaultLimits())

	u := mustURL(t, "https://img.example.com/a.png")
	var completions []service.Completion
	fetcher.EXPECT().
		FetchImage(gomock.Any(), u, gomock.Any()).
		Do(func(_ context.Context, _ *url.URL, done service.Completion) {
			completions = append(completions, done)
		}).
		Times(2)

	row := NewRow[string](store, fetcher)
	row.Bind(context.Background(), u, "A")
	row.Bind(context.Background(), u, "A")
	require.Len(t, completions, 2)

	completions[0](service.Result{Err: artwork.ErrTransport})
	assert.Equal(t, AwaitingImage, row.State(), "older request must not settle the newer one")

	art := newArtwork(u.String(), 1, 1)
	completions[1](service.Result{Artwork: art})
	assert.Same(t, art, row.Presentation().Artwork)
}

func TestRow_FailureAndPlaceholder(t *testing.T) {
	tests := []struct {
		name        string
		result      service.Result
		failed      bool
		placeholder bool
		visible     bool
	}{
		{
			name:   "transport failure",
			result: service.Result{Err: artwork.ErrTransport},
			failed: true,
		},
		{
			name:   "bad status",
			result: service.Result{Err: &artwork.StatusError{StatusCode: 404}},
			failed: true,
		},
		{
			name:        "undecodable body",
			result:      service.Result{Artwork: entity.Placeholder, Err: artwork.ErrUndecodableBody},
			placeholder: true,
			visible:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher, pending := capturingFetcher(ctrl)
			row := NewRow[int](cache.NewAssetCache(cache.DefaultLimits()), fetcher)

			u := mustURL(t, "https://img.example.com/x.png")
			row.Bind(context.Background(), u, 7)
			pending[u.String()](tt.result)

			p := row.Presentation()
			assert.Equal(t, Applied, row.State())
			assert.Equal(t, tt.failed, p.Failed)
			assert.Equal(t, tt.placeholder, p.Placeholder)
			assert.Equal(t, tt.visible, p.Visible)
			assert.False(t, p.Loading)
			assert.Error(t, p.Err)
		})
	}
}

func TestRow_ResetInvalidatesOutstandingRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher, pending := capturingFetcher(ctrl)

	var discards int
	row := NewRow(cache.NewAssetCache(cache.DefaultLimits()), fetcher, OnDiscard(func(int, service.Result) {
		discards++
	}))

	u := mustURL(t, "https://img.example.com/a.png")
	row.Bind(context.Background(), u, 1)
	row.Reset()

	assert.Equal(t, Idle, row.State())
	_, bound := row.Token()
	assert.False(t, bound)

	pending[u.String()](service.Result{Artwork: newArtwork(u.String(), 1, 1)})
	assert.Equal(t, Idle, row.State())
	assert.Nil(t, row.Presentation().Artwork)
	assert.Equal(t, 1, discards)
}

func TestRow_NilURLStaysIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := portmocks.NewMockAssetStore(ctrl)
	fetcher := servicemocks.NewMockArtworkFetcher(ctrl)

	row := NewRow[int](store, fetcher)
	row.Bind(context.Background(), nil, 3)

	assert.Equal(t, Idle, row.State())
	assert.Equal(t, Presentation{}, row.Presentation())
	token, ok := row.Token()
	assert.True(t, ok)
	assert.Equal(t, 3, token)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "awaiting", AwaitingImage.String())
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "discarded", Discarded.String())
	assert.Equal(t, "unknown", State(42).String())
}
