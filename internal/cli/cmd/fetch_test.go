package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/artcache/internal/cli"
	"github.com/bnema/artcache/internal/domain/entity"
	"github.com/bnema/artcache/internal/domain/service"
	"github.com/bnema/artcache/internal/infrastructure/artwork"
	"github.com/bnema/artcache/internal/infrastructure/config"
)

func newTestApp(t *testing.T, content string) *cli.App {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	mgr, err := config.NewManager(config.WithConfigDir(dir))
	require.NoError(t, err)
	a, err := cli.NewApp(mgr, cli.AppOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReadItems(t *testing.T) {
	items, err := readItems([]string{"https://a.test/1.png", "nope"}, "", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NoError(t, items[0].Err)
	assert.Error(t, items[1].Err)

	items, err = readItems(nil, "-", strings.NewReader("# list\nhttps://a.test/2.png\n\n"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://a.test/2.png", items[0].Raw)

	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://a.test/3.png\n"), 0o644))
	items, err = readItems(nil, path, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = readItems(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestFetchAll_ReportsEveryItem(t *testing.T) {
	body := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(body)
		case "/garbage.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := newTestApp(t, "[fetch]\ntimeout = '2s'\n")
	items, err := readItems([]string{
		srv.URL + "/ok.png",
		srv.URL + "/garbage.png",
		srv.URL + "/missing.png",
		"relative.png",
	}, "", nil)
	require.NoError(t, err)

	outcomes := fetchAll(a, items)
	require.Len(t, outcomes, 4)

	assert.NotNil(t, outcomes[0].result.Image())
	assert.True(t, outcomes[1].result.Placeholder())
	assert.True(t, outcomes[2].result.Failed())
	assert.True(t, outcomes[3].result.Failed())
	assert.Equal(t, 1, a.Store.Len())

	out := renderOutcomes(a, outcomes)
	assert.Contains(t, out, "4x4")
	assert.Contains(t, out, "placeholder")
	assert.Contains(t, out, "HTTP 404")
	assert.Contains(t, out, "1 entries")
}

func TestFetchAll_CountLimitEvicts(t *testing.T) {
	body := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	a := newTestApp(t, "[cache]\nmax_count = 2\nmax_total_cost = 1048576\n")
	items, err := readItems([]string{srv.URL + "/1.png", srv.URL + "/2.png", srv.URL + "/3.png"}, "", nil)
	require.NoError(t, err)

	outcomes := fetchAll(a, items)
	for _, o := range outcomes {
		assert.NotNil(t, o.result.Image())
	}
	assert.Equal(t, 2, a.Store.Len())
	assert.Equal(t, uint64(1), a.Store.Stats().Evictions)
}

func TestRenderOutcomes_LabelsTooLarge(t *testing.T) {
	a := newTestApp(t, "")
	tooLarge := fmt.Errorf("%w: %w: body exceeds 1 bytes", artwork.ErrUndecodableBody, artwork.ErrTooLarge)
	outcomes := []fetchOutcome{
		{result: service.Result{Artwork: entity.Placeholder, Err: tooLarge}},
		{result: service.Result{Artwork: entity.Placeholder, Err: artwork.ErrUndecodableBody}},
	}

	out := renderOutcomes(a, outcomes)
	assert.Contains(t, out, "too large")
	assert.Contains(t, out, "placeholder")
}
