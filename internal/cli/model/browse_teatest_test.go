package model

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/artcache/internal/cli/styles"
	"github.com/bnema/artcache/internal/infrastructure/artwork"
	"github.com/bnema/artcache/internal/infrastructure/cache"
)

func TestBrowse_Teatest_LoadsVisibleRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for x := 0; x < 6; x++ {
		img.Set(x, 2, color.RGBA{G: 200, A: 255})
	}
	var body bytes.Buffer
	require.NoError(t, png.Encode(&body, img))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body.Bytes())
	}))
	defer srv.Close()

	var list strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&list, "%s/%d.png\n", srv.URL, i)
	}
	items, err := ParseItems(strings.NewReader(list.String()))
	require.NoError(t, err)

	ctx := context.Background()
	store := cache.NewAssetCache(cache.DefaultLimits())

	var tm *teatest.TestModel
	dispatcher := NewTeaDispatcher(func(msg tea.Msg) { tm.Send(msg) })
	fetcher := artwork.NewFetcher(store, dispatcher, artwork.WithTimeout(2*time.Second))

	m := NewBrowseModel(ctx, styles.NewTheme(), store, fetcher, items, 3)
	tm = teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 30))
	dispatcher.Start(ctx)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("applied 3"))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	dispatcher.Stop()

	final := tm.FinalModel(t).(BrowseModel)
	assert.Equal(t, 3, store.Len())
	for _, row := range final.Rows() {
		p := row.Presentation()
		assert.True(t, p.Visible)
		assert.Equal(t, 6, p.Artwork.Width())
	}
}
