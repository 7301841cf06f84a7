package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/artcache/internal/cli/styles"
	"github.com/bnema/artcache/internal/domain/service"
	"github.com/bnema/artcache/internal/infrastructure/artwork"
	"github.com/bnema/artcache/internal/infrastructure/cache"
	"github.com/bnema/artcache/internal/logging"
	"github.com/bnema/artcache/internal/ui/binding"
)

const (
	thumbWidth  = 6
	urlMinWidth = 20

	// Below this terminal width applied rows show a flat colour swatch
	// instead of a scaled thumbnail.
	compactWidth = 60
)

// rowToken identifies what a slot shows: the list position and its URL.
type rowToken struct {
	Index int
	Raw   string
}

// browseCounters is shared by every copy of the model; it is only touched
// from Update.
type browseCounters struct {
	applied   int
	discarded int
}

// bindWindowMsg binds every slot to the current window.
type bindWindowMsg struct{}

// ClearCacheMsg asks the browser to purge the artwork cache.
type ClearCacheMsg struct {
	Reason string
}

// BrowseModel shows a scrolling window of artwork rows. The window has a
// fixed number of slots that are rebound to new items while scrolling.
type BrowseModel struct {
	ctx   context.Context
	theme *styles.Theme
	store *cache.AssetCache

	items  []Item
	rows   []*binding.Row[rowToken]
	offset int
	cursor int

	keys    styles.BrowseKeyMap
	help    help.Model
	spinner spinner.Model
	gauge   progress.Model

	counters *browseCounters
	status   string
	width    int
}

// NewBrowseModel creates the browser. visibleRows is the number of slots.
func NewBrowseModel(
	ctx context.Context,
	theme *styles.Theme,
	store *cache.AssetCache,
	fetcher service.ArtworkFetcher,
	items []Item,
	visibleRows int,
) BrowseModel {
	if visibleRows < 1 {
		visibleRows = 1
	}

	counters := &browseCounters{}
	rows := make([]*binding.Row[rowToken], visibleRows)
	for i := range rows {
		rows[i] = binding.NewRow(store, fetcher,
			binding.OnApply(func(rowToken, binding.Presentation) { counters.applied++ }),
			binding.OnDiscard(func(token rowToken, _ service.Result) {
				counters.discarded++
				logging.FromContext(ctx).Debug().
					Int("index", token.Index).
					Str("url", token.Raw).
					Msg("late artwork result dropped")
			}),
		)
	}

	return BrowseModel{
		ctx:      logging.WithComponent(ctx, "browse"),
		theme:    theme,
		store:    store,
		items:    items,
		rows:     rows,
		keys:     styles.DefaultBrowseKeyMap(),
		help:     styles.NewStyledHelp(theme),
		spinner:  styles.NewDefaultSpinner(theme),
		gauge:    progress.New(progress.WithSolidFill(string(theme.Accent)), progress.WithoutPercentage()),
		counters: counters,
	}
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return bindWindowMsg{} })
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg()
		return m, nil
	case bindWindowMsg:
		m.bindWindow()
		return m, nil
	case ClearCacheMsg:
		return m.clearCache(msg.Reason), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.gauge.Width = max(10, min(40, msg.Width/3))
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Clear):
		m = m.clearCache("key")
	case key.Matches(msg, m.keys.Down):
		m = m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m = m.moveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m = m.scrollTo(m.offset + len(m.rows))
	case key.Matches(msg, m.keys.PageUp):
		m = m.scrollTo(m.offset - len(m.rows))
	}
	return m, nil
}

func (m BrowseModel) moveCursor(delta int) BrowseModel {
	target := m.offset + m.cursor + delta
	if target < 0 || target >= len(m.items) {
		return m
	}
	switch {
	case target < m.offset:
		m = m.scrollTo(target)
	case target >= m.offset+len(m.rows):
		m = m.scrollTo(target - len(m.rows) + 1)
	}
	m.cursor = target - m.offset
	return m
}

func (m BrowseModel) scrollTo(offset int) BrowseModel {
	maxOffset := max(0, len(m.items)-len(m.rows))
	offset = max(0, min(offset, maxOffset))
	if offset == m.offset {
		return m
	}
	m.offset = offset
	m.cursor = min(m.cursor, max(0, min(len(m.rows), len(m.items)-m.offset)-1))
	m.bindWindow()
	return m
}

// bindWindow points every slot at the item it now shows. Slots already
// showing the right item keep their state.
func (m BrowseModel) bindWindow() {
	for i, row := range m.rows {
		idx := m.offset + i
		if idx >= len(m.items) {
			row.Reset()
			continue
		}
		it := m.items[idx]
		token := rowToken{Index: idx, Raw: it.Raw}
		if current, ok := row.Token(); ok && current == token {
			continue
		}
		row.Bind(m.ctx, it.URL, token)
	}
}

func (m BrowseModel) clearCache(reason string) BrowseModel {
	n := m.store.Len()
	m.store.Clear()
	m.status = fmt.Sprintf("cache cleared (%s): %d entries dropped", reason, n)
	logging.FromContext(m.ctx).Info().Str("reason", reason).Int("entries", n).Msg("artwork cache cleared")
	return m
}

// Offset returns the index of the first visible item.
func (m BrowseModel) Offset() int {
	return m.offset
}

// Rows returns the slots, top to bottom.
func (m BrowseModel) Rows() []*binding.Row[rowToken] {
	return m.rows
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	for i, row := range m.rows {
		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m BrowseModel) renderHeader() string {
	title := m.theme.Title.Render(styles.IconImage + " artcache")
	if len(m.items) == 0 {
		return title + "  " + m.theme.Subtle.Render("no urls")
	}
	last := min(len(m.items), m.offset+len(m.rows))
	info := fmt.Sprintf("%d urls · showing %d-%d", len(m.items), m.offset+1, last)
	return title + "  " + m.theme.Subtle.Render(info)
}

func (m BrowseModel) renderRow(slot int, row *binding.Row[rowToken]) string {
	idx := m.offset + slot
	if idx >= len(m.items) {
		return ""
	}
	it := m.items[idx]

	marker := "  "
	style := m.theme.ListItem
	if slot == m.cursor {
		marker = m.theme.Highlight.Render("▶ ")
		style = m.theme.ListItemSelected
	}

	var visual, detail string
	p := row.Presentation()
	switch {
	case it.Err != nil:
		visual = m.theme.ErrorBadge("invalid")
		detail = m.theme.ErrorStyle.Render(it.Err.Error())
	case p.Loading:
		visual = m.spinner.View() + strings.Repeat(" ", thumbWidth-1)
		detail = m.theme.Subtle.Render("loading")
	case p.Placeholder:
		visual = m.theme.WarningBadge("??")
		label := "not an image"
		if errors.Is(p.Err, artwork.ErrTooLarge) {
			label = "too large"
		}
		detail = m.theme.WarningStyle.Render(label)
	case p.Failed:
		visual = m.theme.ErrorBadge(styles.IconX)
		detail = m.theme.ErrorStyle.Render(FailureLabel(p.Err))
	case p.Visible:
		visual = m.renderArtwork(p)
		detail = fmt.Sprintf("%dx%d · %s", p.Artwork.Width(), p.Artwork.Height(), styles.FormatSize(p.Artwork.Cost))
	default:
		visual = strings.Repeat(" ", thumbWidth)
		detail = m.theme.Subtle.Render(row.State().String())
	}

	urlWidth := urlMinWidth
	if m.width > 0 {
		urlWidth = max(urlMinWidth, m.width-thumbWidth-40)
	}
	text := fmt.Sprintf("%3d  %s", idx+1, styles.Truncate(it.Raw, urlWidth))

	return marker + lipgloss.JoinHorizontal(lipgloss.Top, visual, " ", style.Render(text), "  ", detail)
}

func (m BrowseModel) renderArtwork(p binding.Presentation) string {
	if m.width > 0 && m.width < compactWidth {
		if c, ok := p.Artwork.CenterColor(); ok {
			return styles.Swatch(c, thumbWidth)
		}
	}
	return styles.Thumbnail(p.Artwork.Image, thumbWidth, 1)
}

func (m BrowseModel) renderFooter() string {
	limits := m.store.Limits()
	used := m.store.TotalCost()
	ratio := 0.0
	if limits.MaxTotalCost > 0 {
		ratio = float64(used) / float64(limits.MaxTotalCost)
	}

	stats := m.store.Stats()
	lines := []string{
		fmt.Sprintf("%s %s  %s / %s  %d/%d entries",
			styles.IconCache,
			m.gauge.ViewAs(ratio),
			styles.FormatSize(used),
			styles.FormatSize(limits.MaxTotalCost),
			m.store.Len(),
			limits.MaxCount,
		),
		m.theme.Subtle.Render(fmt.Sprintf(
			"hits %d · misses %d · evictions %d · rejected %d · applied %d · discarded %d",
			stats.Hits, stats.Misses, stats.Evictions, stats.Rejected,
			m.counters.applied, m.counters.discarded,
		)),
	}
	if m.status != "" {
		lines = append(lines, m.theme.Highlight.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))

	return strings.Join(lines, "\n")
}

// FailureLabel names a fetch failure in a few words.
func FailureLabel(err error) string {
	var statusErr *artwork.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	case errors.Is(err, artwork.ErrEmptyBody):
		return "empty body"
	case errors.Is(err, artwork.ErrTransport):
		return "network error"
	case err != nil:
		return err.Error()
	default:
		return "failed"
	}
}
