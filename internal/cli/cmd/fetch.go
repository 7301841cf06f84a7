package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/artcache/internal/cli"
	"github.com/bnema/artcache/internal/cli/model"
	"github.com/bnema/artcache/internal/cli/styles"
	"github.com/bnema/artcache/internal/domain/service"
	domainurl "github.com/bnema/artcache/internal/domain/url"
	"github.com/bnema/artcache/internal/infrastructure/artwork"
	"github.com/bnema/artcache/internal/infrastructure/mainloop"
	"github.com/bnema/artcache/internal/logging"
)

var (
	fetchFile     string
	fetchTimeout  time.Duration
	fetchCoalesce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url...]",
	Short: "Fetch artwork and report what the cache kept",
	Long: `Fetch each URL once, concurrently, and print one line per request.

URLs come from the arguments, or one per line from --file (or stdin).
The last column tells whether the image is still cached after every request
has completed, which shows the count and size limits at work.

Examples:
  artcache fetch https://example.com/a.png https://example.com/b.jpg
  artcache fetch --file covers.txt --timeout 5s`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchFile, "file", "f", "", "read URLs from file ('-' for stdin)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0, "per-request timeout (overrides fetch.timeout)")
	fetchCmd.Flags().BoolVar(&fetchCoalesce, "coalesce", false, "share one request between duplicate URLs")
}

// fetchOutcome is one completed request, recorded on the loop goroutine.
type fetchOutcome struct {
	item    model.Item
	result  service.Result
	elapsed time.Duration
}

func runFetch(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	items, err := readItems(args, fetchFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no urls given")
	}

	if cmd.Flags().Changed("timeout") {
		app.Config.Fetch.Timeout = fetchTimeout
	}
	if cmd.Flags().Changed("coalesce") {
		app.Config.Fetch.Coalesce = fetchCoalesce
	}

	outcomes := fetchAll(app, items)
	fmt.Println(renderOutcomes(app, outcomes))
	return nil
}

// fetchAll issues every request and blocks until all completions have run
// on a private main loop.
func fetchAll(app *cli.App, items []model.Item) []fetchOutcome {
	ctx := app.Context()
	log := logging.FromContext(ctx)

	loop := mainloop.New()
	fetcher := app.NewFetcher(loop)
	outcomes := make([]fetchOutcome, len(items))
	remaining := len(items)

	// Requests are issued from the loop like a UI would.
	start := time.Now()
	loop.Post(func() {
		for i, item := range items {
			if item.Err != nil {
				outcomes[i] = fetchOutcome{item: item, result: service.Result{Err: item.Err}}
				remaining--
				continue
			}
			fetcher.FetchImage(ctx, item.URL, func(res service.Result) {
				outcomes[i] = fetchOutcome{item: item, result: res, elapsed: time.Since(start)}
				remaining--
				if remaining == 0 {
					loop.Quit()
				}
			})
		}
		if remaining == 0 {
			loop.Quit()
		}
	})

	loop.Run(ctx)
	log.Debug().Int("requests", len(items)).Dur("elapsed", time.Since(start)).Msg("fetch finished")
	return outcomes
}

func renderOutcomes(app *cli.App, outcomes []fetchOutcome) string {
	theme := app.Theme
	t := styles.NewStyledTable(theme, "URL", "Outcome", "Size", "Cost", "Time", "Cached")

	for _, o := range outcomes {
		outcome := theme.SuccessStyle.Render(styles.IconCheck + " image")
		size, cost, elapsed, cached := "-", "-", "-", "-"

		switch {
		case o.result.Placeholder() && o.result.Is(artwork.ErrTooLarge):
			outcome = theme.WarningStyle.Render(styles.IconWarning + " too large")
		case o.result.Placeholder():
			outcome = theme.WarningStyle.Render(styles.IconWarning + " placeholder")
		case o.result.Err != nil:
			outcome = theme.ErrorStyle.Render(styles.IconX + " " + model.FailureLabel(o.result.Err))
		}
		if art := o.result.Image(); art != nil {
			size = fmt.Sprintf("%dx%d", art.Width(), art.Height())
			cost = styles.FormatSize(art.Cost)
		}
		if o.elapsed > 0 {
			elapsed = o.elapsed.Round(time.Millisecond).String()
		}
		if o.item.URL != nil {
			_, hit := app.Store.Lookup(domainurl.CacheKey(o.item.URL))
			cached = strconv.FormatBool(hit)
		}

		t.Row(styles.Truncate(o.item.Raw, 48), outcome, size, cost, elapsed, cached)
	}

	stats := app.Store.Stats()
	summary := theme.Subtle.Render(fmt.Sprintf(
		"%s %d entries · %s / %s · %d evicted · %d rejected",
		styles.IconCache,
		app.Store.Len(),
		styles.FormatSize(app.Store.TotalCost()),
		styles.FormatSize(app.Store.Limits().MaxTotalCost),
		stats.Evictions,
		stats.Rejected,
	))
	return t.Render() + "\n" + summary
}
