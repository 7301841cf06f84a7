package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/artcache/internal/cli/model"
	"github.com/bnema/artcache/internal/logging"
)

var (
	browseFile string
	browseRows int
)

var browseCmd = &cobra.Command{
	Use:   "browse [url...]",
	Short: "Scroll through a list of artwork URLs",
	Long: `Open a full-screen list of artwork URLs, one recycled row per visible slot.

Rows show a spinner while their image loads, then a small thumbnail. Scrolling
rebinds the rows to new items and responses for items scrolled away are
dropped, but still land in the cache.

Press 'c' to clear the cache. Sending SIGUSR1 to the process does the same,
the way a memory-pressure warning would.

Examples:
  artcache browse --file covers.txt
  curl -s https://example.com/covers.txt | artcache browse`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVarP(&browseFile, "file", "f", "", "read URLs from file ('-' for stdin)")
	browseCmd.Flags().IntVar(&browseRows, "rows", 0, "number of visible rows (overrides browse.visible_rows)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	items, err := readItems(args, browseFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no urls given")
	}

	rows := app.Config.Browse.VisibleRows
	if cmd.Flags().Changed("rows") {
		rows = browseRows
	}

	ctx, cancel := context.WithCancel(logging.WithComponent(app.Context(), "browse"))
	defer cancel()
	log := logging.FromContext(ctx)

	var p *tea.Program
	dispatcher := model.NewTeaDispatcher(func(msg tea.Msg) { p.Send(msg) })
	if err := app.WatchConfig(dispatcher); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
	fetcher := app.NewFetcher(dispatcher)

	m := model.NewBrowseModel(ctx, app.Theme, app.Store, fetcher, items, rows)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if len(args) == 0 && (browseFile == "" || browseFile == "-") {
		// The list came through stdin, so keys must come from the terminal.
		opts = append(opts, tea.WithInputTTY())
	}
	p = tea.NewProgram(m, opts...)

	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	stopSignals := forwardClearSignal(ctx, p)
	defer stopSignals()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	log.Debug().
		Int("entries", app.Store.Len()).
		Int64("cost", app.Store.TotalCost()).
		Int("in_flight", fetcher.InFlight()).
		Msg("browser closed")
	return nil
}

// forwardClearSignal turns the clear-cache signal into a ClearCacheMsg.
func forwardClearSignal(ctx context.Context, p *tea.Program) func() {
	sigCh := make(chan os.Signal, 1)
	if !notifyClearCache(sigCh) {
		return func() {}
	}

	log := logging.FromContext(ctx)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("clearing artwork cache")
				p.Send(model.ClearCacheMsg{Reason: sig.String()})
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
