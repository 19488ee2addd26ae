package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whmcsguru/ExceptionParser/internal/aggregator"
	"github.com/whmcsguru/ExceptionParser/internal/logging"
	"github.com/whmcsguru/ExceptionParser/internal/processor"
	"github.com/whmcsguru/ExceptionParser/internal/source"
	"github.com/whmcsguru/ExceptionParser/internal/tailer"
	"github.com/whmcsguru/ExceptionParser/internal/watcher"
)

var fromStart bool

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Follow log files and translate new errors as they are written",
	Long: `Watch one or more log files (or glob patterns) and translate lines as
they are appended. Press Ctrl+C to stop.

Examples:
  exparse watch /var/www/storage/logs/laravel.log
  exparse watch "/var/log/php/*.log" --from-start`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&fromStart, "from-start", false, "process existing content before following")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	renderer, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// --- Initialize watcher ---
	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watchedPaths := w.Paths()
	if len(watchedPaths) == 0 {
		_ = w.Close()
		return fmt.Errorf("%w: %v", source.ErrSourceNotFound, args)
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "exparse watching %d file(s):\n", len(watchedPaths))
	for _, p := range watchedPaths {
		fmt.Fprintf(stderr, "   • %s\n", p)
	}
	fmt.Fprintln(stderr)

	// --- Start pipeline ---
	t := tailer.New(w, fromStart)
	go w.Start(ctx)
	go t.Start(ctx)

	agg := aggregator.New()
	n, err := processor.New().Run(ctx, processor.FromChannel(t.Lines()), &tallyRenderer{next: renderer, agg: agg})
	logging.Debug("watch stopped", "lines", n)

	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	if viper.GetBool("summary") {
		return aggregator.WriteSummary(stderr, agg.Snapshot())
	}
	return nil
}
