package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whmcsguru/ExceptionParser/internal/aggregator"
	"github.com/whmcsguru/ExceptionParser/internal/logging"
	"github.com/whmcsguru/ExceptionParser/internal/processor"
	"github.com/whmcsguru/ExceptionParser/internal/source"
)

var viewCmd = &cobra.Command{
	Use:   "view [paths...]",
	Short: "Translate the errors in one or more log files",
	Long: `Read each log file from start to finish. Structured error entries are
expanded into diagnostic blocks; all other lines are printed as-is.

Examples:
  exparse view /var/www/storage/logs/laravel.log
  exparse view "/var/log/php/**/*.log" --summary
  exparse view app.log --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	paths, err := source.Expand(args)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// Open every file up front so a bad one fails before anything is printed.
	files := make([]*source.File, 0, len(paths))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, path := range paths {
		f, err := source.Open(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	agg := aggregator.New()
	sink := &tallyRenderer{next: renderer, agg: agg}
	proc := processor.New()

	for _, f := range files {
		logging.Debug("viewing file", "path", f.Path())
		n, err := proc.Run(cmd.Context(), f, sink)
		if err != nil {
			return fmt.Errorf("processing %s: %w", f.Path(), err)
		}
		logging.Debug("finished file", "path", f.Path(), "lines", n)
	}

	if viper.GetBool("summary") {
		return aggregator.WriteSummary(cmd.ErrOrStderr(), agg.Snapshot())
	}
	return nil
}
