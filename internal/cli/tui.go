package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"listfetch/internal/logging"
	"listfetch/internal/pipeline"
	"listfetch/internal/ui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var (
		expandAll bool
		theme     string
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the grouped list with collapsible groups",
		Long: `Opens an interactive view of the grouped list. Groups start collapsed
unless --expand-all is given.

Keys: up/down (k/j) move, enter/space toggle, e/c expand/collapse all,
r refresh, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, file, err := pipeline.Compile(opts.config, pipeline.Options{
				URL:     opts.url,
				Path:    opts.file,
				NoSinks: true,
			})
			if err != nil {
				return err
			}
			if logFile == "" {
				logFile = file.UI.LogFile
			}
			closer, err := redirectLogs(logFile, opts)
			if err != nil {
				_ = runner.Close()
				return err
			}
			defer closer.Close()

			if theme == "" {
				theme = file.UI.Theme
			}
			// refreshes belong to this session and stop with it
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			m := ui.NewModel(runner.Store(), func() { runner.Trigger(ctx) }, ui.Options{
				ExpandAll: expandAll || file.UI.ExpandAll,
				Theme:     theme,
			})
			runner.Trigger(ctx)

			err = runUI(ctx, m)
			cancel()
			if cerr := runner.Close(); cerr != nil {
				logging.L().Warn("closing pipeline", "err", cerr)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Start with every group expanded")
	cmd.Flags().StringVar(&theme, "theme", "", "Color theme: light, dark or auto")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the UI owns the terminal")
	return cmd
}

// runUI is swapped in tests, which have no terminal.
var runUI = ui.Run

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// redirectLogs moves logging off the terminal: into path when given,
// otherwise nowhere.
func redirectLogs(path string, opts *rootOptions) (io.Closer, error) {
	if path == "" {
		logging.Discard()
		return nopCloser{}, nil
	}
	lo := logging.FromEnv()
	if opts.logLevel != "" {
		lo.Level = opts.logLevel
	}
	lo.JSON = lo.JSON || opts.logJSON
	return logging.ToFile(path, lo)
}
