package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"listfetch/internal/logging"
	"listfetch/internal/pipeline"
	"listfetch/sink/stdout"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch once and print the grouped list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, counts)
		},
	}
	cmd.Flags().BoolVar(&counts, "counts", false, "Print the item count next to each list header")
	return cmd
}

func runShow(cmd *cobra.Command, opts *rootOptions, counts bool) error {
	out := cmd.OutOrStdout()
	runner, file, err := pipeline.Compile(opts.config, pipeline.Options{
		URL:    opts.url,
		Path:   opts.file,
		Out:    out,
		Counts: counts,
	})
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Refresh(cmd.Context())
	if snap.ID == "" {
		return fmt.Errorf("fetch: %w", err)
	}
	if err != nil {
		logging.L().Warn("snapshot stored but a sink failed", "err", err)
	}

	// The stdout sink already rendered the list when it is configured.
	if !slices.Contains(file.Sinks, "stdout") {
		c := stdout.Config{Counts: counts || file.SinkConfigs.Stdout.Counts, ShowIDs: file.SinkConfigs.Stdout.ShowIDs}
		stdout.Render(out, snap.Groups, c)
	}
	return err
}
