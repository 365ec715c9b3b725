// Package cli wires the listfetch commands with cobra.
package cli

import (
	"github.com/spf13/cobra"

	"listfetch/internal/logging"
)

// rootOptions are the persistent flags shared by every sub-command.
type rootOptions struct {
	config   string
	url      string
	file     string
	logLevel string
	logJSON  bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "listfetch",
		Short: "listfetch - fetch, filter and group a remote JSON list",
		Long: `listfetch downloads a JSON array of {id, listId, name} records, drops the
ones without a usable name, sorts them by list id then name and groups them.

The result can be printed once (show), browsed interactively (tui) or
served over HTTP and gRPC health (serve).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd, opts)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.config, "config", "c", "", "Path to the pipeline YAML file")
	pf.StringVar(&opts.url, "url", "", "Fetch from this URL (forces the http source)")
	pf.StringVar(&opts.file, "file", "", "Read the list from a local JSON file (forces the file source)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (env LISTFETCH_LOG_LEVEL)")
	pf.BoolVar(&opts.logJSON, "log-json", false, "Emit JSON logs (env LISTFETCH_LOG_JSON)")

	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newTUICmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// configureLogging applies the environment first, then any flag the user
// set explicitly.
func configureLogging(cmd *cobra.Command, opts *rootOptions) {
	lo := logging.FromEnv()
	if cmd.Flags().Changed("log-level") {
		lo.Level = opts.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		lo.JSON = opts.logJSON
	}
	lo.Output = cmd.ErrOrStderr()
	logging.Configure(lo)
}
