package cli

import (
	"github.com/spf13/cobra"

	"listfetch/internal/engine"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		grpcPort    int
		metricsPort int
		httpAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the long-lived service (HTTP view, gRPC health, metrics)",
		Long: `Fetches once at startup and keeps the result in memory. POST /api/refresh
fetches again. Ports left unset come from the pipeline file, then from the
defaults (gRPC 7070, metrics 9100, HTTP :8080). A negative port or an
--http-addr of "-" disables that listener.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := engine.Bootstrap(ctx, engine.Config{
				PipelineYml: opts.config,
				URL:         opts.url,
				Path:        opts.file,
				Out:         cmd.OutOrStdout(),
				GRPCPort:    grpcPort,
				MetricsPort: metricsPort,
				HTTPAddr:    httpAddr,
			})
			if err != nil {
				return err
			}
			return e.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "gRPC health port")
	cmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "Prometheus /metrics port")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address for the JSON view")
	return cmd
}
