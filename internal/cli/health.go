package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"listfetch/internal/transport"
)

func newHealthCmd() *cobra.Command {
	var (
		target  string
		service string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the gRPC health status of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			st, err := transport.Check(ctx, target, service)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.String())
			if st != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("%s is %s", target, st)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "localhost:7070", "host:port of the gRPC server")
	cmd.Flags().StringVar(&service, "service", transport.ServiceName, "Health service name; empty for the overall status")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "Request timeout")
	return cmd
}
