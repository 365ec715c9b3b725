package engine

import (
	"context"
	"fmt"
	"io"
	"net"

	"listfetch/internal/api"
	"listfetch/internal/logging"
	"listfetch/internal/pipeline"
	"listfetch/internal/telemetry"
	"listfetch/internal/transport"
)

const (
	DefaultGRPCPort    = 7070
	DefaultMetricsPort = 9100
	DefaultHTTPAddr    = ":8080"
)

// Config overrides the server section of the pipeline file. Zero values fall
// back to the file, then to the defaults; a negative port or an HTTPAddr of
// "-" disables that listener.
type Config struct {
	PipelineYml string
	URL         string
	Path        string
	Out         io.Writer

	GRPCPort    int
	MetricsPort int
	HTTPAddr    string

	GRPCListener net.Listener // takes precedence over GRPCPort
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	m := telemetry.NewMetrics()

	// 1. pipeline runner
	runner, file, err := pipeline.Compile(cfg.PipelineYml, pipeline.Options{
		URL:     cfg.URL,
		Path:    cfg.Path,
		Out:     cfg.Out,
		Metrics: m,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	e := &Engine{runner: runner}

	// 2. transport server
	switch {
	case cfg.GRPCListener != nil:
		e.transport = transport.NewServer(cfg.GRPCListener)
	default:
		if port := pickPort(cfg.GRPCPort, file.Server.GRPCPort, DefaultGRPCPort); port > 0 {
			srv, err := transport.StartServer(port)
			if err != nil {
				_ = runner.Close()
				return nil, fmt.Errorf("transport: %w", err)
			}
			e.transport = srv
		}
	}

	// 3. http view
	if addr := pickAddr(cfg.HTTPAddr, file.Server.HTTPAddr, DefaultHTTPAddr); addr != "" {
		e.api = api.NewServer(addr, api.NewHandler(runner.Store(), runner))
	}

	// 4. metrics
	if port := pickPort(cfg.MetricsPort, file.Server.MetricsPort, DefaultMetricsPort); port > 0 {
		e.metrics = telemetry.Expose(port, m)
	}

	logging.L().Info("engine bootstrapped",
		"grpc", e.transport != nil,
		"http", e.api != nil,
		"metrics", e.metrics != nil,
		"sinks", file.Sinks,
	)

	// 5. initial fetch
	runner.Trigger(ctx)
	return e, nil
}

func pickPort(flag, file, def int) int {
	switch {
	case flag != 0:
		return flag
	case file != 0:
		return file
	}
	return def
}

func pickAddr(flag, file, def string) string {
	v := def
	switch {
	case flag != "":
		v = flag
	case file != "":
		v = file
	}
	if v == "-" {
		return ""
	}
	return v
}
