package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"listfetch/internal/api"
	"listfetch/internal/logging"
	"listfetch/internal/pipeline"
	"listfetch/internal/state"
	"listfetch/internal/telemetry"
	"listfetch/internal/transport"
)

const shutdownTimeout = 5 * time.Second

type Engine struct {
	transport *transport.Server
	api       *api.Server
	metrics   *http.Server
	runner    *pipeline.Runner
}

func (e *Engine) Store() *state.Store { return e.runner.Store() }

// Run serves until ctx is cancelled or a listener fails, then stops every
// component and closes the pipeline.
func (e *Engine) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if e.transport != nil {
		g.Go(e.transport.Serve)
		g.Go(func() error {
			e.transport.Track(gctx, e.runner.Store())
			return nil
		})
	}
	if e.api != nil {
		g.Go(e.api.Run)
	}
	g.Go(func() error {
		<-gctx.Done()
		return e.shutdown()
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

func (e *Engine) shutdown() error {
	logging.L().Info("engine shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if e.api != nil {
		errs = append(errs, e.api.Shutdown(ctx))
	}
	errs = append(errs, telemetry.Shutdown(ctx, e.metrics))
	if e.transport != nil {
		e.transport.Stop()
	}
	errs = append(errs, e.runner.Close())
	return errors.Join(errs...)
}
