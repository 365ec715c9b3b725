package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"listfetch/internal/logging"
	"listfetch/internal/state"
	"listfetch/internal/telemetry"
	"listfetch/internal/transform"
	"listfetch/sink"
	"listfetch/source"
)

var ErrNoSource = errors.New("runner: no source configured")

type namedSink struct {
	name string
	sink.Adapter
}

// Runner drives one fetch cycle per trigger: source -> transform -> store ->
// sinks. Overlapping triggers join the fetch already in flight.
type Runner struct {
	source  source.Adapter
	sinks   []namedSink
	store   *state.Store
	metrics *telemetry.Metrics
	now     func() time.Time

	flight singleflight.Group
	wg     sync.WaitGroup

	// base scopes the shared fetch; only Close cancels it.
	base context.Context
	stop context.CancelFunc
}

func NewRunner(store *state.Store, m *telemetry.Metrics) *Runner {
	if store == nil {
		store = state.NewStore()
	}
	base, stop := context.WithCancel(context.Background())
	return &Runner{store: store, metrics: m, now: time.Now, base: base, stop: stop}
}

func (r *Runner) SetSource(s source.Adapter)          { r.source = s }
func (r *Runner) AddSink(name string, s sink.Adapter) { r.sinks = append(r.sinks, namedSink{name, s}) }
func (r *Runner) Store() *state.Store                 { return r.store }

// Refresh fetches, transforms and publishes a new snapshot. Callers that
// arrive while a fetch is in flight share its result, including its error.
// On fetch failure the previous snapshot stays in the store.
//
// The fetch itself runs under the runner's lifetime, not ctx: a caller whose
// ctx ends stops waiting and gets ctx.Err(), while the fetch completes for
// everyone else.
func (r *Runner) Refresh(ctx context.Context) (state.Snapshot, error) {
	ch := r.flight.DoChan("refresh", func() (any, error) {
		return r.refresh(r.base)
	})
	select {
	case <-ctx.Done():
		return state.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logging.L().Debug("runner: joined in-flight refresh")
		}
		snap, _ := res.Val.(state.Snapshot)
		return snap, res.Err
	}
}

// Trigger starts a Refresh in the background and returns immediately.
// Results are observed through the store.
func (r *Runner) Trigger(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, _ = r.Refresh(ctx)
	}()
}

// Wait blocks until every Trigger-ed refresh has finished.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) refresh(ctx context.Context) (state.Snapshot, error) {
	if r.source == nil {
		return state.Snapshot{}, ErrNoSource
	}
	log := logging.L()
	start := r.now()
	r.store.Begin()

	recs, err := r.source.Fetch(ctx)
	if err != nil {
		outcome := classify(err)
		r.metrics.ObserveFetch(outcome, time.Since(start))
		log.Error("fetch failed", "outcome", outcome, "err", err)
		r.store.Fail(err)
		return state.Snapshot{}, err
	}

	groups, stats := transform.TransformWithStats(recs)
	snap := state.NewSnapshot(groups, stats, r.now())
	r.store.Complete(snap)
	r.metrics.ObserveFetch("ok", time.Since(start))
	r.metrics.ObserveSnapshot(stats)
	log.Info("fetch complete",
		"snapshot", snap.ID,
		"received", stats.Received,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
		"groups", stats.Groups,
		"took", time.Since(start).Round(time.Millisecond))

	return snap, r.pushSnapshot(ctx, snap)
}

/*──────── snapshot routing ───────*/
func (r *Runner) pushSnapshot(ctx context.Context, snap state.Snapshot) error {
	var errs []error
	for _, s := range r.sinks {
		err := s.Push(ctx, snap)
		r.metrics.ObserveSink(s.name, err)
		if err != nil {
			logging.L().Warn("sink push failed", "sink", s.name, "snapshot", snap.ID, "err", err)
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func classify(err error) string {
	var te *source.TransportError
	var de *source.DecodeError
	switch {
	case errors.As(err, &de):
		return "decode_error"
	case errors.As(err, &te):
		return "transport_error"
	default:
		return "error"
	}
}

// Close cancels any fetch in flight, waits for background refreshes, then
// closes the source and sinks.
func (r *Runner) Close() error {
	r.stop()
	r.wg.Wait()
	var errs []error
	if r.source != nil {
		errs = append(errs, r.source.Close())
	}
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
