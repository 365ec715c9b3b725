package pipeline

import (
	"fmt"
	"io"

	"listfetch/internal/config"
	"listfetch/internal/spec"
	"listfetch/internal/state"
	"listfetch/internal/telemetry"
	"listfetch/sink"
	"listfetch/sink/kafka"
	"listfetch/sink/stdout"
	"listfetch/source"
)

// Options are command-line overrides applied on top of the pipeline file.
type Options struct {
	URL     string    // forces the http driver at this URL
	Path    string    // forces the file driver at this path
	Out     io.Writer // stdout sink destination
	NoSinks bool      // skip configured sinks (interactive UI)
	Counts  bool      // force item counts on the stdout sink
	Metrics *telemetry.Metrics
}

// Compile loads the pipeline file at path (or the defaults when path is
// empty) and returns a wired Runner.
func Compile(path string, opts Options) (*Runner, spec.File, error) {
	file, confPath := config.Default(), ""
	if path != "" {
		var err error
		file, confPath, err = config.LoadPipelineSpec(path)
		if err != nil {
			return nil, file, err
		}
	}
	r := NewRunner(state.NewStore(), opts.Metrics)
	if err := Load(file, confPath, r, opts); err != nil {
		_ = r.Close()
		return nil, file, err
	}
	return r, file, nil
}

func Load(cfg spec.File, confPath string, r *Runner, opts Options) error {
	sc, err := config.LoadSourceConfig(confPath)
	if err != nil {
		return fmt.Errorf("source config: %w", err)
	}
	if cfg.Source.Driver != "" {
		sc.Driver = cfg.Source.Driver
	}
	switch {
	case opts.URL != "":
		sc.Driver, sc.URL = "http", opts.URL
	case opts.Path != "":
		sc.Driver, sc.Path = "file", opts.Path
	}
	source.ApplyDefaults(&sc)

	src, err := source.NewAdapter(sc.Driver)
	if err != nil {
		return err
	}
	if err = src.Configure(sc); err != nil {
		return err
	}
	r.SetSource(src)

	if opts.NoSinks {
		return nil
	}
	for _, name := range cfg.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return err
		}

		switch name {
		case "stdout":
			c := cfg.SinkConfigs.Stdout
			err = sDrv.Configure(stdout.Config{
				PrintCounter: c.PrintCounter,
				Counts:       c.Counts || opts.Counts,
				ShowIDs:      c.ShowIDs,
				Out:          opts.Out,
			})
		case "kafka":
			c := cfg.SinkConfigs.Kafka
			err = sDrv.Configure(kafka.Config{
				Brokers:  c.Brokers,
				Topic:    c.Topic,
				Acks:     c.RequiredAcks,
				ClientID: c.ClientID,
			})
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return err
		}
		r.AddSink(name, sDrv)
	}
	return nil
}
