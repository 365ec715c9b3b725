package source

import (
	"context"
	"errors"
	"os"

	"listfetch/internal/record"
)

// fileDriver reads the same JSON payload from disk; handy for fixtures and
// demos without network access.
type fileDriver struct {
	cfg Config
}

func (d *fileDriver) Configure(cfg Config) error {
	if cfg.Path == "" {
		return errors.New("file-source: path is required")
	}
	d.cfg = cfg
	return nil
}

func (d *fileDriver) Fetch(ctx context.Context) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Target: d.cfg.Path, Err: err}
	}
	raw, err := os.ReadFile(d.cfg.Path)
	if err != nil {
		return nil, &TransportError{Target: d.cfg.Path, Err: err}
	}
	recs, err := record.DecodeList(raw)
	if err != nil {
		return nil, &DecodeError{Target: d.cfg.Path, Err: err}
	}
	return recs, nil
}

func (d *fileDriver) Close() error { return nil }

func init() { Register("file", func() Adapter { return &fileDriver{} }) }
