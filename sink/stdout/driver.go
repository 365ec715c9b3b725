package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"listfetch/internal/state"
	"listfetch/internal/transform"
	"listfetch/sink"
)

/* ────────── public config ────────── */
type Config struct {
	PrintCounter bool      `yaml:"print_counter"` // prepend snapshot seq#
	Counts       bool      `yaml:"counts"`        // item count per header
	ShowIDs      bool      `yaml:"show_ids"`      // "#id" after each name
	Out          io.Writer `yaml:"-"`             // defaults to os.Stdout
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config

	mu  sync.Mutex // serialises writes to cfg.Out
	seq uint64
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(_ context.Context, snap state.Snapshot) error {
	var b strings.Builder
	if d.cfg.PrintCounter {
		fmt.Fprintf(&b, "[snapshot %06d] %s\n", atomic.AddUint64(&d.seq, 1), snap.ID)
	}
	Render(&b, snap.Groups, d.cfg)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := io.WriteString(d.cfg.Out, b.String())
	return err
}

func (d *driver) Close() error { return nil }

// Render writes the plain-text grouped view: one "List ID: N" header per
// group followed by its names, indented.
func Render(w io.Writer, groups transform.GroupedResult, cfg Config) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No items")
		return
	}
	for _, g := range groups {
		if cfg.Counts {
			fmt.Fprintf(w, "List ID: %d (%d)\n", g.GroupID, len(g.Records))
		} else {
			fmt.Fprintf(w, "List ID: %d\n", g.GroupID)
		}
		for _, r := range g.Records {
			if cfg.ShowIDs {
				fmt.Fprintf(w, "  %s #%d\n", r.Name.Or(""), r.ID)
			} else {
				fmt.Fprintf(w, "  %s\n", r.Name.Or(""))
			}
		}
	}
}

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
