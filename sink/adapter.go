package sink

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"listfetch/internal/state"
)

// Adapter is the common behaviour every snapshot sink exposes.
type Adapter interface {
	Configure(any) error                        // driver-specific config struct
	Push(context.Context, state.Snapshot) error // publish one snapshot
	Close() error                               // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q (available: %s)", name, strings.Join(Names(), ", "))
}

func Names() []string {
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
