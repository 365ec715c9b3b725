package source

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory builds an Adapter ("http", "file", …).
type Factory func() Adapter

var ErrUnknownDriver = errors.New("source: unknown driver")

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

// Register is called from each driver's init().
func Register(name string, f Factory) {
	regMu.Lock()
	registry[name] = f
	regMu.Unlock()
}

// NewAdapter returns a driver by name.
func NewAdapter(name string) (Adapter, error) {
	regMu.RLock()
	f, ok := registry[name]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, name)
	}
	return f(), nil
}

// Drivers lists registered driver names.
func Drivers() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
