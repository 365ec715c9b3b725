package source

import (
	"context"

	"listfetch/internal/record"
)

// Adapter retrieves one raw batch of records per Fetch call. Drivers do not
// retry, cache or page; every call is a fresh read.
type Adapter interface {
	Configure(Config) error
	Fetch(context.Context) ([]record.Record, error)
	Close() error
}
