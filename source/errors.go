package source

import "fmt"

// TransportError covers connectivity failures, non-2xx responses and
// unreadable bodies.
type TransportError struct {
	Target string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: %s: status %d: %v", e.Target, e.Status, e.Err)
	}
	return fmt.Sprintf("transport: %s: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the payload arrived but is not a list of records.
type DecodeError struct {
	Target string
	Err    error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode: %s: %v", e.Target, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
