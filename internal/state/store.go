// Package state holds the current fetch result and loading flag behind an
// explicit container. Presentation layers receive a *Store and either read
// View() or Subscribe to changes; there is no package-level state.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"listfetch/internal/record"
	"listfetch/internal/transform"
)

// Snapshot is the outcome of one successful fetch cycle. It is never
// mutated after construction.
type Snapshot struct {
	ID        string                  `json:"id"`
	Groups    transform.GroupedResult `json:"groups"`
	Items     []record.Record         `json:"items"`
	Stats     transform.Stats         `json:"stats"`
	FetchedAt time.Time               `json:"fetched_at"`
}

func NewSnapshot(groups transform.GroupedResult, stats transform.Stats, at time.Time) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Groups:    groups,
		Items:     groups.Flatten(),
		Stats:     stats,
		FetchedAt: at,
	}
}

// View is what observers see.
type View struct {
	Snapshot Snapshot
	Ready    bool // at least one snapshot has been stored
	Loading  bool
	Err      error // last fetch failure, cleared by the next success
	Version  uint64
}

type Store struct {
	mu      sync.Mutex
	cur     View
	subs    map[int]chan View
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: map[int]chan View{}}
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Begin marks a fetch as in flight.
func (s *Store) Begin() {
	s.update(func(v *View) { v.Loading = true })
}

// Complete replaces the snapshot and clears loading and error.
func (s *Store) Complete(snap Snapshot) {
	s.update(func(v *View) {
		v.Snapshot = snap
		v.Ready = true
		v.Loading = false
		v.Err = nil
	})
}

// Fail records err and clears loading. The previous snapshot is kept.
func (s *Store) Fail(err error) {
	s.update(func(v *View) {
		v.Loading = false
		v.Err = err
	})
}

// Subscribe returns a channel receiving the current view followed by every
// change. A subscriber that falls behind skips intermediate views; the most
// recent one is always delivered. cancel closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan View, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan View, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.cur
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func (s *Store) update(fn func(*View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cur)
	s.cur.Version++
	for _, ch := range s.subs {
		deliver(ch, s.cur)
	}
}

// deliver never blocks: when the buffer is full the oldest pending view is
// dropped to make room.
func deliver(ch chan View, v View) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
