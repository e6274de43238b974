// Package session keeps the per form entry state in memory
// every command for one session runs under that session's lock, so a
// session sees a serialized command stream while sessions run in parallel
package session

import (
	"context"
	"sync"
	"time"

	"fieldnote/internal/core/batch"
	"fieldnote/internal/core/entry"
	perr "fieldnote/internal/platform/errors"
	ptime "fieldnote/internal/platform/time"

	"github.com/google/uuid"
)

// State is one technician's form: entry rows plus the active batch
type State struct {
	ID     string
	User   string
	Locked bool

	Entry entry.State
	KitID string
	Batch []batch.Record

	touched time.Time
}

type slot struct {
	mu sync.Mutex
	st State
	// gone is set once the slot left the map; late waiters must not use it
	gone bool
}

// Store holds sessions until they sit idle longer than ttl
type Store struct {
	ttl   time.Duration
	clock ptime.Clock

	mu    sync.Mutex
	slots map[string]*slot
}

// DefaultTTL is the idle expiry when none is configured
const DefaultTTL = 12 * time.Hour

// NewStore returns an empty store
func NewStore(ttl time.Duration, clock ptime.Clock) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, clock: clock.Or(), slots: map[string]*slot{}}
}

// Create registers a new session and returns its state
func (s *Store) Create(user string, locked bool, start entry.State) State {
	now := s.clock()
	st := State{ID: uuid.NewString(), User: user, Locked: locked, Entry: start, Batch: []batch.Record{}, touched: now}

	s.mu.Lock()
	s.sweepLocked(now)
	s.slots[st.ID] = &slot{st: st}
	s.mu.Unlock()
	return st
}

// Do runs fn with exclusive access to the session and stores the state fn leaves
// fn's error leaves the stored state untouched
func (s *Store) Do(ctx context.Context, id string, fn func(st *State) error) (State, error) {
	s.mu.Lock()
	sl, ok := s.slots[id]
	s.mu.Unlock()
	if !ok {
		return State{}, notFound(id)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.gone {
		return State{}, notFound(id)
	}
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	now := s.clock()
	if now.Sub(sl.st.touched) >= s.ttl {
		s.remove(id, sl)
		return State{}, notFound(id)
	}

	// entry commands never mutate their input, so only the batch needs a copy
	work := sl.st
	work.Batch = batch.Clone(sl.st.Batch)
	if err := fn(&work); err != nil {
		return sl.st, err
	}
	work.touched = now
	sl.st = work
	return work, nil
}

// Delete drops a session
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	sl, ok := s.slots[id]
	s.mu.Unlock()
	if !ok {
		return false
	}
	sl.mu.Lock()
	s.remove(id, sl)
	sl.mu.Unlock()
	return true
}

// Len is the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// ExpiresAt is when st expires if left idle
func (s *Store) ExpiresAt(st State) time.Time { return st.touched.Add(s.ttl) }

// Sweep drops every session idle past the ttl
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.clock())
}

// sweepLocked needs s.mu; busy slots are skipped and caught next time
func (s *Store) sweepLocked(now time.Time) int {
	n := 0
	for id, sl := range s.slots {
		if !sl.mu.TryLock() {
			continue
		}
		if now.Sub(sl.st.touched) >= s.ttl {
			sl.gone = true
			delete(s.slots, id)
			n++
		}
		sl.mu.Unlock()
	}
	return n
}

// remove needs sl.mu
func (s *Store) remove(id string, sl *slot) {
	sl.gone = true
	s.mu.Lock()
	if s.slots[id] == sl {
		delete(s.slots, id)
	}
	s.mu.Unlock()
}

func notFound(id string) error {
	return perr.WithField(perr.NotFoundf("session %q not found or expired", id), "session")
}
