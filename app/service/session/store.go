package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"frontdesk/app/config"

	"github.com/samber/do"
)

// Store keeps sessions keyed by id. Each session carries its own mutex:
// Checkout holds it for the whole pipeline run, and the sweeper takes it
// before deleting, so a sweep never races an in-flight run destructively.
type Store struct {
	maxAge        time.Duration
	sweepInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewStore(
		time.Duration(cfg.Session.MaxAgeMinutes)*time.Minute,
		time.Duration(cfg.Session.SweepIntervalMinutes)*time.Minute,
	), nil
}

func NewStore(maxAge, sweepInterval time.Duration) *Store {
	return &Store{
		maxAge:        maxAge,
		sweepInterval: sweepInterval,
		sessions:      make(map[string]*entry),
	}
}

// Checkout returns the session for id, creating it if needed (a fresh id is
// generated when id is empty), with its per-session lock held. The caller
// must invoke release when done. Concurrent checkouts of the same id
// serialize here.
func (s *Store) Checkout(id string) (*Session, func()) {
	for {
		s.mu.Lock()
		e, ok := s.sessions[id]
		if !ok {
			sess := newSession(id)
			e = &entry{session: sess}
			s.sessions[sess.ID] = e
		}
		s.mu.Unlock()

		e.mu.Lock()

		// The sweeper may have removed this entry while we waited.
		s.mu.Lock()
		current, ok := s.sessions[e.session.ID]
		if !ok {
			s.sessions[e.session.ID] = e
			current = e
		}
		s.mu.Unlock()

		if current != e {
			e.mu.Unlock()
			id = e.session.ID
			continue
		}

		e.session.LastActivity = time.Now()

		return e.session, e.mu.Unlock
	}
}

// Get returns a snapshot pointer to the session, or nil. The caller must not
// mutate it; use Checkout for that.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil
	}

	return e.session
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[id] != e {
		return false
	}

	delete(s.sessions, id)

	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep removes sessions idle longer than maxAge and returns how many were
// removed. Sessions with an in-flight run are skipped, the next sweep will
// get them. LastActivity is written under the entry mutex, so staleness is
// only checked after TryLock succeeds.
func (s *Store) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	candidates := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		candidates = append(candidates, e)
	}
	s.mu.Unlock()

	removed := 0

	for _, e := range candidates {
		if !e.mu.TryLock() {
			continue
		}

		if e.session.LastActivity.Before(cutoff) {
			s.mu.Lock()
			if s.sessions[e.session.ID] == e {
				delete(s.sessions, e.session.ID)
				removed++
			}
			s.mu.Unlock()
		}

		e.mu.Unlock()
	}

	return removed
}

func (s *Store) RunSweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(s.maxAge); removed > 0 {
				slog.Info("Swept idle sessions",
					"removed", removed,
					"remaining", s.Len(),
				)
			}
		}
	}
}
