// Package session holds the process-wide session store: the cached identity
// and profile, the initialization lifecycle, and change notifications.
//
// Every write is tagged with a generation taken from a monotonically
// increasing counter when the write starts. A write is applied only if its
// generation is newer than the last applied one, so a slow identity check can
// never overwrite the result of a call that started after it.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/campuslink/internal/client/models"
	"github.com/dmitrijs2005/campuslink/internal/logging"
)

// Status is the lifecycle of the store.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// IdentitySource is the slice of the gateway the store reads from.
type IdentitySource interface {
	GetCurrentIdentity(ctx context.Context) (*models.Identity, error)
	GetProfile(ctx context.Context, identityID string) (*models.Profile, error)
}

// Listener receives the session after every applied change.
type Listener func(models.Session)

// Reader is the read-only view handed to UI code and the route guard.
type Reader interface {
	Snapshot() models.Session
	Status() Status
	Subscribe(l Listener) (unsubscribe func())
}

// Store is the single source of truth for the session. Only the auth
// controller writes to it; everything else should depend on Reader.
type Store struct {
	source IdentitySource
	log    logging.Logger

	mu       sync.Mutex
	current  models.Session
	issued   uint64
	applied  uint64
	inFlight int

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

var _ Reader = (*Store)(nil)

func NewStore(source IdentitySource, log logging.Logger) *Store {
	return &Store{
		source:    source,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a deep copy of the current session.
func (s *Store) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.current.Initialized:
		return StatusReady
	case s.inFlight > 0:
		return StatusLoading
	default:
		return StatusUninitialized
	}
}

// Generation returns the generation of the last applied write.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// Subscribe registers l and returns a function removing it. Listeners run
// synchronously on the goroutine that applied the change and must not block.
func (s *Store) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// Initialize performs one identity check and, if it succeeds, one profile
// fetch, then publishes the result. A failed identity check leaves the
// session signed out; a failed profile fetch only marks the profile missing.
// It always marks the store initialized unless a newer write superseded it.
func (s *Store) Initialize(ctx context.Context) {
	gen := s.begin()
	defer s.end()

	next := models.Session{}

	identity, err := s.source.GetCurrentIdentity(ctx)
	switch {
	case err != nil:
		s.log.Warn(ctx, "identity check failed", "generation", gen, "error", err)
	case identity == nil:
		s.log.Debug(ctx, "no active session", "generation", gen)
	default:
		next.Identity = identity
		profile, err := s.source.GetProfile(ctx, identity.ID)
		switch {
		case err != nil:
			s.log.Warn(ctx, "profile fetch failed", "generation", gen, "user_id", identity.ID, "error", err)
			next.ProfileMissing = true
		case profile == nil:
			s.log.Info(ctx, "profile missing", "generation", gen, "user_id", identity.ID)
			next.ProfileMissing = true
		default:
			next.Profile = profile
		}
	}

	s.apply(ctx, gen, func(cur *models.Session) {
		cur.Identity = next.Identity
		cur.Profile = next.Profile
		cur.ProfileMissing = next.ProfileMissing
	})
}

// ForceRefresh bumps the session revision and re-runs Initialize.
func (s *Store) ForceRefresh(ctx context.Context) {
	s.mu.Lock()
	s.current.Revision++
	s.mu.Unlock()

	s.Initialize(ctx)
}

// SetSession replaces identity and profile after a successful sign-in.
func (s *Store) SetSession(ctx context.Context, identity models.Identity, profile *models.Profile) {
	gen := s.begin()
	defer s.end()

	var p *models.Profile
	if profile != nil {
		c := profile.Clone()
		p = &c
	}
	s.apply(ctx, gen, func(cur *models.Session) {
		cur.Identity = &identity
		cur.Profile = p
		cur.ProfileMissing = p == nil
	})
}

// SetProfile replaces the cached profile. It is a no-op when signed out or
// when the profile belongs to another identity.
func (s *Store) SetProfile(ctx context.Context, profile models.Profile) {
	gen := s.begin()
	defer s.end()

	p := profile.Clone()
	s.apply(ctx, gen, func(cur *models.Session) {
		if cur.Identity == nil || (p.UserID != "" && p.UserID != cur.Identity.ID) {
			return
		}
		cur.Profile = &p
		cur.ProfileMissing = false
	})
}

// Clear drops identity and profile, e.g. on sign-out.
func (s *Store) Clear(ctx context.Context) {
	gen := s.begin()
	defer s.end()

	s.apply(ctx, gen, func(cur *models.Session) {
		cur.Identity = nil
		cur.Profile = nil
		cur.ProfileMissing = false
	})
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.inFlight++
	return s.issued
}

func (s *Store) end() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

// apply runs mutate under the lock if gen is newer than the last applied
// write, marks the store initialized and notifies listeners.
func (s *Store) apply(ctx context.Context, gen uint64, mutate func(*models.Session)) bool {
	s.mu.Lock()
	if gen <= s.applied {
		applied := s.applied
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale session write", "generation", gen, "applied", applied)
		return false
	}
	mutate(&s.current)
	s.current.Initialized = true
	s.applied = gen
	snap := s.current.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

func (s *Store) notify(snap models.Session) {
	s.listenersMu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.listenersMu.Unlock()

	for _, l := range ls {
		l(snap.Clone())
	}
}
