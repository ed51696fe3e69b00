// Package session tracks who is signed in. Login and signup go through a
// simulated network delay; the resulting identity is persisted as a snapshot
// so a restart picks the session back up.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/imrishuroy/go-storefront/internal/clock"
	"github.com/imrishuroy/go-storefront/internal/snapshot"
)

// DefaultLatency is the simulated auth round-trip.
const DefaultLatency = time.Second

type Store struct {
	mu       sync.Mutex
	dir      *Directory
	snap     snapshot.Store
	clock    clock.Clock
	latency  time.Duration
	state    State
	identity Identity
	lastErr  error
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// NewStore restores a persisted identity if one is present and readable.
// A corrupt snapshot is discarded and the session starts anonymous.
func NewStore(ctx context.Context, dir *Directory, snap snapshot.Store, opts ...Option) *Store {
	s := &Store{
		dir:     dir,
		snap:    snap,
		clock:   clock.Real(),
		latency: DefaultLatency,
	}
	for _, o := range opts {
		o(s)
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	blob, err := s.snap.Load(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("[session] load snapshot: %v", err)
		return
	}
	id, err := snapshot.Decode[*Identity](blob)
	if err == nil && (id == nil || id.ID == "") {
		err = snapshot.ErrCorrupt
	}
	if err != nil {
		log.Printf("[session] discarding snapshot: %v", err)
		if derr := s.snap.Delete(ctx); derr != nil {
			log.Printf("[session] delete snapshot: %v", derr)
		}
		return
	}
	s.identity = *id
	s.state = StateAuthenticated
}

// Login authenticates against the directory after the simulated delay.
// On failure the session ends up anonymous.
func (s *Store) Login(ctx context.Context, email, password string) (Identity, error) {
	return s.authenticate(ctx, true, func() (Identity, error) {
		id, ok := s.dir.Match(email, password)
		if !ok {
			return Identity{}, ErrInvalidCredentials
		}
		return id, nil
	})
}

// Signup registers a new ordinary user and signs it in. A rejected signup
// leaves the current session as it was.
func (s *Store) Signup(ctx context.Context, name, email, password string) (Identity, error) {
	return s.authenticate(ctx, false, func() (Identity, error) {
		return s.dir.Register(name, email, password)
	})
}

// authenticate runs resolve after the simulated delay. When signOut is set a
// failure also ends the previous session.
func (s *Store) authenticate(ctx context.Context, signOut bool, resolve func() (Identity, error)) (Identity, error) {
	s.mu.Lock()
	if s.state == StateAuthenticating {
		s.mu.Unlock()
		return Identity{}, ErrAuthInFlight
	}
	prevState, prevIdentity := s.state, s.identity
	s.state = StateAuthenticating
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.clock.Sleep(ctx, s.latency); err != nil {
		s.mu.Lock()
		s.state, s.identity = prevState, prevIdentity
		s.mu.Unlock()
		return Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := resolve()
	if err != nil {
		s.lastErr = err
		if !signOut {
			s.state, s.identity = prevState, prevIdentity
			return Identity{}, err
		}
		s.identity = Identity{}
		s.state = StateAnonymous
		if prevState == StateAuthenticated {
			s.removeSnapshot(ctx)
		}
		return Identity{}, err
	}

	s.identity = id
	s.state = StateAuthenticated
	s.saveSnapshot(ctx, id)
	log.Printf("[session] signed in user=%s role=%s", id.ID, id.Role)
	return id, nil
}

// Logout is immediate and clears the persisted snapshot.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{}
	s.state = StateAnonymous
	s.lastErr = nil
	s.removeSnapshot(ctx)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return Identity{}, false
	}
	return s.identity, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// LastError is the error of the most recent failed login or signup, cleared
// when the next attempt starts.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// UserCount reports how many accounts the directory knows about.
func (s *Store) UserCount() int { return s.dir.Len() }

// callers hold s.mu
func (s *Store) saveSnapshot(ctx context.Context, id Identity) {
	blob, err := snapshot.Encode(id)
	if err == nil {
		err = s.snap.Save(ctx, blob)
	}
	if err != nil {
		log.Printf("[session] save snapshot: %v", err)
	}
}

// callers hold s.mu
func (s *Store) removeSnapshot(ctx context.Context) {
	if err := s.snap.Delete(ctx); err != nil {
		log.Printf("[session] delete snapshot: %v", err)
	}
}
