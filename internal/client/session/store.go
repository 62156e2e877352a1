package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/logging"
)

// Phase is the coarse state of the session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ErrStale is returned by Login when a logout happened while the login was in
// flight. The credential it obtained has been discarded.
var ErrStale = errors.New("session changed while logging in")

// Navigator reports where the user currently is and performs a hard
// redirect, dropping every piece of view state.
type Navigator interface {
	Location() string
	Redirect(path string)
}

// AuthAPI is the part of the backend the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, credential string) (*models.Identity, error)
}

// Store is safe for concurrent use.
//
// Every transition that changes the credential bumps epoch. An identity fetch
// remembers the epoch it started under and its result is dropped if the
// epoch has moved, so a fetch that completes after a logout can never bring
// the identity back.
type Store struct {
	creds credentials.Store
	api   AuthAPI
	nav   Navigator
	log   logging.Logger

	mu         sync.Mutex
	phase      Phase
	identity   *models.Identity
	credential string
	epoch      uint64

	ready     chan struct{}
	readyOnce sync.Once
}

func New(creds credentials.Store, api AuthAPI, nav Navigator, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		creds: creds,
		api:   api,
		nav:   nav,
		log:   log.With("component", "session"),
		phase: PhaseLoading,
		ready: make(chan struct{}),
	}
}

// Ready is closed once the start-up phase has been resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until Ready is closed or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Snapshot returns the phase and a copy of the identity. The identity is nil
// unless the phase is PhaseAuthenticated.
func (s *Store) Snapshot() (Phase, *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase, copyIdentity(s.identity)
}

// Credential returns the credential to attach to outbound requests, or ""
// when the session is not authenticated.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Initialize resolves the loading phase from the persisted credential.
//
// No credential (or a store that cannot be read) ends unauthenticated without
// contacting the backend. Otherwise the identity is fetched; any failure
// deletes the credential. Initialize itself never fails; the outcome is
// observed through Snapshot.
func (s *Store) Initialize(ctx context.Context) {
	defer s.markReady()

	s.mu.Lock()
	start := s.epoch
	s.mu.Unlock()

	tok, err := s.creds.Get(ctx)
	if err != nil {
		s.log.Warn(ctx, "credential read failed, starting logged out", "error", err)
	}
	if err != nil || tok == "" {
		s.mu.Lock()
		if s.epoch == start && s.phase == PhaseLoading {
			s.phase = PhaseUnauthenticated
		}
		s.mu.Unlock()
		return
	}

	id, err := s.fetchIdentity(ctx, tok)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != start {
		s.log.Debug(ctx, "discarding stale start-up identity")
		return
	}

	if err != nil {
		s.log.Info(ctx, "stored credential rejected", "error", err)
		s.resetLocked(ctx)
		return
	}

	s.credential = tok
	s.identity = copyIdentity(id)
	s.phase = PhaseAuthenticated
	s.log.Info(ctx, "session restored", "email", id.Email, "role", id.Role)
}

// Login exchanges username and password for a credential, persists it and
// loads the identity.
//
// A rejected login leaves the state untouched and returns the backend's error.
// Once the credential has been issued, a failure to persist it or to fetch the
// identity deletes it again and leaves the session unauthenticated. While the
// identity is being fetched the phase is PhaseLoading, also when replacing an
// authenticated session.
func (s *Store) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	s.mu.Lock()
	start := s.epoch
	s.mu.Unlock()

	tok, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, errors.New("login returned an empty credential")
	}

	s.mu.Lock()
	if s.epoch != start {
		s.mu.Unlock()
		return nil, ErrStale
	}
	s.epoch++
	epoch := s.epoch
	s.credential = ""
	s.identity = nil
	s.phase = PhaseLoading
	if err := s.creds.Set(ctx, tok); err != nil {
		s.resetLocked(ctx)
		s.mu.Unlock()
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	s.mu.Unlock()

	id, err := s.fetchIdentity(ctx, tok)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return nil, ErrStale
	}
	if err != nil {
		s.resetLocked(ctx)
		return nil, fmt.Errorf("fetch identity: %w", err)
	}

	s.credential = tok
	s.identity = copyIdentity(id)
	s.phase = PhaseAuthenticated
	s.markReady()
	s.log.Info(ctx, "logged in", "email", id.Email, "role", id.Role)

	return copyIdentity(id), nil
}

// Logout forgets the credential and identity, then redirects to the login
// location. The returned error only reports a failure to delete the
// persisted credential; the in-memory session is cleared regardless.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.resetLocked(ctx)
	s.markReady()
	s.mu.Unlock()

	s.log.Info(ctx, "logged out")
	s.nav.Redirect(common.LoginPath)
	return err
}

// Refresh re-fetches the identity for the current credential. A 401 is dealt
// with by the gateway through HandleUnauthorized; any error is returned and
// otherwise leaves the state as it was.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	tok, start := s.credential, s.epoch
	s.mu.Unlock()

	if tok == "" {
		return common.ErrNotAuthenticated
	}

	id, err := s.fetchIdentity(ctx, tok)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != start {
		return ErrStale
	}
	s.identity = copyIdentity(id)
	return nil
}

// HandleUnauthorized performs the logout path for a request that was
// rejected with 401 while carrying credential. It acts at most once per
// credential: a rejection of a credential that is no longer current is
// ignored. The redirect only happens when the session was authenticated.
// It reports whether it acted.
func (s *Store) HandleUnauthorized(ctx context.Context, credential string) bool {
	s.mu.Lock()
	if credential == "" || credential != s.credential {
		s.mu.Unlock()
		return false
	}
	wasAuthenticated := s.phase == PhaseAuthenticated
	_ = s.resetLocked(ctx)
	s.mu.Unlock()

	s.log.Warn(ctx, "credential rejected by server, session ended")
	if wasAuthenticated {
		s.nav.Redirect(common.LoginPath)
	}
	return true
}

// resetLocked clears the session and revokes the persisted credential.
// s.mu must be held.
func (s *Store) resetLocked(ctx context.Context) error {
	s.epoch++
	s.credential = ""
	s.identity = nil
	s.phase = PhaseUnauthenticated

	if err := credentials.Revoke(ctx, s.creds); err != nil {
		s.log.Error(ctx, "credential revoke failed", "error", err)
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *Store) fetchIdentity(ctx context.Context, tok string) (*models.Identity, error) {
	id, err := s.api.Me(ctx, tok)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errors.New("empty identity")
	}
	return id, nil
}

func copyIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
