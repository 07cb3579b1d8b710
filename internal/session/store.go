package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Authenticator is the backend side of login/logout. The REST client and
// the local in-memory authenticator both satisfy it.
type Authenticator interface {
	Login(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error)
	Logout(ctx context.Context) error
}

// Result is what a login attempt reports back to the caller.
type Result struct {
	Success  bool
	Identity clinic.Identity
	Message  string
}

const (
	msgMissingFields = "email and password are required"
	msgLoginFailed   = "login failed"
)

// Store owns the authenticated session. Callers read it through the
// accessors and change it only through Login and Logout.
type Store struct {
	storage Storage
	auth    Authenticator
	now     func() time.Time

	mu       sync.RWMutex
	state    State
	identity *clinic.Identity
}

func NewStore(storage Storage, auth Authenticator) *Store {
	return &Store{storage: storage, auth: auth, now: time.Now}
}

// Init restores a persisted session. Both the identity and the token must
// be present and readable, and the token must not have expired; anything
// less leaves the store unauthenticated. Unreadable storage is logged and
// treated as no session, so the next login can overwrite it.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.state = StateLoading
	defer func() {
		if s.identity == nil {
			s.state = StateUnauthenticated
		}
	}()

	token, hasToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		log.Printf("discarding unreadable persisted session: %v", err)
		return nil
	}
	rawUser, hasUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		log.Printf("discarding unreadable persisted session: %v", err)
		return nil
	}
	if !hasToken || token == "" || !hasUser {
		return nil
	}
	if tokenExpired(token, s.now()) {
		log.Printf("persisted session expired, clearing it")
		if err := s.storage.Delete(ctx, sessionKeys...); err != nil {
			log.Printf("clear persisted session: %v", err)
		}
		return nil
	}

	var id clinic.Identity
	if err := json.Unmarshal([]byte(rawUser), &id); err != nil {
		log.Printf("discarding unreadable persisted session: %v", err)
		return nil
	}

	s.identity = &id
	s.state = StateAuthenticated
	return nil
}

// tokenExpired reads the exp claim without verifying the signature; only
// the backend can do that. Tokens that are not JWTs never expire here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

func (s *Store) Login(ctx context.Context, creds clinic.Credentials) Result {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return Result{Message: msgMissingFields}
	}

	s.mu.Lock()
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	restore := func() {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		restore()
		return Result{Message: loginMessage(err)}
	}

	if err := s.persist(ctx, res); err != nil {
		log.Printf("persist session for %s: %v", res.User.Email, err)
		restore()
		return Result{Message: "could not save session: " + err.Error()}
	}

	s.mu.Lock()
	id := res.User
	s.identity = &id
	s.state = StateAuthenticated
	s.mu.Unlock()

	return Result{Success: true, Identity: id}
}

func loginMessage(err error) string {
	if errors.Is(err, clinic.ErrInvalidCredentials) {
		return clinic.ErrInvalidCredentials.Error()
	}
	if msg := err.Error(); msg != "" {
		return msgLoginFailed + ": " + msg
	}
	return msgLoginFailed
}

// persist writes the new session keys. If any write fails the previous
// keys are put back, or cleared when even that fails, so storage never
// pairs one user's token with another's identity.
func (s *Store) persist(ctx context.Context, res clinic.LoginResult) error {
	user, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	prev := s.snapshot(ctx)
	next := map[string]string{KeyToken: res.Token, KeyUser: string(user)}
	if res.RefreshToken != "" {
		next[KeyRefreshToken] = res.RefreshToken
	}
	if err := s.write(ctx, next); err != nil {
		if rerr := s.write(ctx, prev); rerr != nil {
			log.Printf("restore previous session failed, clearing it: %v", rerr)
			if derr := s.storage.Delete(ctx, sessionKeys...); derr != nil {
				log.Printf("clear persisted session: %v", derr)
			}
		}
		return err
	}
	return nil
}

// snapshot reads the session keys currently stored. An unreadable store
// counts as empty.
func (s *Store) snapshot(ctx context.Context) map[string]string {
	out := make(map[string]string, len(sessionKeys))
	for _, k := range sessionKeys {
		v, ok, err := s.storage.Get(ctx, k)
		if err != nil {
			log.Printf("ignoring unreadable session key %s: %v", k, err)
			return map[string]string{}
		}
		if ok {
			out[k] = v
		}
	}
	return out
}

// write makes storage hold exactly the given session keys. The user key
// goes last so a partial write never exposes a new identity.
func (s *Store) write(ctx context.Context, keys map[string]string) error {
	for _, k := range sessionKeys {
		v, ok := keys[k]
		if !ok {
			if err := s.storage.Delete(ctx, k); err != nil {
				return err
			}
			continue
		}
		if err := s.storage.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// Logout tells the backend, then always drops the local session even when
// the backend call fails.
func (s *Store) Logout(ctx context.Context) {
	defer func() {
		if err := s.storage.Delete(ctx, sessionKeys...); err != nil {
			log.Printf("clear persisted session: %v", err)
		}
		s.mu.Lock()
		s.identity = nil
		s.state = StateUnauthenticated
		s.mu.Unlock()
	}()

	if err := s.auth.Logout(ctx); err != nil {
		log.Printf("backend logout failed, clearing local session anyway: %v", err)
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated && s.identity != nil
}

// Identity returns the current identity and whether there is one.
func (s *Store) Identity() (clinic.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return clinic.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateLoading
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.storage.Close()
}
