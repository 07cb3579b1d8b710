package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/memstore"
)

// mockAuthenticator implements Authenticator for testing
type mockAuthenticator struct {
	loginFunc   func(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error)
	logoutFunc  func(ctx context.Context) error
	loginCalls  int
	logoutCalls int
}

func (m *mockAuthenticator) Login(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error) {
	m.loginCalls++
	if m.loginFunc != nil {
		return m.loginFunc(ctx, creds)
	}
	return clinic.LoginResult{}, errors.New("not implemented")
}

func (m *mockAuthenticator) Logout(ctx context.Context) error {
	m.logoutCalls++
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx)
	}
	return nil
}

// failingStorage wraps MemoryStorage and rejects chosen writes.
type failingStorage struct {
	*MemoryStorage
	failSet func(key, value string) bool
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet != nil && f.failSet(key, value) {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func emailAuthenticator() *mockAuthenticator {
	return &mockAuthenticator{
		loginFunc: func(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error) {
			return clinic.LoginResult{
				Token:        "tok-" + creds.Email,
				RefreshToken: "ref-" + creds.Email,
				User:         clinic.Identity{Email: creds.Email},
			}, nil
		},
	}
}

func mockPathAuthenticator(t *testing.T) Authenticator {
	t.Helper()
	store, err := memstore.NewSeeded()
	if err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
	return auth.NewLocal(store.Users, auth.NewIssuer("test-secret", time.Hour, time.Hour))
}

func TestLogin_MockAdminSucceeds(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := NewStore(storage, mockPathAuthenticator(t))

	res := s.Login(ctx, clinic.Credentials{Email: "admin@clinica.com", Password: "admin123"})
	if !res.Success {
		t.Fatalf("Expected success, got message: %s", res.Message)
	}
	if res.Identity.FirstName != "Administrador" || res.Identity.LastName != "Sistema" {
		t.Errorf("Unexpected identity: %+v", res.Identity)
	}
	if !s.IsAuthenticated() {
		t.Error("Expected store to be authenticated")
	}

	token, ok, _ := storage.Get(ctx, KeyToken)
	if !ok || token == "" {
		t.Error("Expected token to be persisted")
	}
	if _, ok, _ := storage.Get(ctx, KeyRefreshToken); !ok {
		t.Error("Expected refresh token to be persisted")
	}
	raw, ok, _ := storage.Get(ctx, KeyUser)
	if !ok {
		t.Fatal("Expected user to be persisted")
	}
	var id clinic.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.Email != "admin@clinica.com" {
		t.Errorf("Unexpected persisted user %q (%v)", raw, err)
	}
}

func TestLogin_WrongPasswordStaysUnauthenticated(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := NewStore(storage, mockPathAuthenticator(t))

	res := s.Login(ctx, clinic.Credentials{Email: "admin@clinica.com", Password: "wrong"})
	if res.Success {
		t.Fatal("Expected failure")
	}
	if res.Message != clinic.ErrInvalidCredentials.Error() {
		t.Errorf("Unexpected message '%s'", res.Message)
	}
	if s.IsAuthenticated() || s.State() != StateUnauthenticated {
		t.Errorf("Expected unauthenticated, got %s", s.State())
	}
	if _, ok, _ := storage.Get(ctx, KeyToken); ok {
		t.Error("Expected no token to be persisted")
	}
}

func TestLogin_MissingFieldsSkipsBackend(t *testing.T) {
	m := &mockAuthenticator{}
	s := NewStore(NewMemoryStorage(), m)

	res := s.Login(context.Background(), clinic.Credentials{Email: "  ", Password: "x"})
	if res.Success || res.Message != msgMissingFields {
		t.Errorf("Unexpected result: %+v", res)
	}
	if m.loginCalls != 0 {
		t.Errorf("Expected no backend call, got %d", m.loginCalls)
	}
}

func TestLogin_FailureKeepsPriorSession(t *testing.T) {
	ctx := context.Background()
	m := &mockAuthenticator{
		loginFunc: func(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error) {
			if creds.Password == "ok" {
				return clinic.LoginResult{Token: "t1", User: clinic.Identity{ID: 7, FirstName: "Recepcionista"}}, nil
			}
			return clinic.LoginResult{}, errors.New("connection refused")
		},
	}
	s := NewStore(NewMemoryStorage(), m)

	if res := s.Login(ctx, clinic.Credentials{Email: "a@b.c", Password: "ok"}); !res.Success {
		t.Fatalf("Expected first login to succeed: %s", res.Message)
	}

	res := s.Login(ctx, clinic.Credentials{Email: "a@b.c", Password: "bad"})
	if res.Success {
		t.Fatal("Expected failure")
	}
	if res.Message != "login failed: connection refused" {
		t.Errorf("Unexpected message '%s'", res.Message)
	}

	id, ok := s.Identity()
	if !ok || id.ID != 7 {
		t.Errorf("Expected prior identity to survive, got %+v", id)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("Expected authenticated, got %s", s.State())
	}
}

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	m := &mockAuthenticator{
		loginFunc: func(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error) {
			return clinic.LoginResult{Token: "t", RefreshToken: "r", User: clinic.Identity{ID: 1}}, nil
		},
		logoutFunc: func(ctx context.Context) error {
			return errors.New("backend down")
		},
	}
	s := NewStore(storage, m)
	s.Login(ctx, clinic.Credentials{Email: "a@b.c", Password: "p"})

	s.Logout(ctx)

	if m.logoutCalls != 1 {
		t.Errorf("Expected one backend logout, got %d", m.logoutCalls)
	}
	if s.IsAuthenticated() {
		t.Error("Expected unauthenticated after logout")
	}
	for _, k := range sessionKeys {
		if _, ok, _ := storage.Get(ctx, k); ok {
			t.Errorf("Expected key '%s' to be removed", k)
		}
	}
}

func TestInit_Hydration(t *testing.T) {
	testCases := []struct {
		name  string
		keys  map[string]string
		authd bool
	}{
		{name: "token and user", keys: map[string]string{KeyToken: "t", KeyUser: `{"id":1,"nombre":"Administrador","apellido":"Sistema"}`}, authd: true},
		{name: "user only", keys: map[string]string{KeyUser: `{"id":1}`}},
		{name: "token only", keys: map[string]string{KeyToken: "t"}},
		{name: "corrupt user", keys: map[string]string{KeyToken: "t", KeyUser: `{not json`}},
		{name: "empty", keys: map[string]string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			for k, v := range tc.keys {
				storage.Set(ctx, k, v)
			}

			s := NewStore(storage, &mockAuthenticator{})
			if err := s.Init(ctx); err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if s.IsAuthenticated() != tc.authd {
				t.Errorf("Expected authenticated=%v, got state %s", tc.authd, s.State())
			}
			if s.Loading() {
				t.Error("Expected loading flag cleared after Init")
			}
		})
	}
}

func TestInit_RestoresAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	storage, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	first := NewStore(storage, mockPathAuthenticator(t))
	if res := first.Login(ctx, clinic.Credentials{Email: "recepcion@clinica.com", Password: "123456"}); !res.Success {
		t.Fatalf("Expected login success: %s", res.Message)
	}

	reopened, _ := NewFileStorage(path)
	second := NewStore(reopened, &mockAuthenticator{})
	if err := second.Init(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	id, ok := second.Identity()
	if !ok || id.FirstName != "Recepcionista" {
		t.Errorf("Expected restored identity, got %+v", id)
	}

	token, err := StorageTokens{Storage: reopened}.Token(ctx)
	if err != nil || token == "" {
		t.Errorf("Expected stored token, got %q (%v)", token, err)
	}
}

func TestLogin_PersistFailureRestoresPriorSession(t *testing.T) {
	testCases := []struct {
		name      string
		failSet   func(key, value string) bool
		wantEmail string
	}{
		{
			name:      "prior keys restored",
			failSet:   func(key, value string) bool { return key == KeyUser && strings.Contains(value, "b@x") },
			wantEmail: "a@x",
		},
		{
			name:    "cleared when restore also fails",
			failSet: func(key, value string) bool { return key == KeyUser },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			storage := &failingStorage{MemoryStorage: NewMemoryStorage()}
			s := NewStore(storage, emailAuthenticator())

			if res := s.Login(ctx, clinic.Credentials{Email: "a@x", Password: "p"}); !res.Success {
				t.Fatalf("Expected first login to succeed: %s", res.Message)
			}

			storage.failSet = tc.failSet
			if res := s.Login(ctx, clinic.Credentials{Email: "b@x", Password: "p"}); res.Success {
				t.Fatal("Expected second login to fail")
			}
			if id, _ := s.Identity(); id.Email != "a@x" {
				t.Errorf("Expected in-memory identity a@x, got %+v", id)
			}

			storage.failSet = nil
			restarted := NewStore(storage, &mockAuthenticator{})
			if err := restarted.Init(ctx); err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			token, _, _ := storage.Get(ctx, KeyToken)
			refresh, _, _ := storage.Get(ctx, KeyRefreshToken)
			id, ok := restarted.Identity()

			if tc.wantEmail == "" {
				if ok || token != "" || refresh != "" {
					t.Errorf("Expected cleared session, got identity=%+v token=%q refresh=%q", id, token, refresh)
				}
				return
			}
			if !ok || id.Email != tc.wantEmail {
				t.Errorf("Expected identity %s, got %+v", tc.wantEmail, id)
			}
			if token != "tok-"+tc.wantEmail || refresh != "ref-"+tc.wantEmail {
				t.Errorf("Expected tokens of %s, got %q / %q", tc.wantEmail, token, refresh)
			}
		})
	}
}

func TestInit_CorruptFileStaysSignedOut(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	storage, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	s := NewStore(storage, emailAuthenticator())
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if s.IsAuthenticated() || s.State() != StateUnauthenticated {
		t.Errorf("Expected unauthenticated, got %s", s.State())
	}

	if res := s.Login(ctx, clinic.Credentials{Email: "a@x", Password: "p"}); !res.Success {
		t.Fatalf("Expected login to replace the corrupt file: %s", res.Message)
	}
	reopened := NewStore(storage, &mockAuthenticator{})
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if id, ok := reopened.Identity(); !ok || id.Email != "a@x" {
		t.Errorf("Expected restored identity a@x, got %+v", id)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestInit_TokenExpiry(t *testing.T) {
	now := time.Date(2025, 8, 28, 9, 0, 0, 0, time.UTC)
	testCases := []struct {
		name  string
		token string
		authd bool
	}{
		{name: "expired jwt", token: signedToken(t, now.Add(-time.Minute))},
		{name: "live jwt", token: signedToken(t, now.Add(time.Hour)), authd: true},
		{name: "opaque token", token: "opaque-token", authd: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			storage.Set(ctx, KeyToken, tc.token)
			storage.Set(ctx, KeyUser, `{"id":1,"email":"a@x"}`)

			s := NewStore(storage, &mockAuthenticator{})
			s.now = func() time.Time { return now }
			if err := s.Init(ctx); err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if s.IsAuthenticated() != tc.authd {
				t.Errorf("Expected authenticated=%v, got state %s", tc.authd, s.State())
			}
			if _, ok, _ := storage.Get(ctx, KeyToken); ok != tc.authd {
				t.Errorf("Expected token kept=%v", tc.authd)
			}
		})
	}
}
