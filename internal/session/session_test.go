package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/testutil"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestGate(t *testing.T) (*Gate, core.UserID) {
	t.Helper()
	store := testutil.NewStore(t)
	user := testutil.CreateUser(t, store, "alice")
	g, err := NewGate(store, Config{Secret: testSecret, TTL: time.Hour}, nil)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return g, user
}

func login(t *testing.T, g *Gate, user core.UserID) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := g.Login(context.Background(), rec, user); err != nil {
		t.Fatalf("Login: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName {
			if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
				t.Fatalf("cookie attributes not set: %+v", c)
			}
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// whoami runs a request through Attach and reports the authenticated user.
func whoami(g *Gate, cookie *http.Cookie) (core.UserID, error) {
	var (
		uid core.UserID
		err error
	)
	h := g.Attach(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err = RequireAuth(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return uid, err
}

func TestNewGate_Validation(t *testing.T) {
	if _, err := NewGate(nil, Config{Secret: []byte("short"), TTL: time.Hour}, nil); err == nil {
		t.Error("expected error for short secret")
	}
	if _, err := NewGate(nil, Config{Secret: testSecret}, nil); err == nil {
		t.Error("expected error for zero TTL")
	}
}

func TestGate_LoginAndAttach(t *testing.T) {
	g, user := newTestGate(t)

	if _, err := whoami(g, nil); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("no cookie: expected ErrUnauthenticated, got %v", err)
	}

	cookie := login(t, g, user)
	got, err := whoami(g, cookie)
	if err != nil || got != user {
		t.Fatalf("expected user %d, got %d (err=%v)", user, got, err)
	}

	// Cached and uncached lookups agree.
	g.live = cache.NewLRUCache[storage.Session](8, time.Minute)
	got, err = whoami(g, cookie)
	if err != nil || got != user {
		t.Fatalf("uncached lookup: expected user %d, got %d (err=%v)", user, got, err)
	}
}

func TestGate_RejectsTamperedAndExpired(t *testing.T) {
	g, user := newTestGate(t)
	cookie := login(t, g, user)

	other, err := NewGate(g.store, Config{Secret: []byte("another-secret-another-secret-xx"), TTL: time.Hour}, nil)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	forged := login(t, other, user)
	if _, err := whoami(g, forged); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("foreign signature: expected ErrUnauthenticated, got %v", err)
	}

	garbage := *cookie
	garbage.Value = "not.a.token"
	if _, err := whoami(g, &garbage); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("garbage: expected ErrUnauthenticated, got %v", err)
	}

	g.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	if _, err := whoami(g, cookie); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expired: expected ErrUnauthenticated, got %v", err)
	}
}

func TestGate_LogoutRevokes(t *testing.T) {
	g, user := newTestGate(t)
	cookie := login(t, g, user)

	h := g.Attach(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Logout(w, r); err != nil {
			t.Errorf("Logout: %v", err)
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should clear the cookie")
	}

	if _, err := whoami(g, cookie); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("old cookie after logout: expected ErrUnauthenticated, got %v", err)
	}
}

type unavailableStore struct {
	Store
}

func (unavailableStore) Session(context.Context, string) (storage.Session, error) {
	return storage.Session{}, errors.New("database is locked")
}

// attachCookies runs a request through Attach and returns the cookies it set.
func attachCookies(g *Gate, cookie *http.Cookie) []*http.Cookie {
	h := g.Attach(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result().Cookies()
}

func TestGate_StoreErrorKeepsCookie(t *testing.T) {
	g, user := newTestGate(t)
	cookie := login(t, g, user)

	healthy := g.store
	g.store = unavailableStore{Store: healthy}
	g.live = cache.NewLRUCache[storage.Session](8, time.Minute)

	if _, err := whoami(g, cookie); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("store down: expected ErrUnauthenticated, got %v", err)
	}
	if set := attachCookies(g, cookie); len(set) != 0 {
		t.Fatalf("store error should not touch the cookie, got %+v", set)
	}

	g.store = healthy
	if got, err := whoami(g, cookie); err != nil || got != user {
		t.Fatalf("after recovery: expected user %d, got %d (err=%v)", user, got, err)
	}

	garbage := *cookie
	garbage.Value = "not.a.token"
	set := attachCookies(g, &garbage)
	if len(set) != 1 || set[0].Name != DefaultCookieName || set[0].MaxAge >= 0 {
		t.Fatalf("invalid token should clear the cookie, got %+v", set)
	}
}
