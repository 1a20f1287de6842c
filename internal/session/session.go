// Package session binds an authenticated user to a request. A login creates
// a session row and hands the browser a signed cookie naming it; each request
// carrying that cookie gets an Identity in its context until the session
// expires or is revoked at logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

const (
	DefaultCookieName = "fintrack_session"
	issuer            = "fintrack"
	minSecretLength   = 32
	cacheSize         = 1024
	cacheTTL          = 30 * time.Second
)

// Store persists sessions.
type Store interface {
	CreateSession(ctx context.Context, s storage.Session) error
	Session(ctx context.Context, id string) (storage.Session, error)
	RevokeSession(ctx context.Context, id string) error
}

type Config struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID    core.UserID
	SessionID string
}

type claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// Gate issues, validates and revokes session cookies.
type Gate struct {
	store  Store
	cfg    Config
	live   *cache.LRUCache[storage.Session]
	now    func() time.Time
	logger *log.Logger
}

func NewGate(store Store, cfg Config, logger *log.Logger) (*Gate, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLength)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session TTL must be positive")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Gate{
		store:  store,
		cfg:    cfg,
		live:   cache.NewLRUCache[storage.Session](cacheSize, cacheTTL),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.WithComponent(log.ComponentSession),
	}, nil
}

// Cache exposes the live-session cache so it can be swept periodically.
func (g *Gate) Cache() cache.Cleaner { return g.live }

// Login starts a session for userID and sets the session cookie on w.
func (g *Gate) Login(ctx context.Context, w http.ResponseWriter, userID core.UserID) error {
	now := g.now()
	sess := storage.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(g.cfg.TTL),
		CreatedAt: now,
	}
	if err := g.store.CreateSession(ctx, sess); err != nil {
		return err
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Issuer:    issuer,
			Subject:   strconv.FormatInt(int64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		UserID: int64(userID),
	}).SignedString(g.cfg.Secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	g.live.SetUntil(sess.ID, sess, sess.ExpiresAt)
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(g.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   g.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	g.logger.InfoContext(ctx, "Session started",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, int64(userID),
		log.FieldSessionID, sess.ID)
	return nil
}

// Logout revokes the request's session, if any, and clears the cookie.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) error {
	g.clearCookie(w)
	id, ok := FromContext(r.Context())
	if !ok {
		return nil
	}
	g.live.Delete(id.SessionID)
	if err := g.store.RevokeSession(r.Context(), id.SessionID); err != nil {
		return err
	}
	g.logger.InfoContext(r.Context(), "Session ended",
		log.FieldOperation, log.OpLogout,
		log.FieldUserID, int64(id.UserID),
		log.FieldSessionID, id.SessionID)
	return nil
}

// Attach resolves the session cookie and stores the Identity in the request
// context. Requests without a valid session pass through unauthenticated.
func (g *Gate) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(g.cfg.CookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := g.identify(r.Context(), c.Value)
		if err != nil {
			// A failed lookup keeps the cookie so the session survives a
			// transient store outage.
			if errors.Is(err, core.ErrUnauthenticated) {
				g.clearCookie(w)
			} else {
				g.logger.ErrorContext(r.Context(), "Session lookup failed",
					log.FieldError, err.Error(),
					log.FieldErrorType, log.ErrorTypeDatabase)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithIdentity(r.Context(), id)
		ctx = log.WithLogger(ctx, log.FromContext(ctx).With(log.FieldUserID, int64(id.UserID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) identify(ctx context.Context, token string) (Identity, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(token, &cl,
		func(*jwt.Token) (any, error) { return g.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || cl.ID == "" || cl.UserID <= 0 {
		return Identity{}, core.ErrUnauthenticated
	}

	now := g.now()
	sess, ok := g.live.Get(cl.ID)
	if !ok {
		sess, err = g.store.Session(ctx, cl.ID)
		if errors.Is(err, core.ErrNotFound) {
			return Identity{}, core.ErrUnauthenticated
		}
		if err != nil {
			return Identity{}, err
		}
		if sess.Live(now) {
			g.live.SetUntil(sess.ID, sess, sess.ExpiresAt)
		}
	}
	if !sess.Live(now) || int64(sess.UserID) != cl.UserID {
		g.live.Delete(cl.ID)
		return Identity{}, core.ErrUnauthenticated
	}
	return Identity{UserID: sess.UserID, SessionID: sess.ID}, nil
}

func (g *Gate) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// RequireAuth returns the authenticated user of ctx or core.ErrUnauthenticated.
func RequireAuth(ctx context.Context) (core.UserID, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return 0, core.ErrUnauthenticated
	}
	return id.UserID, nil
}
