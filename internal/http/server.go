// Package http serves the tracker's HTML pages and its small JSON API.
package http

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/web"
)

type Credentials interface {
	Register(ctx context.Context, username, password, confirmPassword string) (core.User, error)
	Authenticate(ctx context.Context, username, password string) (core.User, error)
}

type Ledger interface {
	Create(ctx context.Context, userID core.UserID, in core.TransactionInput) (core.Transaction, error)
	Get(ctx context.Context, userID core.UserID, id core.TransactionID) (core.Transaction, error)
	Update(ctx context.Context, userID core.UserID, id core.TransactionID, in core.TransactionInput) (core.Transaction, error)
	Delete(ctx context.Context, userID core.UserID, id core.TransactionID) error
	List(ctx context.Context, userID core.UserID) ([]core.Transaction, error)
}

type Budgets interface {
	CurrentPeriod() core.Period
	Set(ctx context.Context, userID core.UserID, category, limit string) (bool, error)
}

type Summaries interface {
	Dashboard(ctx context.Context, userID core.UserID, period core.Period) (services.Dashboard, error)
	Summarize(ctx context.Context, userID core.UserID, period core.Period) (core.Summary, error)
}

// Sessions starts, ends and resolves login sessions.
type Sessions interface {
	Login(ctx context.Context, w http.ResponseWriter, userID core.UserID) error
	Logout(w http.ResponseWriter, r *http.Request) error
	Attach(next http.Handler) http.Handler
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Credentials Credentials
	Ledger      Ledger
	Budgets     Budgets
	Summaries   Summaries
	Sessions    Sessions
	DB          Pinger
	Logger      *log.Logger

	RateLimitPerMinute int
	CORSAllowedOrigins []string
	// TrustedProxies are CIDRs whose X-Forwarded-For header is believed.
	TrustedProxies []string
}

// Server wraps http.Server with the tracker's routes and middleware.
type Server struct {
	http.Server

	deps     Deps
	pages    *renderer
	limiter  *ratelimit.Limiter
	clientIP *security.ClientIP
	tracer   *trace.Middleware
	logger   *log.Logger
}

// NewServer builds the router. Templates are parsed eagerly so a broken
// template fails startup rather than the first request.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	logger := deps.Logger.WithComponent(log.ComponentHTTP)

	pages, err := newRenderer(web.TemplatesFS)
	if err != nil {
		return nil, err
	}

	clientIP := security.NewClientIP()
	for _, cidr := range deps.TrustedProxies {
		if err := clientIP.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	rlCfg := ratelimit.DefaultConfig()
	if deps.RateLimitPerMinute > 0 {
		rlCfg.RequestsPerMinute = deps.RateLimitPerMinute
	}

	s := &Server{
		deps:     deps,
		pages:    pages,
		limiter:  ratelimit.NewLimiter(rlCfg),
		clientIP: clientIP,
		tracer:   trace.NewMiddleware(deps.Logger, clientIP.Extract),
		logger:   logger,
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.limiter.Middleware(s.clientIP.Extract, s.handleRateLimited))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	static, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.With(security.StaticAssetMiddleware(3600)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.deps.Sessions.Attach)
		r.Use(security.NoStore)

		r.Get("/register", s.handleRegisterPage)
		r.Post("/register", s.handleRegister)
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)

		r.With(s.requireAuth("")).Get("/", s.handleIndex)
		r.With(s.requireAuth("You must be logged in to add a transaction.")).
			Post("/add_transaction", s.handleAddTransaction)
		r.With(s.requireAuth("You must be logged in to edit a transaction.")).
			Get("/edit_transaction/{id}", s.handleEditTransactionPage)
		r.With(s.requireAuth("You must be logged in to edit a transaction.")).
			Post("/edit_transaction/{id}", s.handleEditTransaction)
		r.With(s.requireAuth("You must be logged in to delete a transaction.")).
			Post("/delete_transaction/{id}", s.handleDeleteTransaction)

		budget := s.requireAuth("You must be logged in to add a budget.")
		r.With(budget).Post("/add_budget", s.handleSetBudget)
		r.With(budget).Post("/set_budget", s.handleSetBudget)

		r.Route("/api", func(api chi.Router) {
			// Without configured origins the API stays same-origin only.
			if len(s.deps.CORSAllowedOrigins) > 0 {
				api.Use(cors.Handler(cors.Options{
					AllowedOrigins:   s.deps.CORSAllowedOrigins,
					AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
					AllowedHeaders:   []string{"Accept", "Content-Type", trace.RequestIDHeader},
					ExposedHeaders:   []string{trace.RequestIDHeader},
					AllowCredentials: true,
					MaxAge:           300,
				}))
			}
			api.Use(requireAPIAuth)
			api.Get("/summary", s.handleAPISummary)
			api.Get("/transactions", s.handleAPITransactions)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
	return r
}

// Shutdown stops accepting requests and then the rate limiter's sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	err := s.Server.Shutdown(ctx)
	s.limiter.Stop()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeDatabase)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.Extract(r),
		log.FieldPath, r.URL.Path)
	http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
}
