// Package server exposes quiz sessions over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/sessions"
)

// ResultPath is where a finished quiz's score is served.
const ResultPath = "/api/quiz/result"

// Options tunes the HTTP surface.
type Options struct {
	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string

	// SessionTTL is the lifetime of the session cookie.
	SessionTTL time.Duration

	// RequestTimeout bounds every request except quiz creation.
	RequestTimeout time.Duration

	// GenerateTimeout bounds quiz creation, which waits on the LLM.
	GenerateTimeout time.Duration

	// Logger receives server errors. Defaults to stderr.
	Logger *log.Logger
}

// Server serves the quiz API for a quizflow.Service.
type Server struct {
	svc  *quizflow.Service
	opts Options
	log  *log.Logger
}

// New returns a Server. Zero durations take defaults.
func New(svc *quizflow.Service, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = sessions.DefaultTTL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 90 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "quizgen: ", log.LstdFlags)
	}
	return &Server{svc: svc, opts: opts, log: logger}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			ExposedHeaders:   []string{"Content-Length", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.sessionCookie)

		api.With(middleware.Timeout(s.opts.GenerateTimeout)).
			Post("/quiz", s.handleStart)

		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(s.opts.RequestTimeout))
			g.Get("/quiz", s.handleCurrent)
			g.Delete("/quiz", s.handleReset)
			g.Post("/quiz/answers", s.handleAnswer)
			g.Get("/quiz/result", s.handleResult)
			g.Get("/quota", s.handleQuota)
		})
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
