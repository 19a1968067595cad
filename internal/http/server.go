// Package http exposes the cycle tracker over a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DIEGO-rav10/UBELEZA/internal/config"
	applog "github.com/DIEGO-rav10/UBELEZA/internal/log"
	"github.com/DIEGO-rav10/UBELEZA/internal/middleware/ratelimit"
	"github.com/DIEGO-rav10/UBELEZA/internal/middleware/security"
	"github.com/DIEGO-rav10/UBELEZA/internal/middleware/trace"
	"github.com/DIEGO-rav10/UBELEZA/internal/services"
)

// Pinger reports storage health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cycles   *services.CycleService
	archives *services.ArchiveService
	store    Pinger
	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	router   chi.Router
}

func NewServer(cfg *config.Config, logger *applog.Logger, cycles *services.CycleService, archives *services.ArchiveService, store Pinger) *Server {
	detector := security.NewDetector()
	s := &Server{
		cycles:   cycles,
		archives: archives,
		store:    store,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		detector: detector,
		tracer:   trace.NewMiddleware(detector.ExtractClientIP),
	}
	s.router = s.routes(cfg)
	return s
}

func (s *Server) routes(cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(security.Headers)
	r.Use(s.tracer.Middleware)
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(func(req *http.Request) string {
		return trace.GetRequestID(req.Context())
	}))
	r.Use(s.limiter.Middleware(s.detector.ExtractClientIP))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleGetState)

		r.Route("/cycles", func(r chi.Router) {
			r.Post("/start", s.handleStartCycle)
			r.Post("/finalize", s.handleFinalizeCycle)
			r.Put("/current", s.handleUpdateCycle)
		})

		r.Route("/earnings", func(r chi.Router) {
			r.Post("/", s.handleAddEarning)
			r.Put("/{id}", s.handleEditEarning)
			r.Delete("/{id}", s.handleDeleteEarning)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", s.handleAddExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Route("/archives", func(r chi.Router) {
			r.Get("/", s.handleListArchives)
			r.Post("/period", s.handleArchivePeriod)
			r.Delete("/{id}", s.handleDeleteArchive)
		})

		r.Post("/reset", s.handleReset)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Stop releases background resources held by the middleware stack.
func (s *Server) Stop() {
	s.limiter.Stop()
}
