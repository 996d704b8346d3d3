package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/clinic-console/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/clinic-console/internal/http/middleware"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Console            *handlers.ConsoleHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter

	// Viewer auth
	ViewerAuthSecret string
	DefaultClinic    string
	ResolveViewer    httpmiddleware.ViewerResolver
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.Console == nil {
		return r
	}

	r.Group(func(viewer chi.Router) {
		if cfg.RateLimiter != nil {
			viewer.Use(cfg.RateLimiter.Middleware)
		}
		viewer.Use(httpmiddleware.ViewerJWT(cfg.ViewerAuthSecret, cfg.DefaultClinic, cfg.ResolveViewer))

		viewer.Route("/api", func(api chi.Router) {
			api.Use(middleware.Compress(5))
			api.Get("/dashboard", cfg.Console.GetDashboard)
			api.Get("/patients", cfg.Console.ListPatients)
			api.Get("/appointments", cfg.Console.ListAppointments)
			api.Get("/workload", cfg.Console.GetWorkload)
			api.Get("/timeline", cfg.Console.GetTimeline)
			api.Get("/calendar", cfg.Console.GetCalendar)
			api.Get("/doctors", cfg.Console.ListDoctors)
			api.Post("/refresh", cfg.Console.Refresh)
			api.Route("/ops", func(ops chi.Router) {
				ops.Use(requireClinicViewer)
				ops.Get("/verification-latency", cfg.Console.GetVerificationLatency)
			})
		})
		viewer.Get("/ws/timeline", cfg.Console.StreamTimeline)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
