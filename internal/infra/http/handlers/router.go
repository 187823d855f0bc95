package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/talent-pipeline/internal/infra/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	// TrustProxy rewrites RemoteAddr from forwarding headers. Without it the
	// per-IP creation limit keys on the TCP peer only.
	TrustProxy     bool
	Leads          *LeadHandler
	Stats          *StatsHandler
	Selections     *SelectionHandler
	Health         *HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-Match", "Idempotency-Key"},
		ExposedHeaders: []string{"ETag", "Location", "Content-Disposition", "X-Export-Count"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/stats", cfg.Stats.Handle)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", cfg.Leads.List)
		r.Post("/", cfg.Leads.Add)
		r.Post("/bulk/status", cfg.Leads.BulkStatus)
		r.Post("/bulk/delete", cfg.Leads.BulkDelete)
		r.Get("/export", cfg.Leads.Export)
		r.Post("/export", cfg.Leads.Export)
		r.Get("/{id}", cfg.Leads.Get)
		r.Patch("/{id}/status", cfg.Leads.ChangeStatus)
		r.Post("/{id}/contacts", cfg.Leads.LogContact)
	})

	r.Route("/selections/{selectionId}", func(r chi.Router) {
		r.Get("/", cfg.Selections.Get)
		r.Post("/all", cfg.Selections.SelectAll)
		r.Delete("/", cfg.Selections.DeselectAll)
		r.Put("/{leadId}", cfg.Selections.Toggle)
	})

	return r
}
