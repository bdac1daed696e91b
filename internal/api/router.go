package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/SergioPauloA/Volpz/internal/api/middleware"
	"github.com/SergioPauloA/Volpz/internal/router"
	"github.com/SergioPauloA/Volpz/internal/store"
	"github.com/SergioPauloA/Volpz/internal/ws"
)

const version = "1.0.0"

// NewRouter creates and configures the HTTP router. The chat protocol rides
// the single /ws endpoint; everything else is operational surface.
func NewRouter(logger zerolog.Logger, hub *ws.Hub, identities store.Identities, presence *router.Presence) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the frontend is served from a separate intranet origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", healthHandler(identities, presence))
	r.Get("/ws", hub.ServeWS)

	return r
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Connections int    `json:"connections"`
	Accounts    int    `json:"accounts"`
	Timestamp   string `json:"timestamp"`
}

// healthHandler reports process status. Everything is in memory, so there is
// no dependency to probe; the counts are the useful part.
func healthHandler(identities store.Identities, presence *router.Presence) http.HandlerFunc {
	start := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:      "healthy",
			Version:     version,
			Uptime:      time.Since(start).Round(time.Second).String(),
			Connections: presence.Count(),
			Accounts:    identities.Count(),
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
