// Package router assembles the HTTP surface: middleware chain, report
// endpoints, metrics, and health.
package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/middleware"
	reporthandler "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/handler"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/httputil"
)

// Pinger reports storage reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports cache reachability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router wires together.
type Deps struct {
	Report    *reporthandler.Handler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
	Store     Pinger
	Cache     HealthChecker // may be nil
}

// New builds the service router.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", healthHandler(d.Store, d.Cache))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		r.Route("/api", func(r chi.Router) {
			d.Report.Register(r)
		})
	})

	return r
}

func healthHandler(store Pinger, cache HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := map[string]string{"status": "ok"}
		code := http.StatusOK

		if err := store.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["storage"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
		if cache != nil {
			if err := cache.Health(ctx); err != nil {
				status["cache"] = "unreachable"
			}
		}

		httputil.WriteJSON(w, code, status)
	}
}
