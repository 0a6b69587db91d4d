// Package httptransport assembles the public router. It owns no business
// logic; each module contributes its own handler and the router mounts them
// behind the shared middleware chain.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetgate/pkg/platform/httputil"
	"assetgate/pkg/platform/middleware/requestmeta"
)

// Registrar is implemented by module handlers that mount routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints behind request metadata and panic
// recovery middleware. health may be nil when the store has no liveness probe.
func NewRouter(health HealthChecker, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestmeta.RequestMetadata)

	for _, h := range handlers {
		h.Register(r)
	}

	r.Get("/healthz", handleHealth(health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func handleHealth(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
