package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/mw"
)

func init() { Register("ops", registerOps) }

// registerOps mounts the probes and the infra report, CIDR restricted.
func registerOps(r chi.Router, d deps.Deps) {
	ops := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	ops.Get("/healthz", handlers.Healthz(d))
	ops.Get("/readyz", handlers.Readyz(d))
	ops.Get("/infra", handlers.Infra(d))
}
