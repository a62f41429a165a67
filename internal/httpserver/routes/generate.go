package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/mw"
)

func init() { Register("generate", registerGenerate) }

func registerGenerate(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RateRefillPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/posts/generate", handlers.GeneratePost(d))
}
