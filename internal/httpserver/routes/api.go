package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/mw"
)

func init() { Register("api", registerAPI) }

func registerAPI(root chi.Router, d deps.Deps) {
	r := root.With(mw.EnforceHost(d.AllowedHosts, d.Logger))

	r.Get("/api/channels", handlers.SearchChannels(d))
	r.Post("/api/channels", handlers.RegisterChannel(d))
	r.Post("/api/channels/verify", handlers.VerifyChannel(d))
	r.Get("/api/channels/{username}", handlers.GetChannel(d))
	r.Post("/api/onboard", handlers.Onboard(d))

	r.With(mw.RequireRole(domain.RoleOwner, d.Logger)).
		Post("/api/channels/{username}/slots", handlers.CreateSlot(d))
	r.With(mw.RequireRole(domain.RoleAdvertiser, d.Logger)).
		Post("/api/channels/{username}/slots/{slotID}/purchase", handlers.PurchaseSlot(d))
}
