package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
)

type searchResponse struct {
	Query    string                  `json:"query"`
	Category string                  `json:"category"`
	Count    int                     `json:"count"`
	Channels []domain.ChannelProfile `json:"channels"`
}

// SearchChannels lists channels matching ?q= and ?category=, most
// subscribers first.
func SearchChannels(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		filter, err := domain.ParseCategoryFilter(r.URL.Query().Get("category"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		channels, err := d.Marketplace.Search(r.Context(), query, filter)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		writeJSON(w, d, http.StatusOK, searchResponse{
			Query:    query,
			Category: filter.String(),
			Count:    len(channels),
			Channels: channels,
		})
	}
}

// GetChannel returns one channel with its slots.
func GetChannel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Marketplace.Channel(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, d, http.StatusOK, p)
	}
}
