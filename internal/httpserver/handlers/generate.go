package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/postgen"
)

type generateResponse struct {
	Text string `json:"text"`
}

// GeneratePost writes a post with the AI generator. Answers 503 when no
// generator is configured.
func GeneratePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Generator == nil {
			writeJSON(w, d, http.StatusServiceUnavailable, errorResponse{
				Code:    "unavailable",
				Message: "post generation is not configured",
			})
			return
		}

		var cfg postgen.Config
		if err := decodeJSON(w, r, &cfg); err != nil {
			writeError(w, r, d, err)
			return
		}

		text, err := d.Generator.Generate(r.Context(), cfg)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, d, http.StatusOK, generateResponse{Text: text})
	}
}
