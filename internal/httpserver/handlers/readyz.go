package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool `json:"ready"`
	Channels int  `json:"channels"`
}

// Readyz is ready once the directory holds at least one channel.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := 0
		if d.Directory != nil {
			count = d.Directory.Count()
		}

		status := http.StatusOK
		if count == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, d, status, readyzResponse{Ready: count > 0, Channels: count})
	}
}
