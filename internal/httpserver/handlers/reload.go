package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

type reloadResponse struct {
	Status          string `json:"status"`
	SeedFile        string `json:"seed_file,omitempty"`
	FlushedVerdicts int    `json:"flushed_verdicts"`
}

// Reload asks the seed reloader for an immediate pass and drops every
// cached identity verdict so the reloaded channels are checked afresh.
// The trigger is buffered by one, so a second request while a pass is
// pending gets 429.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeJSON(w, d, http.StatusConflict, errorResponse{
				Code:    "failed_precondition",
				Message: "no seed file configured, nothing to reload",
			})
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			flushed, err := d.Analytics.FlushVerdicts(r.Context())
			if err != nil {
				d.Logger.Warn("failed to flush cached verdicts", logger.Error(err))
			}
			d.Logger.Info("manual seed reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr),
				logger.Int("flushed_verdicts", len(flushed)))
			writeJSON(w, d, http.StatusAccepted, reloadResponse{
				Status:          "triggered",
				SeedFile:        d.SeedFile,
				FlushedVerdicts: len(flushed),
			})
		default:
			d.Logger.Warn("seed reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d, http.StatusTooManyRequests, errorResponse{
				Code:    "resource_exhausted",
				Message: "reload already pending, please wait",
			})
		}
	}
}
