package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool             `json:"ok"`
	ChannelsLoaded *int             `json:"channels_loaded,omitempty"`
	Slots          *int             `json:"slots,omitempty"`
	SoldSlots      *int             `json:"sold_slots,omitempty"`
	LastChange     string           `json:"last_change,omitempty"`
	Mode           string           `json:"mode,omitempty"`
	Impact         string           `json:"impact,omitempty"`
	Error          string           `json:"error,omitempty"`
	SearchHits     map[string]int64 `json:"search_hits,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		channels := d.Directory.Count()
		slots, sold := d.Directory.SlotStats()
		lastChange := d.Directory.LastChange()
		lastChangeStr := "never"
		if !lastChange.IsZero() {
			lastChangeStr = lastChange.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"directory": {
				OK:             channels > 0,
				ChannelsLoaded: &channels,
				Slots:          &slots,
				SoldSlots:      &sold,
				LastChange:     lastChangeStr,
			},
			"redis":     checkRedis(r.Context(), d),
			"generator": checkGenerator(d),
			"seed_file": checkSeedFile(d),
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineMode(components map[string]componentStatus) string {
	if dir, exists := components["directory"]; exists && !dir.OK {
		return "critical" // Nothing to search or buy
	}

	// Redis and the generator are optional but their absence is visible
	for _, name := range []string{"redis", "generator"} {
		if c, exists := components[name]; exists && !c.OK {
			return "degraded"
		}
	}

	return "operational"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "verdict-cache-and-analytics-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "verdict-cache-and-analytics-disabled",
			Error:  "timeout",
		}
	}

	status := componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "verdict-cache-and-analytics-enabled",
		Error:  "none",
	}
	if hits, err := d.Analytics.GetSearchHits(ctx); err == nil && len(hits) > 0 {
		status.SearchHits = hits
	}
	return status
}

func checkGenerator(d deps.Deps) componentStatus {
	if d.Generator == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "post-generation-unavailable",
		}
	}
	return componentStatus{OK: true, Mode: "gemini"}
}

func checkSeedFile(d deps.Deps) componentStatus {
	if d.SeedFile == "" {
		return componentStatus{OK: true, Mode: "built-in"}
	}
	return componentStatus{OK: true, Mode: "file+built-in"}
}
