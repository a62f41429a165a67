package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/telemanager/internal/logger"
	"github.com/MrSnakeDoc/telemanager/internal/utils"
)

// AllowOnlyCIDRS restricts ops endpoints to the listed IPs/CIDRs. An empty
// list disables filtering.
// trustProxy should be true when running behind a trusted reverse proxy/tunnel (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("AllowOnlyCIDRS: empty matcher, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("ops request rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path),
					logger.Bool("trust_proxy", trustProxy))
				deny(w, http.StatusForbidden, "permission_denied", "address not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
