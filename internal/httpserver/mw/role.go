package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

// RoleHeader carries the role picked in the Mini-App.
const RoleHeader = "X-User-Role"

// RequireRole rejects requests whose role header does not name role.
// The header is matched case-insensitively.
func RequireRole(role domain.UserRole, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(r.Header.Get(RoleHeader))
			if !strings.EqualFold(got, string(role)) {
				log.Debugf("RequireRole: role %q REJECTED, want %q", got, role)
				deny(w, http.StatusForbidden, "permission_denied", "this action requires the "+string(role)+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
