package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
)

type candidateRequest struct {
	Candidate string `json:"candidate"`
}

type registerResponse struct {
	Outcome  domain.RegisterOutcome `json:"outcome"`
	Username string                 `json:"username"`
}

type onboardResponse struct {
	Verify   domain.VerifyOutcome   `json:"verify"`
	Register domain.RegisterOutcome `json:"register"`
	Profile  domain.ChannelProfile  `json:"profile"`
}

// VerifyChannel checks a claimed handle without registering it.
func VerifyChannel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req candidateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}

		res, err := d.Registry.Verify(r.Context(), req.Candidate)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, d, http.StatusOK, res)
	}
}

// RegisterChannel stores a verified profile. A new channel answers 201,
// an existing one 200 with outcome already_exists. The badge and the
// audience size are not the caller's to claim: they start at false and 0.
func RegisterChannel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile domain.ChannelProfile
		if err := decodeJSON(w, r, &profile); err != nil {
			writeError(w, r, d, err)
			return
		}
		profile.IsVerified = false
		profile.Subscribers = 0

		outcome, err := d.Registry.Register(r.Context(), profile)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		writeJSON(w, d, registerStatus(outcome), registerResponse{
			Outcome:  outcome,
			Username: profile.Username,
		})
	}
}

// Onboard verifies a handle and registers the verified profile in one call.
func Onboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req candidateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}

		res, outcome, err := d.Registry.Onboard(r.Context(), req.Candidate)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		writeJSON(w, d, registerStatus(outcome), onboardResponse{
			Verify:   res.Outcome,
			Register: outcome,
			Profile:  res.Profile,
		})
	}
}

func registerStatus(outcome domain.RegisterOutcome) int {
	if outcome == domain.RegisterInserted {
		return http.StatusCreated
	}
	return http.StatusOK
}
