package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
)

// slotRequest accepts the date as 2006-01-02 or RFC 3339, the two forms
// the Mini-App date picker produces.
type slotRequest struct {
	Date           string  `json:"date"`
	Price          float64 `json:"price"`
	Currency       string  `json:"currency,omitempty"`
	EstimatedViews int64   `json:"estimatedViews"`
}

func (req slotRequest) draft() (domain.SlotDraft, error) {
	s := strings.TrimSpace(req.Date)
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		date, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return domain.SlotDraft{}, fmt.Errorf("%w: bad date %q", domain.ErrInvalidSlot, req.Date)
	}
	return domain.SlotDraft{
		Date:           date,
		Price:          req.Price,
		Currency:       domain.Currency(req.Currency),
		EstimatedViews: req.EstimatedViews,
	}, nil
}

type purchaseRequest struct {
	Buyer string `json:"buyer"`
}

type purchaseResponse struct {
	Outcome domain.PurchaseOutcome `json:"outcome"`
	Success bool                   `json:"success"`
}

// CreateSlot adds an ad slot to the channel in the URL.
func CreateSlot(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slotRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		draft, err := req.draft()
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		slot, err := d.Marketplace.CreateSlot(r.Context(), chi.URLParam(r, "username"), draft)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, d, http.StatusCreated, slot)
	}
}

// PurchaseSlot buys a slot. It always answers 200 with the outcome unless
// the purchase timed out; an empty body buys as the default buyer.
func PurchaseSlot(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(w, r, d, err)
				return
			}
		}

		outcome, err := d.Marketplace.Purchase(r.Context(),
			chi.URLParam(r, "username"),
			chi.URLParam(r, "slotID"),
			req.Buyer)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		writeJSON(w, d, http.StatusOK, purchaseResponse{
			Outcome: outcome,
			Success: outcome.OK(),
		})
	}
}
