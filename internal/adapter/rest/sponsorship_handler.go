package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/rest/middleware"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/usecase"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

type SponsorshipHandler struct {
	svc    *usecase.SponsorshipService
	logger logger.Logger
}

func NewSponsorshipHandler(svc *usecase.SponsorshipService, log logger.Logger) *SponsorshipHandler {
	return &SponsorshipHandler{svc: svc, logger: log}
}

type purchaseRequest struct {
	BoostLevel   int `json:"boost_level"`
	DurationDays int `json:"duration_days"`
}

type conflictResponse struct {
	Error       string    `json:"error"`
	ActiveUntil time.Time `json:"active_until"`
}

// Purchase handles POST /listings/{listingID}/sponsorship (authenticated).
func (h *SponsorshipHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	requesterID := middleware.UserID(r.Context())

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	handle, err := h.svc.Purchase(r.Context(), listingID, req.BoostLevel, req.DurationDays, requesterID)
	if err != nil {
		h.writePurchaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, handle)
}

type webhookRequest struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// Webhook handles POST /payments/checkout/webhook, the payment provider's
// completion callback. Unknown sessions get 404 so the provider retries
// are visible; everything else acks with 204.
func (h *SponsorshipHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status != "completed" {
		h.logger.Debugf("SponsorshipHandler.Webhook: ignoring status %q for session %s", req.Status, req.SessionID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.svc.Confirm(r.Context(), req.SessionID); err != nil {
		if errors.Is(err, domain.ErrUnknownCheckout) {
			http.Error(w, "unknown checkout session", http.StatusNotFound)
			return
		}
		http.Error(w, "confirmation failed", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SponsorshipHandler) writePurchaseError(w http.ResponseWriter, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:       conflict.Error(),
			ActiveUntil: conflict.ActiveUntil,
		})
	case errors.Is(err, domain.ErrListingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNotListingOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidBoostLevel),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrListingNotActive):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		http.Error(w, "sponsorship purchase temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Errorf("SponsorshipHandler: unexpected error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
