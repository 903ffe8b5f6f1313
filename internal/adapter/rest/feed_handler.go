package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/usecase"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

// sessionIdleTTL bounds the session registry: a session untouched for
// this long is evicted and its id answers 404 afterwards.
const sessionIdleTTL = 30 * time.Minute

// FeedHandler exposes the feed over REST. Each GetFeed response carries a
// session id; LoadMore and Refresh address that session's cursor. Idle
// sessions are swept on every insert, the way the snapshot cache sweeps
// aged entries on write; any use of a session refreshes its timestamp.
type FeedHandler struct {
	svc    *usecase.FeedService
	logger logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *usecase.FeedSession
	lastUsed time.Time
}

func NewFeedHandler(svc *usecase.FeedService, log logger.Logger) *FeedHandler {
	return &FeedHandler{
		svc:      svc,
		logger:   log,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

type feedResponse struct {
	SessionID     string           `json:"session_id"`
	Items         []domain.FeedRow `json:"items"`
	HasMore       bool             `json:"has_more"`
	TotalEstimate int64            `json:"total_estimate"`
}

// GetFeed handles GET /feed?mode=&country=&page_size=.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	mode := domain.ListingPurpose(r.URL.Query().Get("mode"))
	switch mode {
	case domain.PurposeRent, domain.PurposeSale, domain.PurposeCommercial:
	default:
		http.Error(w, "mode must be one of rent, sale, commercial", http.StatusBadRequest)
		return
	}

	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			http.Error(w, "invalid page_size", http.StatusBadRequest)
			return
		}
		pageSize = n
	}

	query := domain.FeedQuery{
		Mode:     mode,
		Country:  config.CountryCode(r.URL.Query().Get("country")),
		PageSize: pageSize,
	}

	session := h.svc.NewSession(query)
	page, err := session.InitialPage(r.Context())
	if err != nil {
		h.writeFeedError(w, err)
		return
	}

	sessionID := h.storeSession(session)

	writeJSON(w, http.StatusOK, feedResponse{
		SessionID:     sessionID,
		Items:         page.Items,
		HasMore:       page.HasMore,
		TotalEstimate: page.TotalEstimate,
	})
}

// LoadMore handles POST /feed/{sessionID}/more.
func (h *FeedHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	session, sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	page, err := session.NextPage(r.Context())
	if err != nil {
		h.writeFeedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{
		SessionID:     sessionID,
		Items:         page.Items,
		HasMore:       page.HasMore,
		TotalEstimate: page.TotalEstimate,
	})
}

// Refresh handles POST /feed/{sessionID}/refresh.
func (h *FeedHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	page, err := session.Reset(r.Context())
	if err != nil {
		h.writeFeedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{
		SessionID:     sessionID,
		Items:         page.Items,
		HasMore:       page.HasMore,
		TotalEstimate: page.TotalEstimate,
	})
}

func (h *FeedHandler) storeSession(session *usecase.FeedSession) string {
	sessionID := uuid.NewString()
	h.mu.Lock()
	now := h.now()
	for id, e := range h.sessions {
		if now.Sub(e.lastUsed) >= sessionIdleTTL {
			delete(h.sessions, id)
		}
	}
	h.sessions[sessionID] = &sessionEntry{session: session, lastUsed: now}
	h.mu.Unlock()
	return sessionID
}

func (h *FeedHandler) session(w http.ResponseWriter, r *http.Request) (*usecase.FeedSession, string, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	h.mu.Lock()
	e, ok := h.sessions[sessionID]
	if ok && h.now().Sub(e.lastUsed) >= sessionIdleTTL {
		delete(h.sessions, sessionID)
		ok = false
	}
	if ok {
		e.lastUsed = h.now()
	}
	h.mu.Unlock()
	if !ok {
		http.Error(w, "unknown feed session", http.StatusNotFound)
		return nil, "", false
	}
	return e.session, sessionID, true
}

func (h *FeedHandler) writeFeedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStaleRequest):
		// Abandoned request; nothing to show and nothing to report.
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrLoadInProgress):
		http.Error(w, "a page load is already in progress", http.StatusConflict)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		http.Error(w, "feed temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Errorf("FeedHandler: unexpected error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
