package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"Scrubline/config"
	"Scrubline/core/auth"
	"Scrubline/core/catalog"
	"Scrubline/core/session"
	"Scrubline/logger"

	"github.com/gorilla/mux"
)

type contextKey string

const clientIDKey contextKey = "clientID"

// APIHandler serves the HTTP and websocket endpoints.
type APIHandler struct {
	cfg       *config.Config
	timelines catalog.Source
	tokens    *auth.Tokens // nil disables authentication
	hub       *session.Hub
}

// NewAPIHandler creates the handler set. tokens may be nil.
func NewAPIHandler(cfg *config.Config, timelines catalog.Source, tokens *auth.Tokens, hub *session.Hub) *APIHandler {
	return &APIHandler{
		cfg:       cfg,
		timelines: timelines,
		tokens:    tokens,
		hub:       hub,
	}
}

// Router builds the gorilla/mux router.
func (h *APIHandler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/health", h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/token", h.TokenHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/timelines/{track_id}", h.GetTimelineHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/timelines/{track_id}", h.AuthMiddleware(h.PutTimelineHandler)).Methods(http.MethodPut)
	router.HandleFunc("/ws/scrub/{track_id}", h.ScrubSocketHandler).Methods(http.MethodGet)
	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response failed", logger.ErrorField(err))
	}
}

// HealthHandler reports liveness and the number of open sessions.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.hub.Count(),
		"source":   h.cfg.TimelineSource,
	})
}

// TokenHandler exchanges the API key for a session token.
// Header: X-API-Key. Body: {"clientId": "..."}.
func (h *APIHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil || h.cfg.APIKeyHash == "" {
		http.Error(w, "Token issuance disabled", http.StatusServiceUnavailable)
		return
	}
	if !auth.CheckKey(r.Header.Get("X-API-Key"), h.cfg.APIKeyHash) {
		logger.Warn("[Token] invalid api key", logger.String("remote", r.RemoteAddr))
		http.Error(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	var req struct {
		ClientID string `json:"clientId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
		http.Error(w, "clientId is required", http.StatusBadRequest)
		return
	}

	token, err := h.tokens.Generate(req.ClientID)
	if err != nil {
		logger.Error("[Token] sign failed", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	logger.Info("[Token] issued", logger.String("client", req.ClientID))
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AuthMiddleware requires a valid bearer token when authentication is
// enabled and stores the client id in the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.tokens == nil {
			next(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		claims, err := h.tokens.Parse(token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), clientIDKey, claims.ClientID)
		next(w, r.WithContext(ctx))
	}
}

// GetClientIDFromContext returns the authenticated client id, if any.
func GetClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// GetTimelineHandler returns a track's duration and sorted markers.
func (h *APIHandler) GetTimelineHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["track_id"]
	t, err := h.timelines.Timeline(r.Context(), trackID)
	if err != nil {
		h.timelineError(w, trackID, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// PutTimelineHandler replaces a track's timeline on writable sources.
func (h *APIHandler) PutTimelineHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.timelines.(catalog.Store)
	if !ok {
		http.Error(w, "Timeline source is read-only", http.StatusNotImplemented)
		return
	}

	trackID := mux.Vars(r)["track_id"]
	var t catalog.Timeline
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t.TrackID = trackID

	if err := store.SaveTimeline(r.Context(), &t); err != nil {
		h.timelineError(w, trackID, err)
		return
	}
	logger.Info("timeline saved",
		logger.String("track", trackID),
		logger.Int("markers", len(t.Markers)),
		logger.String("client", GetClientIDFromContext(r.Context())))
	writeJSON(w, http.StatusOK, &t)
}

func (h *APIHandler) timelineError(w http.ResponseWriter, trackID string, err error) {
	switch {
	case errors.Is(err, catalog.ErrTimelineNotFound):
		http.Error(w, "Timeline not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrReadOnly):
		http.Error(w, "Timeline source is read-only", http.StatusNotImplemented)
	default:
		logger.Error("timeline lookup failed", logger.String("track", trackID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
