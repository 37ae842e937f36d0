package server

import (
	"context"
	"net/http"

	"Scrubline/core/session"
	"Scrubline/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ScrubSocketHandler opens a scrub session for a track. The engine is seeded
// with the track's duration and markers and the configured defaults.
// URL: /ws/scrub/{track_id}?token=...
func (h *APIHandler) ScrubSocketHandler(w http.ResponseWriter, r *http.Request) {
	clientID := ""
	if h.tokens != nil {
		claims, err := h.tokens.Parse(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		clientID = claims.ClientID
	}

	trackID := mux.Vars(r)["track_id"]
	timeline, err := h.timelines.Timeline(r.Context(), trackID)
	if err != nil {
		h.timelineError(w, trackID, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	id := session.NewSessionID()
	log := logger.Named("session")
	client := session.NewClient(h.hub, conn, log.With(logger.String("session", id)))
	client.Session = session.New(id, trackID,
		h.cfg.EngineOptions(timeline.Duration, timeline.Markers),
		client, log)

	h.hub.Register(client)
	logger.Info("scrub session started",
		logger.String("session", id),
		logger.String("track", trackID),
		logger.String("client", clientID))

	if err := client.Session.Hello(); err != nil {
		logger.Warn("hello failed", logger.ErrorField(err))
	}

	go client.WritePump()
	// the request context ends when the handler returns, so the read loop
	// gets its own
	go client.ReadPump(context.Background())
}
