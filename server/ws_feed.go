package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"musehub/logger"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origins are not pinned; auth happens via the bearer token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ModerationFeed upgrades the connection and attaches it to the live
// moderation feed. Admin only.
func (h *APIHandler) ModerationFeed(w http.ResponseWriter, r *http.Request) {
	if !callerFrom(r).Admin {
		respondError(w, http.StatusForbidden, "admin required")
		return
	}
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("moderation feed upgrade failed", logger.ErrorField(err))
		return
	}
	h.hub.Register(conn)
}
