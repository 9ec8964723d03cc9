package rest

import "net/http"

type PingHandler interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
}

type sessionCounter interface {
	Count() int
}

type pingHandler struct {
	sessions sessionCounter
}

func NewPingHandler(sessions sessionCounter) PingHandler {
	return &pingHandler{sessions: sessions}
}

// PingHandler - liveness probe that also reports how many sessions are open.
func (that *pingHandler) PingHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "pong",
		"sessions": that.sessions.Count(),
	})
}
