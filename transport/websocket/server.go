package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

type sessionFinder interface {
	GetSession(id string) (*usecase.GameSession, error)
}

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

// Server streams one session per connection: every published state is pushed
// as a "state" message and client actions are read as "action" messages.
type Server struct {
	logger   *slog.Logger
	sessions sessionFinder
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionFinder) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionDispatch] = server.handleAction
	server.handlers[actionState] = server.handleState

	return server
}

type connection struct {
	ws      *websocket.Conn
	session *usecase.GameSession

	mu sync.Mutex
}

func (that *connection) send(msg Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	_ = that.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := that.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) ping() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (that *connection) close(code int, text string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_ = that.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeTimeout))
	_ = that.ws.Close()
}

// ServeHTTP - upgrades GET /sessions/{id}/ws.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := that.logger.With("method", "ServeHTTP", "sessionID", id)

	session, err := that.sessions.GetSession(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := &connection{ws: ws, session: session}

	updates, stop, err := session.Watch(ctx)
	if err != nil {
		conn.close(websocket.CloseGoingAway, "session closed")
		return
	}
	defer stop()

	log.Info("websocket connection established")

	go that.pushStates(ctx, cancel, conn, updates)

	that.handleMessages(ctx, conn)
	cancel()
	_ = ws.Close()

	log.Info("websocket connection closed")
}

// pushStates - writes every state from updates until the stream or ctx ends.
func (that *Server) pushStates(ctx context.Context, cancel context.CancelFunc, conn *connection, updates <-chan entity.GameState) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-updates:
			if !ok {
				conn.close(websocket.CloseNormalClosure, "session closed")
				return
			}

			if err := conn.send(stateMessage(state)); err != nil {
				that.logger.Debug("failed to push state", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages", "sessionID", conn.session.ID())

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", "error", err)
			}

			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			if sendErr := conn.send(Message{Action: actionError, Error: "malformed message"}); sendErr != nil {
				return
			}

			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			_ = conn.send(Message{Action: msg.Action, Error: fmt.Sprintf("%v: %q", apperror.ErrUnknownAction, msg.Action)})
			continue
		}

		if err = handler(ctx, conn, &msg); err != nil {
			log.Debug("message rejected", "action", msg.Action, "error", err)

			if sendErr := conn.send(Message{Action: msg.Action, Error: err.Error()}); sendErr != nil {
				return
			}
		}
	}
}
