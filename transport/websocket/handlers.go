package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionDispatch = "action"
	actionState    = "state"
	actionError    = "error"
)

func stateMessage(state entity.GameState) Message {
	payload, err := json.Marshal(state)
	if err != nil {
		return Message{Action: actionError, Error: err.Error()}
	}

	return Message{Action: actionState, Payload: payload}
}

// handleAction dispatches the action in the payload. The resulting state
// reaches the client through the state stream, not as a reply.
func (that *Server) handleAction(ctx context.Context, conn *connection, msg *Message) error {
	var request entity.ActionRequest
	if err := json.Unmarshal(msg.Payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	action, err := request.ClientAction()
	if err != nil {
		return err
	}

	if _, err = conn.session.Dispatch(ctx, action); err != nil {
		return err
	}

	return nil
}

// handleState replies with the current state.
func (that *Server) handleState(ctx context.Context, conn *connection, _ *Message) error {
	state, err := conn.session.State(ctx)
	if err != nil {
		return err
	}

	return conn.send(stateMessage(state))
}
