package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const maxActionBody = 1 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) createSession(w http.ResponseWriter, r *http.Request) {
	session := that.sessions.CreateSession()

	state, err := session.State(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+session.ID())
	writeJSON(w, http.StatusCreated, entity.Session{ID: session.ID(), State: state})
}

func (that *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := that.sessions.State(r.Context(), id)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entity.Session{ID: id, State: state})
}

// getBoard renders the board and status line as plain text.
func (that *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s\n%s\n", state.Board, state.Status())
}

func (that *Server) dispatchAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var request entity.ActionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody)).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed action: " + err.Error()})
		return
	}

	action, err := request.ClientAction()
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	state, err := that.sessions.Dispatch(r.Context(), id, action)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entity.Session{ID: id, State: state})
}

func (that *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrSessionClosed):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrActionForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrAIOnTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
