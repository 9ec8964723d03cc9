package apperror

import "errors"

var (
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionClosed    = errors.New("session is closed")
	ErrUnknownAction    = errors.New("unknown action")
	ErrActionForbidden  = errors.New("action is not accepted from clients")
	ErrAIOnTurn         = errors.New("ai is on turn")
)
