package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type ActionType string

const (
	ActionSelectMode       ActionType = "SELECT_MODE"
	ActionSelectDifficulty ActionType = "SELECT_DIFFICULTY"
	ActionSelectSymbol     ActionType = "SELECT_SYMBOL"
	ActionStartGame        ActionType = "START_GAME"
	ActionMakeMove         ActionType = "MAKE_MOVE"
	ActionAIMove           ActionType = "AI_MOVE"
	ActionSetAITimer       ActionType = "SET_AI_TIMER"
	ActionNewGame          ActionType = "NEW_GAME"
	ActionRestartGame      ActionType = "RESTART_GAME"
	ActionBackToMenu       ActionType = "BACK_TO_MENU"
)

// Action is the closed set of state transitions. Only the types declared in
// this file implement it.
type Action interface {
	Type() ActionType
	sealed()
}

type (
	SelectMode       struct{ Mode Mode }
	SelectDifficulty struct{ Difficulty Difficulty }
	SelectSymbol     struct{ Symbol Mark }
	StartGame        struct{}
	MakeMove         struct{ Index int }
	AIMove           struct{ Index int }
	SetAITimer       struct{ TimerID uint64 }
	NewGame          struct{}
	RestartGame      struct{}
	BackToMenu       struct{}
)

func (SelectMode) Type() ActionType       { return ActionSelectMode }
func (SelectDifficulty) Type() ActionType { return ActionSelectDifficulty }
func (SelectSymbol) Type() ActionType     { return ActionSelectSymbol }
func (StartGame) Type() ActionType        { return ActionStartGame }
func (MakeMove) Type() ActionType         { return ActionMakeMove }
func (AIMove) Type() ActionType           { return ActionAIMove }
func (SetAITimer) Type() ActionType       { return ActionSetAITimer }
func (NewGame) Type() ActionType          { return ActionNewGame }
func (RestartGame) Type() ActionType      { return ActionRestartGame }
func (BackToMenu) Type() ActionType       { return ActionBackToMenu }

func (SelectMode) sealed()       {}
func (SelectDifficulty) sealed() {}
func (SelectSymbol) sealed()     {}
func (StartGame) sealed()        {}
func (MakeMove) sealed()         {}
func (AIMove) sealed()           {}
func (SetAITimer) sealed()       {}
func (NewGame) sealed()          {}
func (RestartGame) sealed()      {}
func (BackToMenu) sealed()       {}

// ActionRequest is the wire form of an action sent by a client.
type ActionRequest struct {
	Type       ActionType `json:"type"`
	Mode       Mode       `json:"mode,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Symbol     Mark       `json:"symbol,omitempty"`
	Index      *int       `json:"index,omitempty"`
}

// ClientAction converts a request into an action. AI_MOVE and SET_AI_TIMER
// belong to the scheduler and are refused.
func (that ActionRequest) ClientAction() (Action, error) {
	switch that.Type {
	case ActionSelectMode:
		if that.Mode != ModeAI && that.Mode != ModeMultiplayer {
			return nil, fmt.Errorf("%w: mode %q", apperror.ErrUnknownAction, that.Mode)
		}
		return SelectMode{Mode: that.Mode}, nil
	case ActionSelectDifficulty:
		switch that.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
			return SelectDifficulty{Difficulty: that.Difficulty}, nil
		}
		return nil, fmt.Errorf("%w: difficulty %q", apperror.ErrUnknownAction, that.Difficulty)
	case ActionSelectSymbol:
		if that.Symbol != PlayerX && that.Symbol != PlayerO {
			return nil, fmt.Errorf("%w: symbol %q", apperror.ErrUnknownAction, that.Symbol)
		}
		return SelectSymbol{Symbol: that.Symbol}, nil
	case ActionStartGame:
		return StartGame{}, nil
	case ActionMakeMove:
		if that.Index == nil {
			return nil, fmt.Errorf("%w: index is required", apperror.ErrUnknownAction)
		}
		return MakeMove{Index: *that.Index}, nil
	case ActionNewGame:
		return NewGame{}, nil
	case ActionRestartGame:
		return RestartGame{}, nil
	case ActionBackToMenu:
		return BackToMenu{}, nil
	case ActionAIMove, ActionSetAITimer:
		return nil, fmt.Errorf("%w: %s", apperror.ErrActionForbidden, that.Type)
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, that.Type)
	}
}
