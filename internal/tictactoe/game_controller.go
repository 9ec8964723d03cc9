package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Reduce is the transition function of a session. It never mutates state and
// never fails: actions that do not apply return state unchanged.
func Reduce(state entity.GameState, action entity.Action) entity.GameState {
	switch act := action.(type) {
	case entity.SelectMode:
		return selectMode(state, act.Mode)

	case entity.SelectDifficulty:
		state.Difficulty = act.Difficulty
		return state

	case entity.SelectSymbol:
		if state.Screen != entity.ScreenSetup {
			return state
		}
		state.HumanSymbol = act.Symbol
		return state

	case entity.StartGame:
		if state.Screen != entity.ScreenSetup {
			return state
		}
		state.Screen = entity.ScreenGame
		return resetRound(state, entity.PlayerX)

	case entity.MakeMove:
		next, ok := applyMove(state, act.Index)
		if !ok {
			return state
		}
		next.IsAITurn = !next.IsOver() && next.Mode == entity.ModeAI && next.CurrentPlayer == next.AISymbol()
		return next

	case entity.AIMove:
		next, ok := applyMove(state, act.Index)
		if !ok {
			return state
		}
		next.IsAITurn = false
		next.AITimerID = 0
		return next

	case entity.SetAITimer:
		state.AITimerID = act.TimerID
		return state

	case entity.NewGame:
		state.RoundNumber++
		return resetRound(state, firstPlayer(state))

	case entity.RestartGame:
		return resetRound(state, entity.PlayerX)

	case entity.BackToMenu:
		return entity.InitialState()

	default:
		panic(fmt.Sprintf("tictactoe: unhandled action %T", action))
	}
}

func selectMode(state entity.GameState, mode entity.Mode) entity.GameState {
	state.Mode = mode

	// ai mode continues to difficulty and symbol selection
	if mode == entity.ModeAI {
		state.Screen = entity.ScreenSetup
	} else {
		state.Screen = entity.ScreenGame
	}

	state = resetRound(state, entity.PlayerX)
	state.IsAITurn = false

	return state
}

// resetRound clears the board for a new round that first lets starter move.
func resetRound(state entity.GameState, starter entity.Mark) entity.GameState {
	state.Board = entity.NewBoard()
	state.CurrentPlayer = starter
	state.Result = entity.ResultPlaying
	state.WinningLine = nil
	state.IsAITurn = state.Mode == entity.ModeAI && starter == state.AISymbol()
	state.AITimerID = 0

	return state
}

// firstPlayer - X in ai mode; in multiplayer X on even rounds and O on odd ones.
func firstPlayer(state entity.GameState) entity.Mark {
	if state.Mode == entity.ModeMultiplayer && state.RoundNumber%2 == 1 {
		return entity.PlayerO
	}

	return entity.PlayerX
}

// applyMove places the current player's mark and settles result and scores.
// It reports false when the move is not allowed.
func applyMove(state entity.GameState, index int) (entity.GameState, bool) {
	if state.IsOver() || !entity.IsValidMove(state.Board, index) {
		return state, false
	}

	board, err := entity.PlaceMark(state.Board, index, state.CurrentPlayer)
	if err != nil {
		return state, false
	}

	state.Board = board
	state.Result = entity.GameStatus(board)
	state.WinningLine = entity.WinningLine(board)
	state.CurrentPlayer = entity.NextPlayer(state.CurrentPlayer)

	switch state.Result {
	case entity.ResultWinX:
		state.Scores.X++
	case entity.ResultWinO:
		state.Scores.O++
	case entity.ResultDraw:
		state.Scores.Draws++
	case entity.ResultPlaying:
	}

	return state, true
}
