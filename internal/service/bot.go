package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	// NoMove is returned when the board has no empty cell.
	NoMove = -1

	DefaultMediumProbability = 0.5

	winScore = 10
)

// RandSource is the randomness the bot draws from; *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
	Float64() float64
}

type BotService interface {
	GetBestMove(board entity.Board, aiSymbol entity.Mark) int
	GetRandomMove(board entity.Board) int
	GetAIMove(board entity.Board, difficulty entity.Difficulty, aiSymbol entity.Mark) (int, error)
}

type botService struct {
	rnd               RandSource
	mediumProbability float64
}

// NewBotService - mediumProbability is the chance a medium bot plays the optimal move.
// The bot is not safe for concurrent use when rnd is not.
func NewBotService(rnd RandSource, mediumProbability float64) BotService {
	return &botService{
		rnd:               rnd,
		mediumProbability: mediumProbability,
	}
}

// Minimax scores board from aiSymbol's point of view. Faster wins and slower
// losses score higher; a draw scores 0.
func Minimax(board entity.Board, depth int, maximizing bool, aiSymbol entity.Mark) int {
	switch winner := entity.CheckWinner(board); winner {
	case aiSymbol:
		return winScore - depth
	case entity.NextPlayer(aiSymbol):
		return -winScore + depth
	}

	if entity.CheckDraw(board) {
		return 0
	}

	mover := aiSymbol
	if !maximizing {
		mover = entity.NextPlayer(aiSymbol)
	}

	best := 0
	for i, move := range entity.AvailableMoves(board) {
		next := board
		next[move] = mover

		score := Minimax(next, depth+1, !maximizing, aiSymbol)
		if i == 0 || (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}

	return best
}

// GetBestMove returns the lowest index among the highest scoring moves, or NoMove.
func (that *botService) GetBestMove(board entity.Board, aiSymbol entity.Mark) int {
	bestMove := NoMove
	bestScore := 0

	for _, move := range entity.AvailableMoves(board) {
		next := board
		next[move] = aiSymbol

		score := Minimax(next, 0, false, aiSymbol)
		if bestMove == NoMove || score > bestScore {
			bestMove, bestScore = move, score
		}
	}

	return bestMove
}

func (that *botService) GetRandomMove(board entity.Board) int {
	moves := entity.AvailableMoves(board)
	if len(moves) == 0 {
		return NoMove
	}

	return moves[that.rnd.Intn(len(moves))]
}

// GetAIMove picks a move for the given difficulty. Medium samples once per call.
func (that *botService) GetAIMove(board entity.Board, difficulty entity.Difficulty, aiSymbol entity.Mark) (int, error) {
	if len(entity.AvailableMoves(board)) == 0 {
		return NoMove, apperror.ErrNoAvailableMoves
	}

	switch difficulty {
	case entity.DifficultyEasy:
		return that.GetRandomMove(board), nil
	case entity.DifficultyMedium:
		if that.rnd.Float64() < that.mediumProbability {
			return that.GetBestMove(board, aiSymbol), nil
		}
		return that.GetRandomMove(board), nil
	case entity.DifficultyHard:
		return that.GetBestMove(board, aiSymbol), nil
	default:
		return NoMove, fmt.Errorf("unknown difficulty: %q", difficulty)
	}
}
