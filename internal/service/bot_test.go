package service

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

// scriptedRand replays fixed values and counts how often it was asked.
type scriptedRand struct {
	floats     []float64
	ints       []int
	floatCalls int
	intCalls   int
}

func (that *scriptedRand) Float64() float64 {
	value := that.floats[that.floatCalls%len(that.floats)]
	that.floatCalls++
	return value
}

func (that *scriptedRand) Intn(n int) int {
	value := that.ints[that.intCalls%len(that.ints)] % n
	that.intCalls++
	return value
}

func TestMinimax(t *testing.T) {
	t.Run("AI win is rewarded, faster is better", func(t *testing.T) {
		board := entity.Board{o, o, o, x, x, e, x, e, e}

		assert.Equal(t, 10, Minimax(board, 0, false, o))
		assert.Equal(t, 7, Minimax(board, 3, false, o))
	})

	t.Run("Opponent win is penalized, slower is better", func(t *testing.T) {
		board := entity.Board{x, x, x, o, o, e, e, e, e}

		assert.Equal(t, -10, Minimax(board, 0, true, o))
		assert.Equal(t, -6, Minimax(board, 4, true, o))
	})

	t.Run("Draw scores zero", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		assert.Equal(t, 0, Minimax(board, 5, true, x))
	})

	t.Run("Empty board is a draw with perfect play", func(t *testing.T) {
		assert.Equal(t, 0, Minimax(entity.NewBoard(), 0, true, x))
	})
}

func TestBotService_GetBestMove(t *testing.T) {
	bot := NewBotService(rand.New(rand.NewSource(1)), DefaultMediumProbability)

	t.Run("Takes the win over blocking", func(t *testing.T) {
		// Given: O can win on 2 while X threatens 5
		board := entity.Board{o, o, e, x, x, e, e, e, e}

		// When: O looks for the best move
		move := bot.GetBestMove(board, o)

		// Then: O completes the top row
		assert.Equal(t, 2, move)
	})

	t.Run("Blocks an imminent loss", func(t *testing.T) {
		board := entity.Board{x, x, e, o, e, e, e, e, e}

		assert.Equal(t, 2, bot.GetBestMove(board, o))
	})

	t.Run("Opening on an empty board is deterministic", func(t *testing.T) {
		// Every opening draws with perfect play, so the first index wins the tie
		first := bot.GetBestMove(entity.NewBoard(), x)

		assert.Equal(t, 0, first)
		assert.Equal(t, first, bot.GetBestMove(entity.NewBoard(), x))
	})

	t.Run("Returns NoMove on a full board", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		assert.Equal(t, NoMove, bot.GetBestMove(board, o))
	})
}

func TestBotService_GetRandomMove(t *testing.T) {
	t.Run("Uses the caller's randomness", func(t *testing.T) {
		// Given: moves 2, 5 and 8 are free and the source picks the second
		rnd := &scriptedRand{ints: []int{1}}
		bot := NewBotService(rnd, DefaultMediumProbability)
		board := entity.Board{x, o, e, o, x, e, x, o, e}

		// When / Then: the second free cell is chosen
		assert.Equal(t, 5, bot.GetRandomMove(board))
		assert.Equal(t, 1, rnd.intCalls)
	})

	t.Run("Returns NoMove on a full board", func(t *testing.T) {
		bot := NewBotService(&scriptedRand{ints: []int{0}}, DefaultMediumProbability)

		assert.Equal(t, NoMove, bot.GetRandomMove(entity.Board{x, o, x, x, o, o, o, x, x}))
	})
}

func TestBotService_GetAIMove(t *testing.T) {
	// O wins on 2; a random pick of the first free cell would also be 2, so use a
	// board where the first free cell is not the winning one.
	board := entity.Board{e, x, x, o, o, e, x, e, e}

	t.Run("Easy always plays random", func(t *testing.T) {
		rnd := &scriptedRand{ints: []int{0}, floats: []float64{0}}
		bot := NewBotService(rnd, DefaultMediumProbability)

		move, err := bot.GetAIMove(board, entity.DifficultyEasy, o)

		require.NoError(t, err)
		assert.Equal(t, 0, move)
		assert.Zero(t, rnd.floatCalls)
	})

	t.Run("Hard always plays optimal", func(t *testing.T) {
		rnd := &scriptedRand{ints: []int{0}, floats: []float64{0.99}}
		bot := NewBotService(rnd, DefaultMediumProbability)

		move, err := bot.GetAIMove(board, entity.DifficultyHard, o)

		require.NoError(t, err)
		assert.Equal(t, 5, move)
		assert.Zero(t, rnd.intCalls)
	})

	t.Run("Medium samples once per call", func(t *testing.T) {
		// Given: a source that alternates between the optimal and the random branch
		rnd := &scriptedRand{ints: []int{0}, floats: []float64{0.1, 0.9}}
		bot := NewBotService(rnd, DefaultMediumProbability)

		// When: asking twice
		first, err := bot.GetAIMove(board, entity.DifficultyMedium, o)
		require.NoError(t, err)
		second, err := bot.GetAIMove(board, entity.DifficultyMedium, o)
		require.NoError(t, err)

		// Then: the first call was optimal, the second random
		assert.Equal(t, 5, first)
		assert.Equal(t, 0, second)
		assert.Equal(t, 2, rnd.floatCalls)
	})

	t.Run("Error on a full board", func(t *testing.T) {
		bot := NewBotService(&scriptedRand{ints: []int{0}, floats: []float64{0}}, DefaultMediumProbability)

		move, err := bot.GetAIMove(entity.Board{x, o, x, x, o, o, o, x, x}, entity.DifficultyHard, o)

		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
		assert.Equal(t, NoMove, move)
	})

	t.Run("Error on unknown difficulty", func(t *testing.T) {
		bot := NewBotService(&scriptedRand{ints: []int{0}, floats: []float64{0}}, DefaultMediumProbability)

		_, err := bot.GetAIMove(board, "nightmare", o)

		require.Error(t, err)
	})
}

func TestBotService_GetAIMoveLegality(t *testing.T) {
	bot := NewBotService(rand.New(rand.NewSource(42)), DefaultMediumProbability)
	difficulties := []entity.Difficulty{entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard}

	// Given: a sample of reachable, unfinished boards
	boards := []entity.Board{
		entity.NewBoard(),
		{x, e, e, e, e, e, e, e, e},
		{x, o, e, e, x, e, e, e, e},
		{x, o, x, o, x, e, e, e, o},
		{x, o, x, x, o, o, o, x, e},
	}

	for _, board := range boards {
		for _, difficulty := range difficulties {
			for _, ai := range []entity.Mark{x, o} {
				// When: the bot chooses a move
				move, err := bot.GetAIMove(board, difficulty, ai)

				// Then: the move is always a free cell
				require.NoError(t, err)
				assert.True(t, entity.IsValidMove(board, move), "board %v difficulty %s move %d", board, difficulty, move)
			}
		}
	}
}

// Plays the hard bot against an opponent that tries every legal reply at every
// ply and checks the opponent never wins.
func TestBotService_HardIsUnbeatable(t *testing.T) {
	bot := NewBotService(rand.New(rand.NewSource(7)), DefaultMediumProbability)

	var play func(board entity.Board, toMove, ai entity.Mark)

	play = func(board entity.Board, toMove, ai entity.Mark) {
		status := entity.GameStatus(board)
		if status != entity.ResultPlaying {
			opponentWon := (ai == x && status == entity.ResultWinO) || (ai == o && status == entity.ResultWinX)
			require.False(t, opponentWon, "opponent won on %v", board)
			return
		}

		if toMove == ai {
			move, err := bot.GetAIMove(board, entity.DifficultyHard, ai)
			require.NoError(t, err)

			next, err := entity.PlaceMark(board, move, ai)
			require.NoError(t, err)

			play(next, entity.NextPlayer(toMove), ai)
			return
		}

		for _, move := range entity.AvailableMoves(board) {
			next, err := entity.PlaceMark(board, move, toMove)
			require.NoError(t, err)

			play(next, entity.NextPlayer(toMove), ai)
		}
	}

	t.Run("AI moves first", func(t *testing.T) {
		play(entity.NewBoard(), x, x)
	})

	t.Run("Opponent moves first", func(t *testing.T) {
		play(entity.NewBoard(), x, o)
	})
}
