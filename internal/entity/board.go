package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is the content of a single cell, or the symbol a player controls.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// Board is a 3x3 grid stored row-major:
//
//	0 | 1 | 2
//	3 | 4 | 5
//	6 | 7 | 8
//
// It is an array, so every assignment copies it.
type Board [BoardSize]Mark

// Line is one of the eight winning triples.
type Line [3]int

// WinLines - rows, columns and diagonals.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

func NewBoard() Board {
	return Board{}
}

// PlaceMark returns a copy of board with player's mark placed at index.
func PlaceMark(board Board, index int, player Mark) (Board, error) {
	if index < 0 || index >= BoardSize {
		return board, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, index)
	}

	if board[index] != EmptyCell {
		return board, fmt.Errorf("%w: cell %d holds %s", apperror.ErrCellOccupied, index, board[index])
	}

	board[index] = player

	return board, nil
}

func IsValidMove(board Board, index int) bool {
	if index < 0 || index >= BoardSize {
		return false
	}

	return board[index] == EmptyCell
}

func CheckWinner(board Board) Mark {
	if line := WinningLine(board); line != nil {
		return board[line[0]]
	}

	return EmptyCell
}

// WinningLine returns the first complete line, or nil.
func WinningLine(board Board) *Line {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != EmptyCell && a == b && b == c {
			found := line
			return &found
		}
	}

	return nil
}

// CheckDraw reports a full board without a winner.
func CheckDraw(board Board) bool {
	if CheckWinner(board) != EmptyCell {
		return false
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func AvailableMoves(board Board) []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range board {
		if cell == EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}

func NextPlayer(player Mark) Mark {
	if player == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func GameStatus(board Board) Result {
	switch CheckWinner(board) {
	case PlayerX:
		return ResultWinX
	case PlayerO:
		return ResultWinO
	}

	if CheckDraw(board) {
		return ResultDraw
	}

	return ResultPlaying
}

// String renders the board as three rows, empty cells shown by their index.
func (that Board) String() string {
	cell := func(i int) string {
		if that[i] == EmptyCell {
			return fmt.Sprint(i)
		}
		return string(that[i])
	}

	return fmt.Sprintf(" %s | %s | %s\n---+---+---\n %s | %s | %s\n---+---+---\n %s | %s | %s",
		cell(0), cell(1), cell(2),
		cell(3), cell(4), cell(5),
		cell(6), cell(7), cell(8),
	)
}
