package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const spinnerCharSet = 14

type playSetup struct {
	mode       string
	difficulty string
	symbol     string
}

// tictactoe play
func Play(opts *options) *cobra.Command {
	setup := playSetup{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			play starts a game in the terminal. Enter a cell number from 0 to 8
			to move; cells are numbered left to right, top to bottom.

			Between rounds enter n for a new round (scores kept), r to restart
			the round, or q to quit. In multiplayer mode both players share
			the keyboard and the first player alternates every round.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			actions, err := setup.actions()
			if err != nil {
				return err
			}

			// keep logs off the board
			manager := usecase.NewGameManager(opts.newLogger(os.Stderr), nil, opts.settings())
			defer manager.Shutdown()

			out := cmd.OutOrStdout()
			thinking := spinner.New(spinner.CharSets[spinnerCharSet], 100*time.Millisecond, spinner.WithWriter(out))
			thinking.Suffix = " AI is thinking"

			return runPlay(cmd.Context(), cmd.InOrStdin(), out, thinking, manager.CreateSession(), actions)
		},
	}

	cmd.Flags().StringVarP(&setup.mode, "mode", "m", string(entity.ModeAI), "Game mode: ai or multiplayer")
	cmd.Flags().StringVarP(&setup.difficulty, "difficulty", "d", string(entity.DifficultyMedium), "AI difficulty: easy, medium or hard")
	cmd.Flags().StringVarP(&setup.symbol, "symbol", "s", string(entity.PlayerX), "Your symbol against the AI: X or O")

	return cmd
}

// actions - the menu and setup choices as validated actions.
func (that playSetup) actions() ([]entity.Action, error) {
	requests := []entity.ActionRequest{{Type: entity.ActionSelectMode, Mode: entity.Mode(that.mode)}}

	if entity.Mode(that.mode) == entity.ModeAI {
		requests = append(requests,
			entity.ActionRequest{Type: entity.ActionSelectDifficulty, Difficulty: entity.Difficulty(that.difficulty)},
			entity.ActionRequest{Type: entity.ActionSelectSymbol, Symbol: entity.Mark(strings.ToUpper(that.symbol))},
			entity.ActionRequest{Type: entity.ActionStartGame},
		)
	}

	actions := make([]entity.Action, 0, len(requests))
	for _, request := range requests {
		action, err := request.ClientAction()
		if err != nil {
			return nil, fmt.Errorf("invalid setup: %w", err)
		}
		actions = append(actions, action)
	}

	return actions, nil
}

// progress is shown while the AI thinks.
type progress interface {
	Start()
	Stop()
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, thinking progress, session *usecase.GameSession, setup []entity.Action) error {
	updates, stop, err := session.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch session: %w", err)
	}
	defer stop()

	var state entity.GameState
	for _, action := range setup {
		if state, err = session.Dispatch(ctx, action); err != nil {
			return err
		}
	}

	lines := bufio.NewScanner(in)

	for {
		if state.AwaitsAI() {
			thinking.Start()
			state, err = waitForAI(ctx, updates)
			thinking.Stop()

			if err != nil {
				return err
			}
		}

		render(out, state)

		if state.IsOver() {
			_, _ = fmt.Fprint(out, "[n]ew round, [r]estart, [q]uit: ")
		} else {
			_, _ = fmt.Fprintf(out, "%s, choose a cell: ", state.CurrentPlayer)
		}

		if !lines.Scan() {
			return lines.Err()
		}

		action, quit, parseErr := parseCommand(lines.Text())
		if quit {
			return nil
		}
		if parseErr != nil {
			_, _ = fmt.Fprintln(out, parseErr)
			continue
		}

		next, dispatchErr := session.Dispatch(ctx, action)
		if dispatchErr != nil {
			return dispatchErr
		}

		if next == state {
			_, _ = fmt.Fprintln(out, "that move is not allowed")
		}
		state = next
	}
}

func waitForAI(ctx context.Context, updates <-chan entity.GameState) (entity.GameState, error) {
	for {
		select {
		case <-ctx.Done():
			return entity.GameState{}, ctx.Err()
		case state, ok := <-updates:
			if !ok {
				return entity.GameState{}, fmt.Errorf("%w while the AI was thinking", apperror.ErrSessionClosed)
			}
			if !state.AwaitsAI() {
				return state, nil
			}
		}
	}
}

func parseCommand(line string) (entity.Action, bool, error) {
	switch text := strings.ToLower(strings.TrimSpace(line)); text {
	case "q", "quit":
		return nil, true, nil
	case "n", "new":
		return entity.NewGame{}, false, nil
	case "r", "restart":
		return entity.RestartGame{}, false, nil
	default:
		cell, err := strconv.Atoi(text)
		if err != nil {
			return nil, false, fmt.Errorf("unknown command %q", text)
		}

		return entity.MakeMove{Index: cell}, false, nil
	}
}

func render(out io.Writer, state entity.GameState) {
	_, _ = fmt.Fprintf(out, "\n%s\n%s    (X %d, O %d, draws %d)\n",
		state.Board, state.Status(), state.Scores.X, state.Scores.O, state.Scores.Draws)
}
