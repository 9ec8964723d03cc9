package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
)

// tictactoe watch
func Watch(opts *options) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the sessions of a running server",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			watch subscribes to the Redis channel a "tictactoe serve" process
			publishes on and prints every state as it happens. With --session
			only that session is shown, starting from its stored snapshot.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := opts.newLogger(os.Stderr)

			redisStorage, err := storage.NewRedisStorage(ctx, logger, opts.conf.Redis.GetRedisAddr())
			if err != nil {
				return err
			}
			defer redisStorage.Close()

			sessionRepo := repository.NewSessionRepository(redisStorage.Connection, opts.conf.Redis.Channel, opts.conf.Redis.SnapshotTTL)

			return runWatch(ctx, cmd.OutOrStdout(), sessionRepo, sessionID)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only show this session")

	return cmd
}

type snapshotSource interface {
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Subscribe(ctx context.Context) (<-chan *entity.Session, error)
}

func runWatch(ctx context.Context, out io.Writer, source snapshotSource, sessionID string) error {
	sessions, err := source.Subscribe(ctx)
	if err != nil {
		return err
	}

	if sessionID != "" {
		snapshot, getErr := source.GetByID(ctx, sessionID)
		if getErr != nil {
			return getErr
		}
		printSnapshot(out, snapshot)
	}

	for snapshot := range sessions {
		if sessionID != "" && snapshot.ID != sessionID {
			continue
		}
		printSnapshot(out, snapshot)
	}

	return nil
}

func printSnapshot(out io.Writer, snapshot *entity.Session) {
	state := snapshot.State
	_, _ = fmt.Fprintf(out, "== %s  %s/%s  round %d\n", snapshot.ID, state.Screen, state.Mode, state.RoundNumber)
	render(out, state)
}
