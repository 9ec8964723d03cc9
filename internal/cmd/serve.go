package cmd

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-engine/internal"
)

// tictactoe serve
func Serve(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve game sessions over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			serve starts the HTTP server. Clients create a session with
			POST /sessions, send actions to POST /sessions/{id}/actions and
			follow every state change on GET /sessions/{id}/ws.

			Each published state is also stored in Redis and announced on the
			configured channel, so "tictactoe watch" can follow all sessions.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.RunApp(cmd.Context(), opts.newLogger(os.Stdout), opts.conf)
		},
	}
}
