package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

// options are resolved once by the root command before any subcommand runs.
type options struct {
	configPath string
	logLevel   string

	conf *config.Config
}

func Root() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe engine with a minimax AI",
		Long: heredoc.Doc(`
			tictactoe runs the tic-tac-toe engine: a pure game reducer, an
			unbeatable minimax AI with easy, medium and hard levels, and the
			sessions that drive them.

			Configuration is read from --config, then from tictactoe/config.yml
			in the XDG config directories, then from the environment.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			if cmd.Flag("log-level").Changed {
				conf.LogLevel = opts.logLevel
			}

			opts.conf = conf

			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yml", "Path to the config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	root.AddCommand(Serve(opts))
	root.AddCommand(Play(opts))
	root.AddCommand(Watch(opts))

	return root
}

func (that *options) settings() usecase.Settings {
	return usecase.Settings{
		DelayMin:          that.conf.AI.DelayMin,
		DelayMax:          that.conf.AI.DelayMax,
		MediumProbability: that.conf.AI.MediumProbability,
	}
}

// newLogger - JSON logger at the configured level.
func (that *options) newLogger(w io.Writer) *slog.Logger {
	var level slog.Level

	switch that.conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
