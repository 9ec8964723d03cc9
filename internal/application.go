package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the server until ctx is cancelled.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, logger, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}
	defer redisStorage.Close()

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection, conf.Redis.Channel, conf.Redis.SnapshotTTL)
	gameManager := usecase.NewGameManager(logger, sessionRepo, usecase.Settings{
		DelayMin:          conf.AI.DelayMin,
		DelayMax:          conf.AI.DelayMax,
		MediumProbability: conf.AI.MediumProbability,
	})
	defer gameManager.Shutdown()

	wsServer := websocket.New(logger, gameManager)
	httpServer := rest.New(logger, gameManager, wsServer)

	if err = httpServer.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
