package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type sessionManager interface {
	CreateSession() *usecase.GameSession
	State(ctx context.Context, id string) (entity.GameState, error)
	Dispatch(ctx context.Context, id string, action entity.Action) (entity.GameState, error)
	CloseSession(ctx context.Context, id string) error
	Count() int
}

type Server struct {
	logger   *slog.Logger
	sessions sessionManager

	// stream serves GET /sessions/{id}/ws when set.
	stream http.Handler
}

func New(logger *slog.Logger, sessions sessionManager, stream http.Handler) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		stream:   stream,
	}
}

func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	ping := NewPingHandler(that.sessions)
	router.Get("/ping", ping.PingHandler)

	router.Post("/sessions", that.createSession)
	router.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", that.getSession)
		r.Get("/board", that.getBoard)
		r.Post("/actions", that.dispatchAction)
		r.Delete("/", that.closeSession)

		if that.stream != nil {
			r.Method(http.MethodGet, "/ws", that.stream)
		}
	})

	return router
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("http server listening", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
