package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

type snapshotPublisher interface {
	Publish(ctx context.Context, session *entity.Session) error
	DeleteByID(ctx context.Context, id string) error
}

// Settings tune the AI of every session the manager creates.
type Settings struct {
	DelayMin          time.Duration
	DelayMax          time.Duration
	MediumProbability float64
}

func DefaultSettings() Settings {
	return Settings{
		DelayMin:          300 * time.Millisecond,
		DelayMax:          600 * time.Millisecond,
		MediumProbability: service.DefaultMediumProbability,
	}
}

type GameManager struct {
	logger    *slog.Logger
	settings  Settings
	publisher snapshotPublisher

	// ctx outlives single requests; snapshots are published with it.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*GameSession
}

// NewGameManager - publisher may be nil, then snapshots are not published.
func NewGameManager(logger *slog.Logger, publisher snapshotPublisher, settings Settings) *GameManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &GameManager{
		logger:    logger,
		settings:  settings,
		publisher: publisher,
		ctx:       ctx,
		cancel:    cancel,
		sessions:  make(map[string]*GameSession),
	}
}

func (that *GameManager) CreateSession() *GameSession {
	id := uuid.NewString()

	// every session draws from its own source, so bots never share one
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	session := newGameSession(that.ctx, that.logger, id, sessionDeps{
		bot:       service.NewBotService(rnd, that.settings.MediumProbability),
		rnd:       rnd,
		settings:  that.settings,
		publisher: that.publisher,
	})

	that.mu.Lock()
	that.sessions[id] = session
	that.mu.Unlock()

	that.logger.Info("session created", "sessionID", id)

	return session
}

func (that *GameManager) GetSession(id string) (*GameSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return session, nil
}

func (that *GameManager) Dispatch(ctx context.Context, id string, action entity.Action) (entity.GameState, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return entity.GameState{}, err
	}

	return session.Dispatch(ctx, action)
}

func (that *GameManager) State(ctx context.Context, id string) (entity.GameState, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return entity.GameState{}, err
	}

	return session.State(ctx)
}

// CloseSession stops the session and drops its published snapshot.
func (that *GameManager) CloseSession(ctx context.Context, id string) error {
	log := that.logger.With("method", "CloseSession", "sessionID", id)

	that.mu.Lock()
	session, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	session.Close()

	if that.publisher != nil {
		if err := that.publisher.DeleteByID(ctx, id); err != nil {
			log.Warn("failed to delete snapshot", "error", err)
		}
	}

	log.Info("session closed")

	return nil
}

func (that *GameManager) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// Shutdown closes every session. Snapshots are left to expire.
func (that *GameManager) Shutdown() {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*GameSession)
	that.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}

	that.cancel()
	that.logger.Info("all sessions closed", "count", len(sessions))
}
