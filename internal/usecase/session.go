package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/store"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// GameSession is one running game: a store, its bot and its AI scheduler,
// all owned by a single loop goroutine. Callers talk to the loop through
// Dispatch, State and Watch.
type GameSession struct {
	id     string
	logger *slog.Logger

	store     *store.Store
	bot       service.BotService
	scheduler *AIScheduler

	// deferred holds actions raised by subscribers; they are dispatched after
	// the current pass ends.
	deferred []entity.Action
	watchers map[chan entity.GameState]func()

	requests chan func()
	ticks    chan uint64
	quit     chan struct{}
	done     chan struct{}

	closeOnce sync.Once
}

type sessionDeps struct {
	bot       service.BotService
	rnd       service.RandSource
	settings  Settings
	publisher snapshotPublisher
}

func newGameSession(ctx context.Context, logger *slog.Logger, id string, deps sessionDeps) *GameSession {
	session := &GameSession{
		id:       id,
		logger:   logger.With("sessionID", id),
		store:    store.New(tictactoe.Reduce, entity.InitialState()),
		bot:      deps.bot,
		watchers: make(map[chan entity.GameState]func()),
		requests: make(chan func()),
		ticks:    make(chan uint64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	session.scheduler = NewAIScheduler(session.logger, deps.settings.DelayMin, deps.settings.DelayMax, deps.rnd, session.fire)

	session.store.Subscribe(func(state entity.GameState) {
		if timerID := session.scheduler.Observe(state); timerID != 0 {
			session.deferred = append(session.deferred, entity.SetAITimer{TimerID: timerID})
		}
	})

	if deps.publisher != nil {
		session.store.Subscribe(func(state entity.GameState) {
			snapshot := &entity.Session{ID: id, State: state}
			if err := deps.publisher.Publish(ctx, snapshot); err != nil {
				session.logger.Warn("failed to publish snapshot", "error", err)
			}
		})
	}

	go session.run()

	return session
}

func (that *GameSession) ID() string {
	return that.id
}

// Dispatch runs action through the store and returns the state once every
// follow-up action raised by subscribers has been applied. A human move is
// refused while the AI is thinking.
func (that *GameSession) Dispatch(ctx context.Context, action entity.Action) (entity.GameState, error) {
	var (
		state   entity.GameState
		refused error
	)

	err := that.do(ctx, func() {
		if _, isMove := action.(entity.MakeMove); isMove && that.store.State().AwaitsAI() {
			state, refused = that.store.State(), apperror.ErrAIOnTurn
			return
		}

		state = that.dispatch(action)
	})
	if err == nil {
		err = refused
	}
	if err != nil {
		return state, fmt.Errorf("failed to dispatch %s: %w", action.Type(), err)
	}

	return state, nil
}

func (that *GameSession) State(ctx context.Context) (entity.GameState, error) {
	var state entity.GameState

	if err := that.do(ctx, func() { state = that.store.State() }); err != nil {
		return entity.GameState{}, err
	}

	return state, nil
}

// Watch streams published states. The channel keeps only the latest state
// when the reader falls behind, and it is closed by stop or when the session
// ends. The current state is delivered first.
func (that *GameSession) Watch(ctx context.Context) (<-chan entity.GameState, func(), error) {
	updates := make(chan entity.GameState, 1)

	err := that.do(ctx, func() {
		unsubscribe := that.store.Subscribe(func(state entity.GameState) {
			offer(updates, state)
		})
		that.watchers[updates] = unsubscribe
		offer(updates, that.store.State())
	})
	if err != nil {
		return nil, nil, err
	}

	stop := func() {
		// a closed session has already released every watcher
		_ = that.do(context.Background(), func() { that.unwatch(updates) })
	}

	return updates, stop, nil
}

// Close stops the loop and any pending AI move. It waits for the loop to exit.
func (that *GameSession) Close() {
	that.closeOnce.Do(func() {
		close(that.quit)
	})
	<-that.done
}

func (that *GameSession) run() {
	defer close(that.done)

	for {
		select {
		case fn := <-that.requests:
			fn()
		case timerID := <-that.ticks:
			that.onTimer(timerID)
		case <-that.quit:
			that.scheduler.Cancel()
			for updates := range that.watchers {
				that.unwatch(updates)
			}
			that.logger.Debug("session loop stopped")

			return
		}
	}
}

func (that *GameSession) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	request := func() {
		defer close(finished)
		fn()
	}

	select {
	case that.requests <- request:
	case <-that.done:
		return apperror.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished

	return nil
}

func (that *GameSession) dispatch(action entity.Action) entity.GameState {
	that.store.Dispatch(action)

	for len(that.deferred) > 0 {
		next := that.deferred[0]
		that.deferred = that.deferred[1:]
		that.store.Dispatch(next)
	}

	return that.store.State()
}

func (that *GameSession) fire(timerID uint64) {
	select {
	case that.ticks <- timerID:
	case <-that.done:
	}
}

func (that *GameSession) onTimer(timerID uint64) {
	log := that.logger.With("method", "onTimer", "timerID", timerID)

	if !that.scheduler.Claim(timerID) {
		log.Debug("ignoring stale timer")
		return
	}

	state := that.store.State()
	if !state.AwaitsAI() {
		log.Debug("ai no longer on turn")
		return
	}

	// the turn must be handed back even when the difficulty is unknown,
	// otherwise human moves stay refused for good
	move, err := that.bot.GetAIMove(state.Board, state.Difficulty, state.AISymbol())
	if err != nil {
		log.Warn("failed to compute ai move, playing a random cell", "error", err)
		move = that.bot.GetRandomMove(state.Board)
	}
	if move == service.NoMove {
		log.Error("no cell left for the ai")
		return
	}

	that.dispatch(entity.AIMove{Index: move})
	log.Debug("ai moved", "cell", move, "difficulty", state.Difficulty)
}

func (that *GameSession) unwatch(updates chan entity.GameState) {
	unsubscribe, ok := that.watchers[updates]
	if !ok {
		return
	}

	unsubscribe()
	delete(that.watchers, updates)
	close(updates)
}

// offer replaces a buffered state nobody has read yet. Only the session loop
// sends, so the second send never blocks.
func offer(updates chan entity.GameState, state entity.GameState) {
	select {
	case updates <- state:
	default:
		select {
		case <-updates:
		default:
		}
		updates <- state
	}
}
