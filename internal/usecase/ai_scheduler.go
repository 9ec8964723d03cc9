package usecase

import (
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

// AIScheduler owns the single "AI is thinking" timer of a session.
//
// It is not safe for concurrent use: every method is called from the session
// loop. The fire callback runs on the timer's goroutine and must only hand
// the timer ID back to that loop.
type AIScheduler struct {
	logger *slog.Logger

	delayMin time.Duration
	delayMax time.Duration
	rnd      service.RandSource

	fire func(timerID uint64)

	timer     *time.Timer
	pendingID uint64
	lastID    uint64
}

func NewAIScheduler(logger *slog.Logger, delayMin, delayMax time.Duration, rnd service.RandSource, fire func(timerID uint64)) *AIScheduler {
	return &AIScheduler{
		logger:   logger.With("component", "ai_scheduler"),
		delayMin: delayMin,
		delayMax: delayMax,
		rnd:      rnd,
		fire:     fire,
	}
}

// Observe applies the scheduling rule to a published state: schedule when the
// AI is on turn in a running round, cancel otherwise. It returns the ID of a
// newly started timer, or 0.
func (that *AIScheduler) Observe(state entity.GameState) uint64 {
	if state.AwaitsAI() {
		return that.schedule()
	}

	that.Cancel()

	return 0
}

func (that *AIScheduler) schedule() uint64 {
	if that.timer != nil {
		return 0
	}

	that.lastID++
	timerID := that.lastID
	delay := that.delay()

	that.pendingID = timerID
	that.timer = time.AfterFunc(delay, func() {
		that.fire(timerID)
	})

	that.logger.Debug("ai move scheduled", "timerID", timerID, "delay", delay)

	return timerID
}

// Cancel stops the pending timer, if any. Calling it again is a no-op.
func (that *AIScheduler) Cancel() {
	if that.timer == nil {
		return
	}

	that.timer.Stop()
	that.logger.Debug("ai move cancelled", "timerID", that.pendingID)

	that.timer = nil
	that.pendingID = 0
}

// Claim consumes a fired timer. It reports false for a timer that was
// cancelled or replaced before its callback got through.
func (that *AIScheduler) Claim(timerID uint64) bool {
	if timerID == 0 || timerID != that.pendingID {
		return false
	}

	that.timer = nil
	that.pendingID = 0

	return true
}

func (that *AIScheduler) Pending() bool {
	return that.timer != nil
}

func (that *AIScheduler) delay() time.Duration {
	spread := that.delayMax - that.delayMin
	if spread <= 0 {
		return that.delayMin
	}

	return that.delayMin + time.Duration(that.rnd.Float64()*float64(spread))
}
