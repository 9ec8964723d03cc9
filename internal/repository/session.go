package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const sessionKeyPrefix = "session:"

// SessionRepository keeps the latest snapshot of every live session in Redis
// and announces each one on a pub/sub channel. Snapshots are never loaded
// back into a session.
type SessionRepository interface {
	Publish(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Subscribe(ctx context.Context) (<-chan *entity.Session, error)
}

type dbSession struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
}

// NewSessionRepository - ttl of 0 keeps snapshots until the session closes.
func NewSessionRepository(client *redis.Client, channel string, ttl time.Duration) SessionRepository {
	return &dbSession{
		client:  client,
		channel: channel,
		ttl:     ttl,
	}
}

func (that *dbSession) Publish(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+session.ID, sessionJSON, that.ttl)
		pipe.Publish(ctx, that.channel, sessionJSON)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session by ID: %w", err)
	}

	return nil
}

// Subscribe streams snapshots published on the channel until ctx is done.
// Messages that do not decode are skipped.
func (that *dbSession) Subscribe(ctx context.Context) (<-chan *entity.Session, error) {
	pubsub := that.client.Subscribe(ctx, that.channel)

	// wait for the subscription to be confirmed so no snapshot is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", that.channel, err)
	}

	sessions := make(chan *entity.Session)

	go func() {
		defer close(sessions)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				var session entity.Session
				if err := json.Unmarshal([]byte(message.Payload), &session); err != nil {
					continue
				}

				select {
				case sessions <- &session:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return sessions, nil
}
