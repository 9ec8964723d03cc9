package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type fakeSource struct {
	stored    map[string]*entity.Session
	published []*entity.Session
}

func (that *fakeSource) GetByID(_ context.Context, id string) (*entity.Session, error) {
	session, ok := that.stored[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session, nil
}

func (that *fakeSource) Subscribe(context.Context) (<-chan *entity.Session, error) {
	sessions := make(chan *entity.Session, len(that.published))
	for _, session := range that.published {
		sessions <- session
	}
	close(sessions)

	return sessions, nil
}

func snapshot(id string, round int) *entity.Session {
	state := entity.InitialState()
	state.RoundNumber = round

	return &entity.Session{ID: id, State: state}
}

func TestRunWatch(t *testing.T) {
	t.Run("Prints every published snapshot", func(t *testing.T) {
		source := &fakeSource{published: []*entity.Session{snapshot("a", 1), snapshot("b", 2)}}
		var out bytes.Buffer

		require.NoError(t, runWatch(context.Background(), &out, source, ""))

		assert.Contains(t, out.String(), "== a  menu/ai  round 1")
		assert.Contains(t, out.String(), "== b  menu/ai  round 2")
	})

	t.Run("Filters one session and starts from its snapshot", func(t *testing.T) {
		source := &fakeSource{
			stored:    map[string]*entity.Session{"a": snapshot("a", 0)},
			published: []*entity.Session{snapshot("b", 2), snapshot("a", 1)},
		}
		var out bytes.Buffer

		require.NoError(t, runWatch(context.Background(), &out, source, "a"))

		assert.Contains(t, out.String(), "== a  menu/ai  round 0")
		assert.Contains(t, out.String(), "== a  menu/ai  round 1")
		assert.NotContains(t, out.String(), "== b")
	})

	t.Run("Fails for an unknown session", func(t *testing.T) {
		err := runWatch(context.Background(), &bytes.Buffer{}, &fakeSource{}, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
