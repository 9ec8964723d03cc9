package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRequest_ClientAction(t *testing.T) {
	t.Run("Decodes presentation actions", func(t *testing.T) {
		index := 4

		cases := map[string]struct {
			request  ActionRequest
			expected Action
		}{
			"select mode":       {ActionRequest{Type: ActionSelectMode, Mode: ModeMultiplayer}, SelectMode{Mode: ModeMultiplayer}},
			"select difficulty": {ActionRequest{Type: ActionSelectDifficulty, Difficulty: DifficultyHard}, SelectDifficulty{Difficulty: DifficultyHard}},
			"select symbol":     {ActionRequest{Type: ActionSelectSymbol, Symbol: PlayerO}, SelectSymbol{Symbol: PlayerO}},
			"start":             {ActionRequest{Type: ActionStartGame}, StartGame{}},
			"move":              {ActionRequest{Type: ActionMakeMove, Index: &index}, MakeMove{Index: 4}},
			"new game":          {ActionRequest{Type: ActionNewGame}, NewGame{}},
			"restart":           {ActionRequest{Type: ActionRestartGame}, RestartGame{}},
			"menu":              {ActionRequest{Type: ActionBackToMenu}, BackToMenu{}},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				action, err := tc.request.ClientAction()

				require.NoError(t, err)
				assert.Equal(t, tc.expected, action)
				assert.Equal(t, tc.request.Type, action.Type())
			})
		}
	})

	t.Run("Refuses scheduler actions", func(t *testing.T) {
		for _, actionType := range []ActionType{ActionAIMove, ActionSetAITimer} {
			_, err := ActionRequest{Type: actionType}.ClientAction()

			assert.ErrorIs(t, err, apperror.ErrActionForbidden)
		}
	})

	t.Run("Rejects malformed requests", func(t *testing.T) {
		requests := []ActionRequest{
			{Type: "JUMP"},
			{Type: ActionSelectMode, Mode: "online"},
			{Type: ActionSelectDifficulty, Difficulty: "insane"},
			{Type: ActionSelectSymbol, Symbol: "Z"},
			{Type: ActionMakeMove},
		}

		for _, request := range requests {
			_, err := request.ClientAction()

			assert.ErrorIs(t, err, apperror.ErrUnknownAction, "request %+v", request)
		}
	})

	t.Run("Decodes from JSON", func(t *testing.T) {
		// Given: a move request as a client sends it
		var request ActionRequest
		require.NoError(t, json.Unmarshal([]byte(`{"type":"MAKE_MOVE","index":0}`), &request))

		// When: converting it
		action, err := request.ClientAction()

		// Then: index 0 survives decoding
		require.NoError(t, err)
		assert.Equal(t, MakeMove{Index: 0}, action)
	})
}
