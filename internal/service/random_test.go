package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPlayer_NextMove(t *testing.T) {
	player := NewRandomPlayer(rand.New(rand.NewPCG(1, 2))) //nolint: gosec // deterministic tests

	t.Run("Only picks empty cells", func(t *testing.T) {
		// Given: a board with a single empty cell
		board, err := entity.ParseState("XOXOXOO.X")
		require.NoError(t, err)

		// When: asking for a move
		action, err := player.NextMove(context.Background(), &board)

		// Then: that cell is chosen
		require.NoError(t, err)
		assert.Equal(t, entity.Action{Row: 2, Col: 1}, action)
	})

	t.Run("Error on full board", func(t *testing.T) {
		board, err := entity.ParseState("XOXXOOOXX")
		require.NoError(t, err)

		_, err = player.NextMove(context.Background(), &board)

		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}
