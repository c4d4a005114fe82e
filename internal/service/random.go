package service

import (
	"context"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// RandomPlayer plays a uniformly random empty cell. It stands in for the
// human when training unattended.
type RandomPlayer struct {
	rng *rand.Rand
}

func NewRandomPlayer(rng *rand.Rand) *RandomPlayer {
	return &RandomPlayer{
		rng: rng,
	}
}

func (that *RandomPlayer) NextMove(_ context.Context, board *entity.Board) (entity.Action, error) {
	availableCells := board.AvailableActions()
	if len(availableCells) == 0 {
		return entity.Action{}, apperror.ErrNoAvailableMoves
	}

	return availableCells[that.rng.IntN(len(availableCells))], nil
}
