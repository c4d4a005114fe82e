package qlearning

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"gonum.org/v1/gonum/floats"
)

// SelectAction picks an empty cell epsilon-greedily. With probability epsilon
// the cell is uniform over all empty cells, otherwise uniform over the empty
// cells whose stored value equals the best one.
func SelectAction(board *entity.Board, table *Table, epsilon float64, rng *rand.Rand) (entity.Action, error) {
	candidates := board.AvailableActions()
	if len(candidates) == 0 {
		return entity.Action{}, apperror.ErrNoAvailableMoves
	}

	if rng.Float64() < epsilon {
		return candidates[rng.IntN(len(candidates))], nil
	}

	state := board.State()
	values := make([]float64, len(candidates))
	for i, action := range candidates {
		values[i] = table.Get(state, action)
	}

	best := bestActions(candidates, values)

	return best[rng.IntN(len(best))], nil
}

func bestActions(candidates []entity.Action, values []float64) []entity.Action {
	maxValue := floats.Max(values)

	best := make([]entity.Action, 0, len(candidates))
	for i, action := range candidates {
		if values[i] == maxValue {
			best = append(best, action)
		}
	}

	return best
}
