package qlearning

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultLearningRate   = 0.1
	DefaultDiscountFactor = 0.9
)

var ErrInvalidParams = errors.New("invalid learning parameters")

// Params are the hyper-parameters of the temporal-difference update.
type Params struct {
	LearningRate   float64
	DiscountFactor float64
}

func DefaultParams() Params {
	return Params{
		LearningRate:   DefaultLearningRate,
		DiscountFactor: DefaultDiscountFactor,
	}
}

func (p Params) Validate() error {
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return fmt.Errorf("%w: learning rate %v not in (0, 1]", ErrInvalidParams, p.LearningRate)
	}

	if p.DiscountFactor < 0 || p.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor %v not in [0, 1]", ErrInvalidParams, p.DiscountFactor)
	}

	return nil
}

// Update applies one temporal-difference step to the value of (state, action)
// and returns the stored result:
//
//	Q(s,a) += lr * (reward + discount * max Q(s',a') - Q(s,a))
//
// The maximum is taken over all nine cells of nextState, occupied or not.
func Update(table *Table, params Params, state entity.State, action entity.Action, reward float64, nextState entity.State) float64 {
	currentQ := table.Get(state, action)
	maxFutureQ := MaxValue(table, nextState)

	newQ := currentQ + params.LearningRate*(reward+params.DiscountFactor*maxFutureQ-currentQ)
	table.Set(state, action, newQ)

	return newQ
}

// MaxValue is the largest stored value over every cell of state.
func MaxValue(table *Table, state entity.State) float64 {
	actions := entity.AllActions()

	values := make([]float64, len(actions))
	for i, action := range actions {
		values[i] = table.Get(state, action)
	}

	return floats.Max(values)
}
