package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
)

// ValueTableRepository persists the learned value table. Load returns an
// empty table when nothing has been stored yet. When stored content cannot
// be decoded Load still returns an empty table together with an error
// wrapping apperror.ErrStorageCorrupt. Save failures wrap
// apperror.ErrStorageWrite.
type ValueTableRepository interface {
	Load(ctx context.Context) (*qlearning.Table, error)
	Save(ctx context.Context, table *qlearning.Table) error
}

// restoreEntry validates one stored entry and adds it to table.
func restoreEntry(table *qlearning.Table, state string, row, col int, value float64) error {
	if _, err := entity.ParseState(state); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrStorageCorrupt, err)
	}

	action := entity.Action{Row: row, Col: col}
	if !action.InRange() {
		return fmt.Errorf("%w: action %s out of range", apperror.ErrStorageCorrupt, action)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: value %v for %s %s", apperror.ErrStorageCorrupt, value, state, action)
	}

	table.Set(entity.State(state), action, value)

	return nil
}
