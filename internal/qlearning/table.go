package qlearning

import (
	"cmp"
	"slices"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// Key identifies one value estimate.
type Key struct {
	State  entity.State
	Action entity.Action
}

type Entry struct {
	Key
	Value float64
}

// Table maps (state, action) pairs to value estimates. Unseen pairs are
// worth 0. Entries are only ever added or overwritten.
type Table struct {
	values map[Key]float64
}

func NewTable() *Table {
	return &Table{
		values: make(map[Key]float64),
	}
}

func (that *Table) Get(state entity.State, action entity.Action) float64 {
	return that.values[Key{State: state, Action: action}]
}

func (that *Table) Set(state entity.State, action entity.Action, value float64) {
	that.values[Key{State: state, Action: action}] = value
}

func (that *Table) Len() int {
	return len(that.values)
}

// Entries returns a copy of the table ordered by state, then row, then column.
func (that *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(that.values))
	for key, value := range that.values {
		entries = append(entries, Entry{Key: key, Value: value})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.State, b.State),
			cmp.Compare(a.Action.Row, b.Action.Row),
			cmp.Compare(a.Action.Col, b.Action.Col),
		)
	})

	return entries
}
