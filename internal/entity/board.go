package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

const Size = 3

// Cell is the content of one square of the board.
type Cell uint8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

var ErrInvalidState = errors.New("invalid board state")

// WinLines lists the 3 rows, 3 columns and 2 diagonals.
var WinLines = [8][Size]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func (c Cell) String() string {
	switch c {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (c Cell) stateByte() byte {
	switch c {
	case PlayerX:
		return 'X'
	case PlayerO:
		return 'O'
	default:
		return '.'
	}
}

// Action is a 0-indexed (row, column) coordinate of the cell to mark.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// AllActions enumerates every cell of the board in row-major order.
func AllActions() []Action {
	actions := make([]Action, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			actions = append(actions, Action{Row: row, Col: col})
		}
	}

	return actions
}

func (a Action) InRange() bool {
	return a.Row >= 0 && a.Row < Size && a.Col >= 0 && a.Col < Size
}

func (a Action) String() string {
	return fmt.Sprintf("(%d, %d)", a.Row, a.Col)
}

// State is a snapshot of the cells, row-major, one of '.', 'X', 'O' per cell.
type State string

// ParseState rebuilds the board a State was taken from.
func ParseState(s string) (Board, error) {
	var board Board

	if len(s) != Size*Size {
		return board, fmt.Errorf("%w: %q has length %d", ErrInvalidState, s, len(s))
	}

	for i := range len(s) {
		var cell Cell
		switch s[i] {
		case '.':
			cell = Empty
		case 'X':
			cell = PlayerX
		case 'O':
			cell = PlayerO
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidState, s[i], s)
		}
		board[i/Size][i%Size] = cell
	}

	return board, nil
}

type Board [Size][Size]Cell

func (that *Board) Cell(action Action) Cell {
	return that[action.Row][action.Col]
}

// Mark places player's mark on an empty in-range cell.
func (that *Board) Mark(action Action, player Cell) error {
	if !action.InRange() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, action)
	}

	if that[action.Row][action.Col] != Empty {
		return apperror.ErrCellOccupied
	}

	that[action.Row][action.Col] = player

	return nil
}

// IsWinner reports whether player owns any full row, column or diagonal.
func (that *Board) IsWinner(player Cell) bool {
	if player == Empty {
		return false
	}

	for _, line := range WinLines {
		if that.Cell(line[0]) == player && that.Cell(line[1]) == player && that.Cell(line[2]) == player {
			return true
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// AvailableActions returns the empty cells in row-major order.
func (that *Board) AvailableActions() []Action {
	actions := make([]Action, 0, Size*Size)
	for _, action := range AllActions() {
		if that.Cell(action) == Empty {
			actions = append(actions, action)
		}
	}

	return actions
}

// MarkedCells is the number of moves played so far.
func (that *Board) MarkedCells() int {
	return Size*Size - len(that.AvailableActions())
}

func (that *Board) State() State {
	var b strings.Builder
	b.Grow(Size * Size)

	for _, row := range that {
		for _, cell := range row {
			b.WriteByte(cell.stateByte())
		}
	}

	return State(b.String())
}

// String renders the board as printed on the console: cells separated by
// spaces, one row per line, followed by a blank line.
func (that *Board) String() string {
	var b strings.Builder

	for _, row := range that {
		cells := make([]string, 0, Size)
		for _, cell := range row {
			cells = append(cells, cell.String())
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	return b.String()
}
