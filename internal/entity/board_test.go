package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, state string) Board {
	t.Helper()

	board, err := ParseState(state)
	require.NoError(t, err)

	return board
}

func TestBoard_IsWinner(t *testing.T) {
	t.Run("X wins the top row after three moves", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: X plays (0,0), (0,1), (0,2)
		for col := range Size {
			require.NoError(t, board.Mark(Action{Row: 0, Col: col}, PlayerX))
		}

		// Then: X is the winner and the board is not full
		assert.True(t, board.IsWinner(PlayerX))
		assert.False(t, board.IsWinner(PlayerO))
		assert.False(t, board.IsFull())
	})

	t.Run("Every line is detected", func(t *testing.T) {
		for _, line := range WinLines {
			// Given: a board where O owns exactly one line
			board := Board{}
			for _, action := range line {
				require.NoError(t, board.Mark(action, PlayerO))
			}

			// Then: O wins and X does not
			assert.True(t, board.IsWinner(PlayerO), "line %v", line)
			assert.False(t, board.IsWinner(PlayerX), "line %v", line)
		}
	})

	t.Run("Empty is never a winner", func(t *testing.T) {
		board := Board{}

		assert.False(t, board.IsWinner(Empty))
	})

	t.Run("Full board without a line has no winner", func(t *testing.T) {
		// Given: a full board of alternating non-winning marks
		board := mustParse(t, "XOXXOOOXX")

		// Then: it is full and nobody has won
		assert.True(t, board.IsFull())
		assert.False(t, board.IsWinner(PlayerX))
		assert.False(t, board.IsWinner(PlayerO))
	})
}

func TestBoard_NeverTwoWinners(t *testing.T) {
	// Given: every position reachable by legal alternating play
	var walk func(board Board, turn Cell)
	visited := 0

	walk = func(board Board, turn Cell) {
		visited++

		// Then: at most one player has a line
		require.False(t, board.IsWinner(PlayerX) && board.IsWinner(PlayerO), board.State())

		// And: a full board offers no legal actions
		if board.IsFull() {
			require.Empty(t, board.AvailableActions())
		}

		if board.IsWinner(PlayerX) || board.IsWinner(PlayerO) || board.IsFull() {
			return
		}

		for _, action := range board.AvailableActions() {
			next := board
			require.NoError(t, next.Mark(action, turn))
			walk(next, turn.Opponent())
		}
	}

	walk(Board{}, PlayerX)
	walk(Board{}, PlayerO)

	assert.Positive(t, visited)
}

func TestBoard_Mark(t *testing.T) {
	t.Run("Marks an empty cell", func(t *testing.T) {
		board := Board{}

		err := board.Mark(Action{Row: 1, Col: 2}, PlayerO)

		require.NoError(t, err)
		assert.Equal(t, PlayerO, board.Cell(Action{Row: 1, Col: 2}))
		assert.Equal(t, 1, board.MarkedCells())
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a board where (0,0) belongs to X
		board := Board{}
		require.NoError(t, board.Mark(Action{}, PlayerX))

		// When: O tries the same cell
		err := board.Mark(Action{}, PlayerO)

		// Then: ErrCellOccupied is returned and the cell is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerX, board.Cell(Action{}))
	})

	t.Run("Error on out of range cell", func(t *testing.T) {
		board := Board{}

		assert.ErrorIs(t, board.Mark(Action{Row: 3, Col: 0}, PlayerX), apperror.ErrInvalidCell)
		assert.ErrorIs(t, board.Mark(Action{Row: 0, Col: -1}, PlayerX), apperror.ErrInvalidCell)
	})
}

func TestBoard_AvailableActions(t *testing.T) {
	// Given: a board with X in the centre and O in a corner
	board := mustParse(t, "O...X....")

	// When: listing the available actions
	actions := board.AvailableActions()

	// Then: the remaining seven cells come back in row-major order
	assert.Equal(t, []Action{
		{0, 1}, {0, 2},
		{1, 0}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}, actions)
	assert.Len(t, AllActions(), Size*Size)
}

func TestBoard_State(t *testing.T) {
	t.Run("Identical cells give identical states", func(t *testing.T) {
		// Given: the same position reached in two move orders
		first, second := Board{}, Board{}
		require.NoError(t, first.Mark(Action{0, 0}, PlayerX))
		require.NoError(t, first.Mark(Action{1, 1}, PlayerO))
		require.NoError(t, second.Mark(Action{1, 1}, PlayerO))
		require.NoError(t, second.Mark(Action{0, 0}, PlayerX))

		// Then: the states match
		assert.Equal(t, State("X...O...."), first.State())
		assert.Equal(t, first.State(), second.State())
	})

	t.Run("ParseState round trips", func(t *testing.T) {
		board := mustParse(t, "XO.OX..OX")

		assert.Equal(t, State("XO.OX..OX"), board.State())
	})

	t.Run("ParseState rejects malformed input", func(t *testing.T) {
		_, err := ParseState("XO")
		require.ErrorIs(t, err, ErrInvalidState)

		_, err = ParseState("XO.OX..OZ")
		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestBoard_String(t *testing.T) {
	board := mustParse(t, "X.O......")

	assert.Equal(t, "X   O\n     \n     \n\n", board.String())
}
