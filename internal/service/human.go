package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/transport/console"
)

const (
	PromptRow    = "Enter the row (0, 1, or 2): "
	PromptColumn = "Enter the column (0, 1, or 2): "

	MsgInvalidMove  = "Invalid move. Try again."
	MsgInvalidInput = "Invalid input. Please enter a number."
)

type terminal interface {
	ReadInt(ctx context.Context, prompt string) (int, error)
	Say(message string)
}

// HumanPlayer asks the person at the terminal for moves.
type HumanPlayer struct {
	terminal terminal
}

func NewHumanPlayer(terminal terminal) *HumanPlayer {
	return &HumanPlayer{
		terminal: terminal,
	}
}

// NextMove prompts until a row and column naming an empty cell are entered.
func (that *HumanPlayer) NextMove(ctx context.Context, board *entity.Board) (entity.Action, error) {
	for {
		action, err := that.readAction(ctx)
		if errors.Is(err, console.ErrNotANumber) {
			that.terminal.Say(MsgInvalidInput)
			continue
		}

		if err != nil {
			return entity.Action{}, fmt.Errorf("failed to read move: %w", err)
		}

		if !action.InRange() || board.Cell(action) != entity.Empty {
			that.terminal.Say(MsgInvalidMove)
			continue
		}

		return action, nil
	}
}

func (that *HumanPlayer) readAction(ctx context.Context) (entity.Action, error) {
	row, err := that.terminal.ReadInt(ctx, PromptRow)
	if err != nil {
		return entity.Action{}, err
	}

	col, err := that.terminal.ReadInt(ctx, PromptColumn)
	if err != nil {
		return entity.Action{}, err
	}

	return entity.Action{Row: row, Col: col}, nil
}
