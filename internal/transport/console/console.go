package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

const (
	MsgComputerMove = "Computer's move:"
	MsgHumanWin     = "Congratulations! You win!"
	MsgComputerWin  = "Computer wins!"
	MsgTie          = "It's a tie!"
)

var ErrNotANumber = errors.New("input is not a number")

type line struct {
	text string
	err  error
}

// Console is the terminal the game is played on.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (that *Console) ShowBoard(board *entity.Board) {
	fmt.Fprint(that.out, board.String())
}

func (that *Console) ShowComputerMove(action entity.Action) {
	fmt.Fprintln(that.out, MsgComputerMove)
	fmt.Fprintf(that.out, "Row: %d, Column: %d\n", action.Row, action.Col)
}

func (that *Console) ShowOutcome(outcome entity.Outcome) {
	switch outcome {
	case entity.OutcomeHumanWin:
		fmt.Fprintln(that.out, MsgHumanWin)
	case entity.OutcomeComputerWin:
		fmt.Fprintln(that.out, MsgComputerWin)
	case entity.OutcomeTie:
		fmt.Fprintln(that.out, MsgTie)
	}
}

func (that *Console) Say(message string) {
	fmt.Fprintln(that.out, message)
}

// ReadInt prints prompt and parses the next input line as an integer.
// Unparsable input is reported as ErrNotANumber. Closed input is
// apperror.ErrInputClosed.
func (that *Console) ReadInt(ctx context.Context, prompt string) (int, error) {
	fmt.Fprint(that.out, prompt)

	text, err := that.readLine(ctx)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, text)
	}

	return value, nil
}

// readLine waits for one line of input or for ctx to be done, whichever
// comes first.
func (that *Console) readLine(ctx context.Context) (string, error) {
	lines := make(chan line, 1)
	go func() {
		text, err := that.in.ReadString('\n')
		lines <- line{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for input: %w", ctx.Err())
	case l := <-lines:
		if l.err == nil {
			return l.text, nil
		}

		if errors.Is(l.err, io.EOF) {
			if l.text != "" {
				return l.text, nil
			}
			return "", apperror.ErrInputClosed
		}

		return "", fmt.Errorf("failed to read input: %w", l.err)
	}
}
