package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
)

const (
	RewardComputerWin = 1.0
	RewardHumanWin    = -1.0
	RewardTie         = 0.0
)

// Opponent provides the moves for X.
type Opponent interface {
	NextMove(ctx context.Context, board *entity.Board) (entity.Action, error)
}

// View shows the game as it is played.
type View interface {
	ShowBoard(board *entity.Board)
	ShowComputerMove(action entity.Action)
	ShowOutcome(outcome entity.Outcome)
}

type tableSaver interface {
	Save(ctx context.Context, table *qlearning.Table) error
}

// Match describes who the computer plays and how greedily.
type Match struct {
	Opponent Opponent
	View     View
	Epsilon  float64
}

// Protocol is a training run followed by one demonstration game.
type Protocol struct {
	Training Match
	Episodes int
	Demo     Match
}

type Summary struct {
	Played       int
	HumanWins    int
	ComputerWins int
	Ties         int
}

func (that *Summary) add(outcome entity.Outcome) {
	that.Played++

	switch outcome {
	case entity.OutcomeHumanWin:
		that.HumanWins++
	case entity.OutcomeComputerWin:
		that.ComputerWins++
	case entity.OutcomeTie:
		that.Ties++
	}
}

type Option func(*GameManager)

// WithCreditAllMoves makes every non-terminal computer move receive a
// zero-reward update bootstrapped from the position it produced. By default
// only the move that ends an episode is updated.
func WithCreditAllMoves(enabled bool) Option {
	return func(that *GameManager) {
		that.creditAllMoves = enabled
	}
}

// GameManager plays episodes between an opponent and the learning computer.
type GameManager struct {
	logger *slog.Logger

	table  *qlearning.Table
	params qlearning.Params
	rng    *rand.Rand

	creditAllMoves bool
}

func NewGameManager(logger *slog.Logger, table *qlearning.Table, params qlearning.Params, rng *rand.Rand, opts ...Option) *GameManager {
	manager := &GameManager{
		logger: logger.With("component", "game_manager"),
		table:  table,
		params: params,
		rng:    rng,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Run trains for protocol.Episodes, saves the table, then plays the
// demonstration game. The table is saved even when training stops early.
func (that *GameManager) Run(ctx context.Context, protocol Protocol, saver tableSaver) (Summary, error) {
	log := that.logger.With("method", "Run")

	summary, trainErr := that.Train(ctx, protocol.Training, protocol.Episodes)
	log.Info("training finished",
		"played", summary.Played,
		"human_wins", summary.HumanWins,
		"computer_wins", summary.ComputerWins,
		"ties", summary.Ties,
		"table_size", that.table.Len(),
	)

	if err := saver.Save(context.WithoutCancel(ctx), that.table); err != nil {
		return summary, errors.Join(trainErr, fmt.Errorf("failed to save value table: %w", err))
	}

	if trainErr != nil {
		return summary, trainErr
	}

	outcome, err := that.PlayEpisode(ctx, protocol.Demo)
	if err != nil {
		return summary, fmt.Errorf("failed to play demonstration game: %w", err)
	}

	log.Info("demonstration finished", "outcome", outcome.String())

	return summary, nil
}

// Train plays the given number of episodes.
func (that *GameManager) Train(ctx context.Context, match Match, episodes int) (Summary, error) {
	var summary Summary

	for range episodes {
		outcome, err := that.PlayEpisode(ctx, match)
		if err != nil {
			return summary, fmt.Errorf("failed to play training episode %d: %w", summary.Played+1, err)
		}

		summary.add(outcome)
	}

	return summary, nil
}

// PlayEpisode plays one game from an empty board. The first mover is chosen
// at random. The value of the move that ends the game is updated with the
// reward for its outcome.
func (that *GameManager) PlayEpisode(ctx context.Context, match Match) (entity.Outcome, error) {
	log := that.logger.With("method", "PlayEpisode", "episode_id", uuid.NewString())

	board := entity.Board{}
	turn := entity.HumanMark
	if that.rng.IntN(2) == 0 {
		turn = entity.ComputerMark
	}

	log.Debug("episode started", "first", turn.String(), "epsilon", match.Epsilon)

	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("episode interrupted: %w", err)
		}

		match.View.ShowBoard(&board)

		action, err := that.nextMove(ctx, match, &board, turn)
		if err != nil {
			return 0, err
		}

		state := board.State()
		if err = board.Mark(action, turn); err != nil {
			return 0, fmt.Errorf("illegal move %s by %s: %w", action, turn, err)
		}
		nextState := board.State()

		outcome, finished := that.outcome(&board, turn)
		if finished {
			match.View.ShowBoard(&board)
			match.View.ShowOutcome(outcome)

			value := qlearning.Update(that.table, that.params, state, action, reward(outcome), nextState)
			log.Debug("episode finished", "outcome", outcome.String(), "last_move", action.String(), "value", value)

			return outcome, nil
		}

		if that.creditAllMoves && turn == entity.ComputerMark {
			qlearning.Update(that.table, that.params, state, action, RewardTie, nextState)
		}

		turn = turn.Opponent()
	}
}

func (that *GameManager) nextMove(ctx context.Context, match Match, board *entity.Board, turn entity.Cell) (entity.Action, error) {
	if turn == entity.HumanMark {
		action, err := match.Opponent.NextMove(ctx, board)
		if err != nil {
			return entity.Action{}, fmt.Errorf("opponent failed to make turn: %w", err)
		}

		return action, nil
	}

	action, err := qlearning.SelectAction(board, that.table, match.Epsilon, that.rng)
	if err != nil {
		return entity.Action{}, fmt.Errorf("computer failed to make turn: %w", err)
	}

	match.View.ShowComputerMove(action)

	return action, nil
}

// outcome checks for a win by the player who just moved, then for a full board.
func (that *GameManager) outcome(board *entity.Board, mover entity.Cell) (entity.Outcome, bool) {
	switch {
	case board.IsWinner(mover):
		return entity.WinnerOutcome(mover), true
	case board.IsFull():
		return entity.OutcomeTie, true
	default:
		return 0, false
	}
}

func reward(outcome entity.Outcome) float64 {
	switch outcome {
	case entity.OutcomeComputerWin:
		return RewardComputerWin
	case entity.OutcomeHumanWin:
		return RewardHumanWin
	default:
		return RewardTie
	}
}
