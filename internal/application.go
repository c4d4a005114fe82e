package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/config"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository/storage/sqlite"
	"github.com/rocketscienceinc/tictactoe-rl/internal/service"
	"github.com/rocketscienceinc/tictactoe-rl/internal/transport/console"
	"github.com/rocketscienceinc/tictactoe-rl/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - trains the computer against the configured opponent, saves what it
// learned and plays one game against the human on in/out.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	repo, closeRepo, err := newValueTableRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeRepo(); closeErr != nil {
			log.Error("could not close value table storage", "error", closeErr)
		}
	}()

	table, err := repo.Load(ctx)
	switch {
	case errors.Is(err, apperror.ErrStorageCorrupt):
		log.Warn("stored value table is unreadable, starting from an empty table", "error", err)
	case err != nil:
		return fmt.Errorf("could not load value table: %w", err)
	}

	log.Info("value table loaded", "backend", conf.Storage.Backend, "entries", table.Len())

	rng := newRand(conf.Training.Seed)
	term := console.New(in, out)
	human := service.NewHumanPlayer(term)

	training := usecase.Match{Opponent: human, View: term, Epsilon: conf.Training.Epsilon}
	if conf.Training.Opponent == config.OpponentRandom {
		// unattended training is not shown
		training.Opponent = service.NewRandomPlayer(rng)
		training.View = console.New(strings.NewReader(""), io.Discard)
	}

	manager := usecase.NewGameManager(logger, table, conf.Training.Params(), rng,
		usecase.WithCreditAllMoves(conf.Training.CreditAllMoves),
	)

	summary, err := manager.Run(ctx, usecase.Protocol{
		Training: training,
		Episodes: conf.Training.Episodes,
		Demo:     usecase.Match{Opponent: human, View: term, Epsilon: 0},
	}, repo)

	log.Info("session finished",
		"played", summary.Played,
		"human_wins", summary.HumanWins,
		"computer_wins", summary.ComputerWins,
		"ties", summary.Ties,
	)

	switch {
	case errors.Is(err, apperror.ErrStorageWrite):
		return fmt.Errorf("learned progress was not saved: %w", err)
	case errors.Is(err, context.Canceled), errors.Is(err, apperror.ErrInputClosed):
		log.Info("Game stopped before the end", "reason", err)
		return nil
	case err != nil:
		return fmt.Errorf("game failed: %w", err)
	}

	return nil
}

func newValueTableRepository(ctx context.Context, conf *config.Config) (repository.ValueTableRepository, func() error, error) {
	switch conf.Storage.Backend {
	case config.BackendRedis:
		if conf.Storage.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}
		redisAddrString := conf.Storage.Redis.GetRedisAddr()

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisValueTableRepository(redisStorage.Connection, conf.Storage.Redis.Key), redisStorage.Close, nil

	case config.BackendSQLite:
		sqliteStorage, err := sqlite.New(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("could not init sqlite storage: %w", err), sqliteStorage.Close())
		}

		return repository.NewSQLiteValueTableRepository(sqliteStorage.Connection), sqliteStorage.Close, nil

	default:
		return repository.NewFileValueTableRepository(conf.Storage.Path), func() error { return nil }, nil
	}
}

// newRand seeds from seed when it is set, randomly otherwise.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint: gosec // game randomness
}
