package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
)

const (
	OpponentHuman  = "human"
	OpponentRandom = "random"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string   `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"warn"`
	Training Training `yaml:"training"`
	Storage  Storage  `yaml:"storage"`
}

type Training struct {
	Episodes       int     `yaml:"episodes" env:"TTT_TRAINING_EPISODES" env-default:"1000"`
	LearningRate   float64 `yaml:"learning-rate" env:"TTT_LEARNING_RATE" env-default:"0.1"`
	DiscountFactor float64 `yaml:"discount-factor" env:"TTT_DISCOUNT_FACTOR" env-default:"0.9"`
	Epsilon        float64 `yaml:"epsilon" env:"TTT_EPSILON" env-default:"0.1"`
	Opponent       string  `yaml:"opponent" env:"TTT_TRAINING_OPPONENT" env-default:"human"`
	CreditAllMoves bool    `yaml:"credit-all-moves" env:"TTT_CREDIT_ALL_MOVES" env-default:"false"`
	Seed           uint64  `yaml:"seed" env:"TTT_SEED" env-default:"0"`
}

type Storage struct {
	Backend    string `yaml:"backend" env:"TTT_STORAGE_BACKEND" env-default:"file"`
	Path       string `yaml:"path" env:"TTT_STORAGE_PATH" env-default:"q_table.json"`
	SQLitePath string `yaml:"sqlite-path" env:"TTT_SQLITE_PATH" env-default:"q_table.db"`
	Redis      Redis  `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
	Key  string `yaml:"key" env:"TTT_REDIS_KEY" env-default:"tictactoe:q_table"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads path when it exists, otherwise only the environment and the
// defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		err = cleanenv.ReadConfig(path, config)
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, that.LogLevel)
	}

	if err := that.Training.Validate(); err != nil {
		return err
	}

	return that.Storage.Validate()
}

func (that *Training) Validate() error {
	if that.Episodes < 0 {
		return fmt.Errorf("%w: episodes must not be negative", ErrInvalidConfig)
	}

	if that.Epsilon < 0 || that.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon %v not in [0, 1]", ErrInvalidConfig, that.Epsilon)
	}

	if err := that.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch that.Opponent {
	case OpponentHuman, OpponentRandom:
		return nil
	default:
		return fmt.Errorf("%w: unknown training opponent %q", ErrInvalidConfig, that.Opponent)
	}
}

func (that *Training) Params() qlearning.Params {
	return qlearning.Params{
		LearningRate:   that.LearningRate,
		DiscountFactor: that.DiscountFactor,
	}
}

func (that *Storage) Validate() error {
	switch that.Backend {
	case BackendFile:
		if that.Path == "" {
			return fmt.Errorf("%w: storage path is empty", ErrInvalidConfig)
		}
	case BackendSQLite:
		if that.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite path is empty", ErrInvalidConfig)
		}
	case BackendRedis:
		if that.Redis.Key == "" {
			return fmt.Errorf("%w: redis key is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, that.Backend)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
