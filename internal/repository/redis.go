package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
)

type redisValueTable struct {
	client *redis.Client
	key    string
}

// NewRedisValueTableRepository keeps the table in a single Redis hash at key.
// Each field is "<state>:<row><col>".
func NewRedisValueTableRepository(client *redis.Client, key string) ValueTableRepository {
	return &redisValueTable{
		client: client,
		key:    key,
	}
}

func (that *redisValueTable) Load(ctx context.Context) (*qlearning.Table, error) {
	fields, err := that.client.HGetAll(ctx, that.key).Result()
	if err != nil {
		return qlearning.NewTable(), fmt.Errorf("failed to get value table: %w", err)
	}

	table := qlearning.NewTable()
	for field, raw := range fields {
		state, action, err := parseField(field)
		if err != nil {
			return qlearning.NewTable(), err
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return qlearning.NewTable(), fmt.Errorf("%w: field %q: %w", apperror.ErrStorageCorrupt, field, err)
		}

		if err = restoreEntry(table, state, action.Row, action.Col, value); err != nil {
			return qlearning.NewTable(), err
		}
	}

	return table, nil
}

func (that *redisValueTable) Save(ctx context.Context, table *qlearning.Table) error {
	entries := table.Entries()

	values := make(map[string]any, len(entries))
	for _, entry := range entries {
		values[formatField(entry.State, entry.Action)] = strconv.FormatFloat(entry.Value, 'g', -1, 64)
	}

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, that.key)
		if len(values) > 0 {
			pipe.HSet(ctx, that.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to set value table: %w", apperror.ErrStorageWrite, err)
	}

	return nil
}

func formatField(state entity.State, action entity.Action) string {
	return fmt.Sprintf("%s:%d%d", state, action.Row, action.Col)
}

func parseField(field string) (string, entity.Action, error) {
	state, coords, ok := strings.Cut(field, ":")
	if !ok || len(coords) != 2 {
		return "", entity.Action{}, fmt.Errorf("%w: malformed field %q", apperror.ErrStorageCorrupt, field)
	}

	row, rowErr := strconv.Atoi(coords[:1])
	col, colErr := strconv.Atoi(coords[1:])
	if rowErr != nil || colErr != nil {
		return "", entity.Action{}, fmt.Errorf("%w: malformed field %q", apperror.ErrStorageCorrupt, field)
	}

	return state, entity.Action{Row: row, Col: col}, nil
}
