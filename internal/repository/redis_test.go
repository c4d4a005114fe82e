package repository

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
	"github.com/rocketscienceinc/tictactoe-rl/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redisKey = "tictactoe:q_table"

func TestRedisValueTable_Load(t *testing.T) {
	t.Run("Missing key gives an empty table", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewRedisValueTableRepository(st.Storage.Connection, redisKey)

		// When: loading a key that was never written
		table, err := repo.Load(ctx)

		// Then: an empty table is returned
		require.NoError(t, err)
		assert.Zero(t, table.Len())
	})

	t.Run("Malformed fields are corrupt", func(t *testing.T) {
		ctx, st := suite.New(t)

		// Given: a hash with a field that does not encode a state and action
		require.NoError(t, st.Storage.Connection.HSet(ctx, redisKey, "garbage", "1").Err())
		repo := NewRedisValueTableRepository(st.Storage.Connection, redisKey)

		// When: loading
		table, err := repo.Load(ctx)

		// Then: ErrStorageCorrupt is returned with an empty table
		require.ErrorIs(t, err, apperror.ErrStorageCorrupt)
		assert.Zero(t, table.Len())
	})
}

func TestRedisValueTable_Save(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewRedisValueTableRepository(st.Storage.Connection, redisKey)

	// Given: a stored table that will be replaced
	old := qlearning.NewTable()
	old.Set("OOO......", entity.Action{Row: 2, Col: 2}, 9)
	require.NoError(t, repo.Save(ctx, old))

	// When: a new table is saved and loaded back
	table := sampleTable()
	require.NoError(t, repo.Save(ctx, table))
	loaded, err := repo.Load(ctx)

	// Then: the same entries are restored and the old ones are gone
	require.NoError(t, err)
	assertSameTable(t, table, loaded)
}

func TestParseField(t *testing.T) {
	state, action, err := parseField(formatField("X...O....", entity.Action{Row: 2, Col: 1}))

	require.NoError(t, err)
	assert.Equal(t, "X...O....", state)
	assert.Equal(t, entity.Action{Row: 2, Col: 1}, action)

	_, _, err = parseField("X...O....:2")
	require.ErrorIs(t, err, apperror.ErrStorageCorrupt)

	_, _, err = parseField("X...O....:ab")
	require.ErrorIs(t, err, apperror.ErrStorageCorrupt)
}
