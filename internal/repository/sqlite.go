package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
)

type sqliteValueTable struct {
	conn *sql.DB
}

// NewSQLiteValueTableRepository keeps the table in the q_values table. The
// schema must already exist, see sqlite.Storage.Init.
func NewSQLiteValueTableRepository(conn *sql.DB) ValueTableRepository {
	return &sqliteValueTable{
		conn: conn,
	}
}

func (that *sqliteValueTable) Load(ctx context.Context) (*qlearning.Table, error) {
	query := `SELECT state, row, col, value FROM q_values`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return qlearning.NewTable(), fmt.Errorf("can't query value table: %w", err)
	}
	defer rows.Close()

	table := qlearning.NewTable()
	for rows.Next() {
		var (
			state    string
			row, col int
			value    float64
		)

		if err = rows.Scan(&state, &row, &col, &value); err != nil {
			return qlearning.NewTable(), fmt.Errorf("%w: %w", apperror.ErrStorageCorrupt, err)
		}

		if err = restoreEntry(table, state, row, col, value); err != nil {
			return qlearning.NewTable(), err
		}
	}

	if err = rows.Err(); err != nil {
		return qlearning.NewTable(), fmt.Errorf("can't read value table: %w", err)
	}

	return table, nil
}

// Save replaces every stored row inside one transaction.
func (that *sqliteValueTable) Save(ctx context.Context, table *qlearning.Table) (err error) {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: can't begin transaction: %w", apperror.ErrStorageWrite, err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreDone(tx.Rollback()))
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM q_values`); err != nil {
		return fmt.Errorf("%w: can't clear value table: %w", apperror.ErrStorageWrite, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO q_values (state, row, col, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: can't prepare insert: %w", apperror.ErrStorageWrite, err)
	}
	defer stmt.Close()

	for _, entry := range table.Entries() {
		if _, err = stmt.ExecContext(ctx, string(entry.State), entry.Action.Row, entry.Action.Col, entry.Value); err != nil {
			return fmt.Errorf("%w: can't save entry: %w", apperror.ErrStorageWrite, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: can't commit value table: %w", apperror.ErrStorageWrite, err)
	}

	return nil
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	return err
}
