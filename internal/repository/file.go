package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/qlearning"
)

const fileFormatVersion = 1

type fileDocument struct {
	Version int         `json:"version"`
	Entries []fileEntry `json:"entries"`
}

type fileEntry struct {
	State string  `json:"state"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"`
}

type fileValueTable struct {
	path string
}

// NewFileValueTableRepository keeps the table as a JSON document at path.
func NewFileValueTableRepository(path string) ValueTableRepository {
	return &fileValueTable{
		path: path,
	}
}

func (that *fileValueTable) Load(ctx context.Context) (*qlearning.Table, error) {
	if err := ctx.Err(); err != nil {
		return qlearning.NewTable(), fmt.Errorf("could not load value table: %w", err)
	}

	data, err := os.ReadFile(that.path)
	if errors.Is(err, fs.ErrNotExist) {
		return qlearning.NewTable(), nil
	}

	if err != nil {
		return qlearning.NewTable(), fmt.Errorf("could not read value table: %w", err)
	}

	var document fileDocument
	if err = json.Unmarshal(data, &document); err != nil {
		return qlearning.NewTable(), fmt.Errorf("%w: %s: %w", apperror.ErrStorageCorrupt, that.path, err)
	}

	if document.Version != fileFormatVersion {
		return qlearning.NewTable(), fmt.Errorf("%w: %s: unsupported version %d", apperror.ErrStorageCorrupt, that.path, document.Version)
	}

	table := qlearning.NewTable()
	for _, entry := range document.Entries {
		if err = restoreEntry(table, entry.State, entry.Row, entry.Col, entry.Value); err != nil {
			return qlearning.NewTable(), fmt.Errorf("%s: %w", that.path, err)
		}
	}

	return table, nil
}

// Save writes the table to a temporary file next to the destination and
// renames it into place, so an interrupted save never truncates the old table.
func (that *fileValueTable) Save(ctx context.Context, table *qlearning.Table) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrStorageWrite, err)
	}

	entries := table.Entries()
	document := fileDocument{
		Version: fileFormatVersion,
		Entries: make([]fileEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		document.Entries = append(document.Entries, fileEntry{
			State: string(entry.State),
			Row:   entry.Action.Row,
			Col:   entry.Action.Col,
			Value: entry.Value,
		})
	}

	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("%w: could not marshal table: %w", apperror.ErrStorageWrite, err)
	}

	if err = writeFileAtomic(that.path, data); err != nil {
		return fmt.Errorf("%w: %s: %w", apperror.ErrStorageWrite, that.path, err)
	}

	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %w", err)
	}

	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write temporary file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not sync temporary file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("could not replace value table: %w", err)
	}

	return nil
}
