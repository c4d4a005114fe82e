package apperror

import "errors"

var (
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrInputClosed      = errors.New("input closed")

	ErrStorageCorrupt = errors.New("stored value table is corrupt")
	ErrStorageWrite   = errors.New("could not write value table")
)
