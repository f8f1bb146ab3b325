package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange    = errors.New("cell is out of range")
	ErrOccupied      = errors.New("cell is occupied")
	ErrInvalidPlayer = errors.New("player is invalid")
	// ErrNoMove reports a terminal position: the board has no empty cell left.
	ErrNoMove = errors.New("no move available")
)

type BoardSizeError struct {
	Size int
}

func (e *BoardSizeError) Error() string {
	return fmt.Sprintf("board size %d is out of range(%d-%d)", e.Size, MinBoardSize, MaxBoardSize)
}

type BoardShapeError struct {
	Row   int
	Width int
	Size  int
}

func (e *BoardShapeError) Error() string {
	return fmt.Sprintf("board row %d has width %d, want %d", e.Row, e.Width, e.Size)
}
