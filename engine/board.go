package engine

import (
	"strings"
)

const (
	WinLength        = 5
	DefaultBoardSize = 25
	MinBoardSize     = WinLength
	MaxBoardSize     = 64
)

// Board is an N×N grid of cells. The zero value is unusable; build boards
// with NewBoard or ParseBoard.
type Board struct {
	size  int
	cells []Player
}

func NewBoard(size int) (Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return Board{}, &BoardSizeError{Size: size}
	}
	return Board{size: size, cells: make([]Player, size*size)}, nil
}

// MustNewBoard is NewBoard for sizes known to be valid.
func MustNewBoard(size int) Board {
	b, err := NewBoard(size)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseBoard builds a square board from rows of '.', 'X' and 'O'. Any other
// rune is read as empty.
func ParseBoard(rows []string) (Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return Board{}, err
	}
	for r, line := range rows {
		if len(line) != b.size {
			return Board{}, &BoardShapeError{Row: r, Width: len(line), Size: b.size}
		}
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case 'X', 'x':
				b.Set(r, c, PlayerX)
			case 'O', 'o':
				b.Set(r, c, PlayerO)
			}
		}
	}
	return b, nil
}

func (b Board) At(row, col int) Player {
	return b.cells[b.index(row, col)]
}

// Set writes a cell without any check. It is meant for scratch copies; use
// Place for moves coming from a caller.
func (b *Board) Set(row, col int, p Player) {
	b.cells[b.index(row, col)] = p
}

// Place puts p on an empty in-range cell.
func (b *Board) Place(row, col int, p Player) error {
	if !p.Valid() {
		return ErrInvalidPlayer
	}
	if !b.InBounds(row, col) {
		return ErrOutOfRange
	}
	if b.At(row, col) != PlayerNone {
		return ErrOccupied
	}
	b.Set(row, col, p)
	return nil
}

// Remove clears a cell. It is the only way a mark leaves the board (undo).
func (b *Board) Remove(row, col int) {
	b.cells[b.index(row, col)] = PlayerNone
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == PlayerNone
}

func (b Board) Size() int {
	return b.size
}

func (b Board) Center() Move {
	return Move{Row: b.size / 2, Col: b.size / 2}
}

func (b Board) Stones() int {
	count := 0
	for _, cell := range b.cells {
		if cell != PlayerNone {
			count++
		}
	}
	return count
}

func (b Board) CountEmpty() int {
	return len(b.cells) - b.Stones()
}

func (b Board) IsFull() bool {
	return b.CountEmpty() == 0
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Player, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Swapped returns a copy with X and O exchanged.
func (b Board) Swapped() Board {
	clone := b.Clone()
	for i, cell := range clone.cells {
		clone.cells[i] = cell.Opponent()
	}
	return clone
}

func (b Board) Equal(other Board) bool {
	if b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows renders the board in the format accepted by ParseBoard.
func (b Board) Rows() []string {
	rows := make([]string, b.size)
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		sb.Reset()
		for c := 0; c < b.size; c++ {
			sb.WriteString(b.At(r, c).String())
		}
		rows[r] = sb.String()
	}
	return rows
}

func (b Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

func (b Board) index(row, col int) int {
	return row*b.size + col
}
