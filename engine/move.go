package engine

import (
	"fmt"
	"strings"
)

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) IsValid(boardSize int) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < boardSize && m.Col < boardSize
}

func (m Move) Equals(other Move) bool {
	return m.Row == other.Row && m.Col == other.Col
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Direction is a unit step along one of the four line orientations. The
// opposite orientation is the negated vector.
type Direction struct {
	DRow int
	DCol int
}

var (
	Horizontal   = Direction{DRow: 0, DCol: 1}
	Vertical     = Direction{DRow: 1, DCol: 0}
	DiagonalDown = Direction{DRow: 1, DCol: 1}
	DiagonalUp   = Direction{DRow: -1, DCol: 1}
)

// Directions lists the four canonical line directions.
var Directions = [4]Direction{Horizontal, Vertical, DiagonalDown, DiagonalUp}

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalDown:
		return "diagonal-down"
	case DiagonalUp:
		return "diagonal-up"
	default:
		return fmt.Sprintf("dir(%d,%d)", d.DRow, d.DCol)
	}
}

func formatMoves(moves []Move) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, m := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
