package engine

import "math/rand"

// OpeningMove covers the first two plies without evaluation: the centre on an
// empty board, and a neighbour of the lone mark on a board holding one mark.
// With rng nil the neighbour closest to the centre is chosen, first in
// row-major order on ties.
func OpeningMove(b Board, rng *rand.Rand) (Move, bool) {
	switch b.Stones() {
	case 0:
		return b.Center(), true
	case 1:
	default:
		return Move{}, false
	}
	var stone Move
	size := b.Size()
	for idx := 0; idx < size*size; idx++ {
		if b.cells[idx] != PlayerNone {
			stone = Move{Row: idx / size, Col: idx % size}
			break
		}
	}
	neighbours := make([]Move, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			m := Move{Row: stone.Row + dr, Col: stone.Col + dc}
			if b.IsEmpty(m.Row, m.Col) {
				neighbours = append(neighbours, m)
			}
		}
	}
	if len(neighbours) == 0 {
		return Move{}, false
	}
	if rng != nil {
		return neighbours[rng.Intn(len(neighbours))], true
	}
	center := b.Center()
	best := neighbours[0]
	bestDist := squaredDistance(best, center)
	for _, m := range neighbours[1:] {
		if d := squaredDistance(m, center); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, true
}

func squaredDistance(a, b Move) int {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	return dr*dr + dc*dc
}
