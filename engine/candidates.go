package engine

// candidateRadius is the Chebyshev distance around each mark searched for
// candidate cells.
const candidateRadius = 2

// Candidates returns the empty cells worth considering, in row-major order.
// An empty board yields only the centre; a full board yields nothing.
func Candidates(b Board) []Move {
	size := b.Size()
	stones := b.Stones()
	if stones == 0 {
		return []Move{b.Center()}
	}
	if stones == size*size {
		return []Move{}
	}
	marked := make([]bool, size*size)
	found := 0
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) == PlayerNone {
				continue
			}
			for dr := -candidateRadius; dr <= candidateRadius; dr++ {
				for dc := -candidateRadius; dc <= candidateRadius; dc++ {
					nr, nc := r+dr, c+dc
					if !b.IsEmpty(nr, nc) {
						continue
					}
					idx := nr*size + nc
					if !marked[idx] {
						marked[idx] = true
						found++
					}
				}
			}
		}
	}
	if found == 0 {
		// Every mark is fully surrounded; fall back to the first free cell.
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				if b.At(r, c) == PlayerNone {
					return []Move{{Row: r, Col: c}}
				}
			}
		}
		return []Move{}
	}
	moves := make([]Move, 0, found)
	for idx, ok := range marked {
		if ok {
			moves = append(moves, Move{Row: idx / size, Col: idx % size})
		}
	}
	return moves
}
