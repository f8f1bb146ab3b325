package engine

// EvaluateCell scores (row, col) as a move for p: the four line scores plus a
// small pull towards the centre. Occupied or out-of-range cells score
// MinScore. The board is only read.
func EvaluateCell(b Board, row, col int, p Player, table ScoreTable) int {
	if !b.IsEmpty(row, col) {
		return MinScore
	}
	score := 0
	for _, dir := range Directions {
		score += ScoreLine(b, row, col, dir, p, table)
	}
	return score + centerBias(b, row, col, table.CenterWeight)
}

// centerBias decreases linearly with Chebyshev distance from the centre.
func centerBias(b Board, row, col, weight int) int {
	center := b.Center()
	dist := max(abs(row-center.Row), abs(col-center.Col))
	return weight * (b.Size()/2 - dist)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
