package engine

// lineSide summarises one side of a line window, scanned outward from the
// centre cell.
type lineSide struct {
	stones     int
	gaps       int
	extent     int
	contiguous bool
	open       bool
	overline   bool
}

// scanSide reads at most reach cells past (row, col) along (dr, dc). The scan
// stops at the boundary, at an opponent mark, or after two empty cells in a
// row. The end is open when the cell right after the last counted mark is
// empty. A mark of p sitting right after the counted run means the window
// cuts a longer run in two, which is flagged as an overline.
func scanSide(b Board, row, col, dr, dc int, p Player, reach int) lineSide {
	side := lineSide{contiguous: true}
	pending := 0
	for k := 1; k <= reach; k++ {
		r := row + k*dr
		c := col + k*dc
		if !b.InBounds(r, c) {
			break
		}
		cell := b.At(r, c)
		if cell == p {
			if pending > 0 {
				side.gaps += pending
				side.contiguous = false
				pending = 0
			}
			side.stones++
			side.extent = k
			continue
		}
		if cell != PlayerNone {
			break
		}
		pending++
		if pending == 2 {
			break
		}
	}
	nr := row + (side.extent+1)*dr
	nc := col + (side.extent+1)*dc
	side.open = b.IsEmpty(nr, nc)
	side.overline = b.InBounds(nr, nc) && b.At(nr, nc) == p
	return side
}

// freeCells counts cells past (row, col) that are not blocked, up to
// WinLength-1.
func freeCells(b Board, row, col, dr, dc int, p Player) int {
	free := 0
	for k := 1; k < WinLength; k++ {
		r := row + k*dr
		c := col + k*dc
		if !b.InBounds(r, c) || b.At(r, c) == p.Opponent() {
			break
		}
		free++
	}
	return free
}

// classifyWindow maps mark count, open ends and contiguity to a pattern.
func classifyWindow(count, openEnds int, contiguous bool) Pattern {
	if openEnds == 0 {
		return PatternNone
	}
	switch {
	case count >= WinLength:
		return PatternFive
	case count == 4:
		if openEnds == 2 {
			return PatternFourOpen
		}
		if contiguous {
			return PatternFourClosed
		}
		return PatternThreeClosed
	case count == 3:
		if openEnds == 1 {
			return PatternThreeClosed
		}
		if contiguous {
			return PatternThreeOpen
		}
		return PatternSemiThreeOpen
	case count == 2:
		if openEnds == 1 {
			return PatternTwoClosed
		}
		if contiguous {
			return PatternTwoOpen
		}
		return PatternSemiTwoOpen
	case count == 1:
		if openEnds == 2 {
			return PatternOneOpen
		}
		return PatternOneClosed
	}
	return PatternNone
}

func gapWeighted(weight, gaps, penalty int) int {
	if weight == 0 {
		return 0
	}
	return weight - gaps*penalty
}

// ClassifyLine returns the strongest pattern p gets along dir by owning
// (row, col), and the number of gaps inside that pattern's window. The cell
// itself is never read, so the caller need not place the mark.
func ClassifyLine(b Board, row, col int, dir Direction, p Player, table ScoreTable) (Pattern, int) {
	if 1+freeCells(b, row, col, dir.DRow, dir.DCol, p)+freeCells(b, row, col, -dir.DRow, -dir.DCol, p) < WinLength {
		return PatternNone, 0
	}
	var after, before [WinLength]lineSide
	for k := 0; k < WinLength; k++ {
		after[k] = scanSide(b, row, col, dir.DRow, dir.DCol, p, k)
		before[k] = scanSide(b, row, col, -dir.DRow, -dir.DCol, p, k)
	}
	best := PatternNone
	bestGaps := 0
	bestScore := 0
	for reachAfter := 0; reachAfter < WinLength; reachAfter++ {
		for reachBefore := 0; reachAfter+reachBefore < WinLength; reachBefore++ {
			a := after[reachAfter]
			bb := before[reachBefore]
			if a.overline || bb.overline {
				continue
			}
			if 1+a.extent+bb.extent > WinLength {
				continue
			}
			openEnds := 0
			if a.open {
				openEnds++
			}
			if bb.open {
				openEnds++
			}
			pattern := classifyWindow(1+a.stones+bb.stones, openEnds, a.contiguous && bb.contiguous)
			if pattern == PatternFive {
				return PatternFive, 0
			}
			gaps := a.gaps + bb.gaps
			score := gapWeighted(table.Offense(pattern), gaps, table.GapPenalty)
			if score > bestScore {
				best, bestGaps, bestScore = pattern, gaps, score
			}
		}
	}
	return best, bestGaps
}

// ScoreLine scores one direction through (row, col) for p: the value of the
// pattern p builds there plus the value of denying the opponent the pattern
// it would build on the same cell. A five ends the scoring at once; an
// opponent five adds nothing here because immediate wins are the resolver's
// business.
func ScoreLine(b Board, row, col int, dir Direction, p Player, table ScoreTable) int {
	pattern, gaps := ClassifyLine(b, row, col, dir, p, table)
	if pattern == PatternFive {
		return table.Five
	}
	score := gapWeighted(table.Offense(pattern), gaps, table.GapPenalty)
	oppPattern, oppGaps := ClassifyLine(b, row, col, dir, p.Opponent(), table)
	if oppPattern != PatternFive {
		score += gapWeighted(table.Block(oppPattern), oppGaps, table.GapPenalty)
	}
	return score
}
