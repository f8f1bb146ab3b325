package engine

// WinLine is a winning run of exactly WinLength marks. Cells are ordered from
// the negative end of Direction towards the positive end.
type WinLine struct {
	Player     Player
	Cells      [WinLength]Move
	Direction  Direction
	OpenBefore bool
	OpenAfter  bool
}

// BlockedEnds counts the ends of the line that touch the boundary or an
// opponent mark.
func (w WinLine) BlockedEnds() int {
	blocked := 0
	if !w.OpenBefore {
		blocked++
	}
	if !w.OpenAfter {
		blocked++
	}
	return blocked
}

// Before is the cell one step past the first cell of the line.
func (w WinLine) Before() Move {
	first := w.Cells[0]
	return Move{Row: first.Row - w.Direction.DRow, Col: first.Col - w.Direction.DCol}
}

// After is the cell one step past the last cell of the line.
func (w WinLine) After() Move {
	last := w.Cells[WinLength-1]
	return Move{Row: last.Row + w.Direction.DRow, Col: last.Col + w.Direction.DCol}
}

// Contains reports whether m is one of the five cells.
func (w WinLine) Contains(m Move) bool {
	for _, cell := range w.Cells {
		if cell.Equals(m) {
			return true
		}
	}
	return false
}

// CheckWin reports whether the mark of p at (row, col) completes a Caro win:
// exactly five in a row, not closed on both ends. Out-of-range cells and cells
// not holding p yield no win.
func CheckWin(b Board, row, col int, p Player) (WinLine, bool) {
	if !p.Valid() || !b.InBounds(row, col) || b.At(row, col) != p {
		return WinLine{}, false
	}
	for _, dir := range Directions {
		forward, openAfter := countRun(b, row, col, dir.DRow, dir.DCol, p)
		backward, openBefore := countRun(b, row, col, -dir.DRow, -dir.DCol, p)
		if 1+forward+backward != WinLength {
			continue
		}
		if !openAfter && !openBefore {
			continue
		}
		line := WinLine{Player: p, Direction: dir, OpenBefore: openBefore, OpenAfter: openAfter}
		startRow := row - backward*dir.DRow
		startCol := col - backward*dir.DCol
		for i := 0; i < WinLength; i++ {
			line.Cells[i] = Move{Row: startRow + i*dir.DRow, Col: startCol + i*dir.DCol}
		}
		return line, true
	}
	return WinLine{}, false
}

// FindWin scans every mark of p and returns the first winning line found in
// row-major order.
func FindWin(b Board, p Player) (WinLine, bool) {
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) != p {
				continue
			}
			if line, ok := CheckWin(b, r, c, p); ok {
				return line, true
			}
		}
	}
	return WinLine{}, false
}

// countRun counts consecutive p marks after (row, col) along (dr, dc) and
// reports whether the cell ending the run is empty.
func countRun(b Board, row, col, dr, dc int, p Player) (int, bool) {
	count := 0
	r := row + dr
	c := col + dc
	for b.InBounds(r, c) && b.At(r, c) == p {
		count++
		r += dr
		c += dc
	}
	return count, b.IsEmpty(r, c)
}
