package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/tranquocphongvn/caro/engine"
)

func (t *trainer) printStandings(generation, games int, ranked []contender, promoted bool) {
	verdict := t.output.String("retained").Faint()
	if promoted {
		verdict = t.output.String("promoted").Foreground(t.output.Color("2")).Bold()
	}
	fmt.Fprintf(t.output, "generation %d: %d games, champion %s\n", generation, games, verdict)
	for i, c := range ranked {
		id := t.output.String(fmt.Sprintf("%-10s", c.ID))
		if i == 0 {
			id = id.Bold()
		}
		fmt.Fprintf(t.output, "  %s elo %7.1f  w/l/d %d/%d/%d\n", id, c.Elo, c.Wins, c.Losses, c.Draws)
	}
}

// renderBoard draws a finished game with X in red, O in blue and the
// winning line highlighted.
func renderBoard(output *termenv.Output, result gameResult) string {
	highlight := map[engine.Move]bool{}
	if result.Winner != engine.PlayerNone {
		for _, m := range result.Line.Cells {
			highlight[m] = true
		}
	}
	var sb strings.Builder
	size := result.Board.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			p := result.Board.At(r, c)
			cell := output.String(p.String())
			switch p {
			case engine.PlayerX:
				cell = cell.Foreground(output.Color("1"))
			case engine.PlayerO:
				cell = cell.Foreground(output.Color("4"))
			default:
				cell = cell.Faint()
			}
			if highlight[engine.Move{Row: r, Col: c}] {
				cell = cell.Bold().Underline()
			}
			sb.WriteString(cell.String())
			if c < size-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
