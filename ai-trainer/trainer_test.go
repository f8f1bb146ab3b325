package main

import (
	"bytes"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/tranquocphongvn/caro/engine"
)

func rowZeroOpening() []engine.Move {
	var opening []engine.Move
	for col := 0; col < 4; col++ {
		opening = append(opening, engine.Move{Row: 0, Col: col}, engine.Move{Row: 5, Col: col})
	}
	return append(opening, engine.Move{Row: 0, Col: 4})
}

func TestUpdateEloConservesTotal(t *testing.T) {
	a := contender{ID: "a", Elo: 1500}
	b := contender{ID: "b", Elo: 1600}
	updateElo(&a, &b, 1, 24)
	if math.Abs(a.Elo+b.Elo-3100) > 1e-9 {
		t.Fatalf("elo total changed: %.3f", a.Elo+b.Elo)
	}
	if a.Elo <= 1500 || b.Elo >= 1600 {
		t.Fatalf("winner must gain and loser must drop, got a=%.1f b=%.1f", a.Elo, b.Elo)
	}
}

func TestMutateScoreTableStaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := engine.DefaultScoreTable()
	changed := false
	for i := 0; i < 50; i++ {
		mutated := mutateScoreTable(rng, base, 0.25)
		if err := mutated.Validate(); err != nil {
			t.Fatalf("mutation %d invalid: %v", i, err)
		}
		if mutated.Five != base.Five || mutated.GapPenalty != base.GapPenalty {
			t.Fatalf("fixed weights must not change")
		}
		if mutated != base {
			changed = true
		}
	}
	if !changed {
		t.Fatalf("expected at least one mutation to change the table")
	}
}

func TestPlayGameDetectsWinInOpening(t *testing.T) {
	table := engine.DefaultScoreTable()
	result, err := playGame(table, table, rowZeroOpening(), 9, 100)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if result.Winner != engine.PlayerX || result.Plies != 9 {
		t.Fatalf("expected X to win on ply 9, got %s after %d", result.Winner, result.Plies)
	}
	if result.Line.Cells[0] != (engine.Move{Row: 0, Col: 0}) {
		t.Fatalf("unexpected winning line %v", result.Line.Cells)
	}
}

func TestPlayGameRespectsPlyLimit(t *testing.T) {
	table := engine.DefaultScoreTable()
	result, err := playGame(table, table, []engine.Move{{Row: 4, Col: 4}}, 9, 12)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if result.Plies > 12 {
		t.Fatalf("expected at most 12 plies, got %d", result.Plies)
	}
	if result.Winner == engine.PlayerNone && result.Plies != 12 {
		t.Fatalf("a draw must stop exactly at the limit, got %d", result.Plies)
	}
}

func TestOpeningSuiteIsDeterministic(t *testing.T) {
	opts := defaultOptions()
	opts.seed = 5
	tr := &trainer{opts: opts}
	first := tr.buildOpeningSuite(3, 41)
	second := tr.buildOpeningSuite(3, 41)
	for i := range first {
		seen := map[engine.Move]bool{}
		for j, m := range first[i] {
			if m != second[i][j] {
				t.Fatalf("suite differs at %d/%d", i, j)
			}
			if seen[m] || !m.IsValid(opts.boardSize) {
				t.Fatalf("opening %d has a repeated or invalid cell %v", i, m)
			}
			seen[m] = true
		}
	}
}

func TestRenderBoardPlainProfile(t *testing.T) {
	var buf bytes.Buffer
	output := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	table := engine.DefaultScoreTable()
	result, err := playGame(table, table, rowZeroOpening(), 9, 100)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	lines := strings.Split(renderBoard(output, result), "\n")
	if lines[0] != "X X X X X . . . ." {
		t.Fatalf("unexpected first row %q", lines[0])
	}
	if lines[5] != "O O O O . . . . ." {
		t.Fatalf("unexpected sixth row %q", lines[5])
	}
}

func TestRunWritesChampion(t *testing.T) {
	out := filepath.Join(t.TempDir(), "champion.json")
	var buf bytes.Buffer
	args := []string{"-generations", "1", "-matches", "1", "-population", "2", "-size", "9", "-seed", "3", "-no-color", "-out", out}
	if err := run(args, &buf); err != nil {
		t.Fatalf("run: %v\n%s", err, buf.String())
	}
	table, err := readScoreTable(out)
	if err != nil {
		t.Fatalf("read champion: %v", err)
	}
	if table.Five != engine.DefaultScoreTable().Five {
		t.Fatalf("champion lost the FIVE weight")
	}
	if !strings.Contains(buf.String(), "generation 1") {
		t.Fatalf("expected standings in output, got:\n%s", buf.String())
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := defaultOptions()
	opts.populationSize = 1
	if err := opts.validate(); err == nil {
		t.Fatalf("expected a population of one to be rejected")
	}
	opts = defaultOptions()
	opts.boardSize = 3
	if err := opts.validate(); err == nil {
		t.Fatalf("expected a 3x3 board to be rejected")
	}
}
