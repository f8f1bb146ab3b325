package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func TestChooseMoveEmptyBoardPlaysCenter(t *testing.T) {
	b := newTestBoard(t, DefaultBoardSize)
	move, err := ChooseMove(b, PlayerX)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if move != (Move{Row: 12, Col: 12}) {
		t.Fatalf("expected centre (12,12), got %v", move)
	}
}

func TestChooseMoveBlocksOpenFour(t *testing.T) {
	b := newTestBoard(t, DefaultBoardSize)
	setRow(&b, 12, 10, 13, PlayerO)
	b.Set(4, 4, PlayerX)
	b.Set(20, 18, PlayerX)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.Move != (Move{Row: 12, Col: 9}) && decision.Move != (Move{Row: 12, Col: 14}) {
		t.Fatalf("expected a flank of the open four, got %v", decision.Move)
	}
	if decision.Stage != StageLookahead {
		t.Fatalf("expected lookahead stage, got %s", decision.Stage)
	}
	if len(decision.Critical) != 2 {
		t.Fatalf("expected two critical cells, got %v", decision.Critical)
	}
}

func TestChooseMoveOpenFourVertical(t *testing.T) {
	b := newTestBoard(t, 15)
	for r := 4; r <= 7; r++ {
		b.Set(r, 6, PlayerO)
	}
	b.Set(7, 7, PlayerX)
	move, err := ChooseMove(b, PlayerX)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if move != (Move{Row: 3, Col: 6}) && move != (Move{Row: 8, Col: 6}) {
		t.Fatalf("expected (3,6) or (8,6), got %v", move)
	}
}

func TestChooseMovePrefersSafeBlock(t *testing.T) {
	// O's four touches the left edge. Blocking on the right leaves O only a
	// five closed by the edge and the new X, which does not win.
	b := newTestBoard(t, DefaultBoardSize)
	setRow(&b, 3, 1, 4, PlayerO)
	b.Set(10, 10, PlayerX)
	b.Set(11, 12, PlayerX)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.Stage != StageLookahead {
		t.Fatalf("expected lookahead stage, got %s", decision.Stage)
	}
	if decision.Move != (Move{Row: 3, Col: 5}) {
		t.Fatalf("expected the safe block (3,5), got %v (critical %v)", decision.Move, decision.Critical)
	}
}

func TestChooseMoveWinsBeforeBlocking(t *testing.T) {
	b := newTestBoard(t, 15)
	setRow(&b, 3, 3, 6, PlayerO)
	setRow(&b, 9, 3, 6, PlayerX)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.Stage != StageWin {
		t.Fatalf("expected win stage, got %s", decision.Stage)
	}
	if decision.Move.Row != 9 || (decision.Move.Col != 2 && decision.Move.Col != 7) {
		t.Fatalf("expected a winning cell on row 9, got %v", decision.Move)
	}
	// Row-major order makes (9,2) the first winning cell.
	if decision.Move != (Move{Row: 9, Col: 2}) {
		t.Fatalf("expected deterministic (9,2), got %v", decision.Move)
	}
}

func TestChooseMoveSkipsOverlineAsWin(t *testing.T) {
	b := newTestBoard(t, 15)
	b.Set(7, 1, PlayerO)
	setRow(&b, 7, 2, 5, PlayerX)
	b.Set(7, 7, PlayerX)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.Stage == StageWin {
		t.Fatalf("filling (7,6) makes six and must not count as a win, got %v", decision.Move)
	}
}

func TestChooseMoveSingleForcedBlock(t *testing.T) {
	// Split four open on both ends: only the gap completes the five.
	b := newTestBoard(t, 15)
	setRow(&b, 5, 3, 4, PlayerO)
	setRow(&b, 5, 6, 7, PlayerO)
	b.Set(10, 10, PlayerX)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.Stage != StageBlock || decision.Move != (Move{Row: 5, Col: 5}) {
		t.Fatalf("expected forced block at (5,5), got %v at stage %s", decision.Move, decision.Stage)
	}
	if len(decision.Critical) != 1 {
		t.Fatalf("expected one critical cell, got %v", decision.Critical)
	}
}

func TestChooseMoveClosedFourAddsCellPastOpenEnd(t *testing.T) {
	cases := []struct {
		name   string
		o      []int
		win    Move
		mirror Move
	}{
		{name: "solid", o: []int{3, 4, 5, 6}, win: Move{Row: 5, Col: 7}, mirror: Move{Row: 5, Col: 8}},
		{name: "split", o: []int{3, 4, 6, 7}, win: Move{Row: 5, Col: 5}, mirror: Move{Row: 5, Col: 8}},
	}
	for _, tc := range cases {
		b := newTestBoard(t, 15)
		b.Set(5, 2, PlayerX)
		for _, c := range tc.o {
			b.Set(5, c, PlayerO)
		}
		b.Set(10, 10, PlayerX)
		decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
		if err != nil {
			t.Fatalf("%s: decide: %v", tc.name, err)
		}
		if decision.Stage != StageLookahead {
			t.Fatalf("%s: expected lookahead stage, got %s", tc.name, decision.Stage)
		}
		if len(decision.Critical) != 2 || decision.Critical[0] != tc.win || decision.Critical[1] != tc.mirror {
			t.Fatalf("%s: expected critical [%v %v], got %v", tc.name, tc.win, tc.mirror, decision.Critical)
		}
		if decision.Move != tc.win && decision.Move != tc.mirror {
			t.Fatalf("%s: expected one of the critical cells, got %v", tc.name, decision.Move)
		}

		// A mark past the open end closes the line: O filling the win cell
		// then has both ends blocked.
		b.Set(tc.mirror.Row, tc.mirror.Col, PlayerX)
		b.Set(tc.win.Row, tc.win.Col, PlayerO)
		if _, won := CheckWin(b, tc.win.Row, tc.win.Col, PlayerO); won {
			t.Fatalf("%s: blocking at %v should stop the five", tc.name, tc.mirror)
		}
	}
}

func TestChooseMoveUnavoidableLossPlaysFirstCritical(t *testing.T) {
	b := newTestBoard(t, 15)
	setRow(&b, 3, 3, 6, PlayerO)
	for r := 8; r <= 11; r++ {
		b.Set(r, 10, PlayerO)
	}
	b.Set(0, 14, PlayerX)
	b.Set(14, 0, PlayerX)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	want := []Move{{Row: 3, Col: 2}, {Row: 3, Col: 7}, {Row: 7, Col: 10}, {Row: 12, Col: 10}}
	if len(decision.Critical) != len(want) {
		t.Fatalf("expected critical %v, got %v", want, decision.Critical)
	}
	for i := range want {
		if decision.Critical[i] != want[i] {
			t.Fatalf("expected critical %v, got %v", want, decision.Critical)
		}
	}
	if decision.Stage != StageLookahead || decision.Move != want[0] {
		t.Fatalf("expected first critical %v at lookahead, got %v at %s", want[0], decision.Move, decision.Stage)
	}
}

func TestChooseMoveFullBoardHasNoMove(t *testing.T) {
	b := newTestBoard(t, 5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			// Alternating pairs keep every line short of five.
			if (r+c/2)%2 == 0 {
				b.Set(r, c, PlayerX)
			} else {
				b.Set(r, c, PlayerO)
			}
		}
	}
	if _, err := ChooseMove(b, PlayerO); !errors.Is(err, ErrNoMove) {
		t.Fatalf("expected ErrNoMove, got %v", err)
	}
}

func TestChooseMoveRejectsInvalidPlayer(t *testing.T) {
	b := newTestBoard(t, 9)
	if _, err := ChooseMove(b, PlayerNone); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("expected ErrInvalidPlayer, got %v", err)
	}
}

func TestChooseMoveDoesNotModifyBoard(t *testing.T) {
	b := newTestBoard(t, 15)
	setRow(&b, 7, 5, 7, PlayerX)
	setRow(&b, 8, 5, 7, PlayerO)
	before := b.Clone()
	if _, err := ChooseMove(b, PlayerX); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if _, err := ChooseMove(b, PlayerO); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !b.Equal(before) {
		t.Fatalf("ChooseMove modified the caller's board")
	}
}

func TestChooseMoveBuildsFourFromOpenThree(t *testing.T) {
	b := newTestBoard(t, 15)
	setRow(&b, 7, 6, 8, PlayerX)
	b.Set(2, 2, PlayerO)
	b.Set(12, 2, PlayerO)
	decision, err := NewResolver(DefaultConfig(), nil).Decide(b, PlayerX)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.Stage != StageHeuristic {
		t.Fatalf("expected heuristic stage, got %s", decision.Stage)
	}
	// Any cell turning the three into a four (solid or split) is fine.
	fours := map[Move]bool{{Row: 7, Col: 4}: true, {Row: 7, Col: 5}: true, {Row: 7, Col: 9}: true, {Row: 7, Col: 10}: true}
	if !fours[decision.Move] {
		t.Fatalf("expected a four-making move on row 7, got %v", decision.Move)
	}
}

func TestOpeningMoveSecondPly(t *testing.T) {
	b := newTestBoard(t, 9)
	b.Set(0, 0, PlayerX)
	move, ok := OpeningMove(b, nil)
	if !ok || move != (Move{Row: 1, Col: 1}) {
		t.Fatalf("expected (1,1) towards the centre, got %v ok=%v", move, ok)
	}

	b.Set(1, 1, PlayerO)
	if _, ok := OpeningMove(b, nil); ok {
		t.Fatalf("opening book covers only the first two plies")
	}
}

func TestOpeningMoveSeededIsReproducible(t *testing.T) {
	b := newTestBoard(t, DefaultBoardSize)
	b.Set(12, 12, PlayerX)
	first, ok := OpeningMove(b, rand.New(rand.NewSource(7)))
	if !ok {
		t.Fatalf("expected an opening move")
	}
	second, _ := OpeningMove(b, rand.New(rand.NewSource(7)))
	if first != second {
		t.Fatalf("same seed gave %v and %v", first, second)
	}
	if abs(first.Row-12) > 1 || abs(first.Col-12) > 1 || first == (Move{Row: 12, Col: 12}) {
		t.Fatalf("%v is not a neighbour of the centre", first)
	}
}

func TestSeededTieBreakIsReproducible(t *testing.T) {
	b := newTestBoard(t, 15)
	b.Set(7, 7, PlayerX)
	b.Set(7, 8, PlayerO)
	run := func() Move {
		r := NewResolver(DefaultConfig(), rand.New(rand.NewSource(99)))
		move, err := r.ChooseMove(b, PlayerX)
		if err != nil {
			t.Fatalf("choose: %v", err)
		}
		return move
	}
	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); got != first {
			t.Fatalf("seeded resolver is not reproducible: %v vs %v", first, got)
		}
	}
}
