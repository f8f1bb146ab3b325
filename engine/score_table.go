package engine

import (
	"fmt"
	"math"
)

// Pattern is the class a line window falls into.
type Pattern int

const (
	PatternNone Pattern = iota
	PatternOneClosed
	PatternOneOpen
	PatternTwoClosed
	PatternSemiTwoOpen
	PatternTwoOpen
	PatternThreeClosed
	PatternSemiThreeOpen
	PatternThreeOpen
	PatternFourClosed
	PatternFourOpen
	PatternFive
)

var patternNames = [...]string{
	PatternNone:          "NONE",
	PatternOneClosed:     "ONE_CLOSED",
	PatternOneOpen:       "ONE_OPEN",
	PatternTwoClosed:     "TWO_CLOSED",
	PatternSemiTwoOpen:   "SEMI_TWO_OPEN",
	PatternTwoOpen:       "TWO_OPEN",
	PatternThreeClosed:   "THREE_CLOSED",
	PatternSemiThreeOpen: "SEMI_THREE_OPEN",
	PatternThreeOpen:     "THREE_OPEN",
	PatternFourClosed:    "FOUR_CLOSED",
	PatternFourOpen:      "FOUR_OPEN",
	PatternFive:          "FIVE",
}

func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
	return patternNames[p]
}

// MinScore is returned for cells that cannot be played.
const MinScore = math.MinInt32

// ScoreTable maps patterns to weights. Only the ordering of the weights is
// load-bearing; Validate enforces it.
type ScoreTable struct {
	Five          int `json:"five"`
	FourOpen      int `json:"four_open"`
	FourClosed    int `json:"four_closed"`
	ThreeOpen     int `json:"three_open"`
	SemiThreeOpen int `json:"semi_three_open"`
	ThreeClosed   int `json:"three_closed"`
	TwoOpen       int `json:"two_open"`
	SemiTwoOpen   int `json:"semi_two_open"`
	TwoClosed     int `json:"two_closed"`
	OneOpen       int `json:"one_open"`
	OneClosed     int `json:"one_closed"`

	BlockFourOpen      int `json:"block_four_open"`
	BlockFourClosed    int `json:"block_four_closed"`
	BlockThreeOpen     int `json:"block_three_open"`
	BlockSemiThreeOpen int `json:"block_semi_three_open"`
	BlockThreeClosed   int `json:"block_three_closed"`
	BlockTwoOpen       int `json:"block_two_open"`
	BlockSemiTwoOpen   int `json:"block_semi_two_open"`
	BlockTwoClosed     int `json:"block_two_closed"`
	BlockOneOpen       int `json:"block_one_open"`
	BlockOneClosed     int `json:"block_one_closed"`

	GapPenalty   int `json:"gap_penalty"`
	CenterWeight int `json:"center_weight"`
}

func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		Five:          100_000_000,
		FourOpen:      10_000_000,
		FourClosed:    1_000_000,
		ThreeOpen:     500_000,
		SemiThreeOpen: 200_000,
		ThreeClosed:   50_000,
		TwoOpen:       10_000,
		SemiTwoOpen:   5_000,
		TwoClosed:     1_000,
		OneOpen:       200,
		OneClosed:     50,

		// Blocking an open four outranks building anything short of a four.
		BlockFourOpen:      8_000_000,
		BlockFourClosed:    800_000,
		BlockThreeOpen:     400_000,
		BlockSemiThreeOpen: 150_000,
		BlockThreeClosed:   40_000,
		BlockTwoOpen:       8_000,
		BlockSemiTwoOpen:   4_000,
		BlockTwoClosed:     800,
		BlockOneOpen:       150,
		BlockOneClosed:     40,

		GapPenalty:   3,
		CenterWeight: 1,
	}
}

// Offense returns the weight of a pattern built by the mover.
func (t ScoreTable) Offense(p Pattern) int {
	switch p {
	case PatternFive:
		return t.Five
	case PatternFourOpen:
		return t.FourOpen
	case PatternFourClosed:
		return t.FourClosed
	case PatternThreeOpen:
		return t.ThreeOpen
	case PatternSemiThreeOpen:
		return t.SemiThreeOpen
	case PatternThreeClosed:
		return t.ThreeClosed
	case PatternTwoOpen:
		return t.TwoOpen
	case PatternSemiTwoOpen:
		return t.SemiTwoOpen
	case PatternTwoClosed:
		return t.TwoClosed
	case PatternOneOpen:
		return t.OneOpen
	case PatternOneClosed:
		return t.OneClosed
	default:
		return 0
	}
}

// Block returns the weight of denying the opponent a pattern. Fives are
// deliberately absent: immediate wins are handled by the resolver.
func (t ScoreTable) Block(p Pattern) int {
	switch p {
	case PatternFourOpen:
		return t.BlockFourOpen
	case PatternFourClosed:
		return t.BlockFourClosed
	case PatternThreeOpen:
		return t.BlockThreeOpen
	case PatternSemiThreeOpen:
		return t.BlockSemiThreeOpen
	case PatternThreeClosed:
		return t.BlockThreeClosed
	case PatternTwoOpen:
		return t.BlockTwoOpen
	case PatternSemiTwoOpen:
		return t.BlockSemiTwoOpen
	case PatternTwoClosed:
		return t.BlockTwoClosed
	case PatternOneOpen:
		return t.BlockOneOpen
	case PatternOneClosed:
		return t.BlockOneClosed
	default:
		return 0
	}
}

// maxGaps bounds the empty cells that can sit inside a five-cell window.
const maxGaps = WinLength - 2

// Validate checks that weights strictly decrease with severity and that the
// gap penalty can never push a pattern below the next weaker one.
func (t ScoreTable) Validate() error {
	if t.GapPenalty < 0 {
		return fmt.Errorf("gap_penalty must not be negative, got %d", t.GapPenalty)
	}
	if t.CenterWeight < 0 {
		return fmt.Errorf("center_weight must not be negative, got %d", t.CenterWeight)
	}
	margin := t.GapPenalty * maxGaps
	offenseStep, err := checkOrdered("offense", margin, []Pattern{
		PatternFive, PatternFourOpen, PatternFourClosed, PatternThreeOpen, PatternSemiThreeOpen,
		PatternThreeClosed, PatternTwoOpen, PatternSemiTwoOpen, PatternTwoClosed,
		PatternOneOpen, PatternOneClosed,
	}, t.Offense)
	if err != nil {
		return err
	}
	blockStep, err := checkOrdered("block", margin, []Pattern{
		PatternFourOpen, PatternFourClosed, PatternThreeOpen, PatternSemiThreeOpen,
		PatternThreeClosed, PatternTwoOpen, PatternSemiTwoOpen, PatternTwoClosed,
		PatternOneOpen, PatternOneClosed,
	}, t.Block)
	if err != nil {
		return err
	}
	// The largest centre bias is reached on the biggest board.
	if bias, step := t.CenterWeight*(MaxBoardSize/2), min(offenseStep, blockStep); bias >= step {
		return fmt.Errorf("center_weight %d gives a bias of %d, which must stay below the smallest category step %d",
			t.CenterWeight, bias, step)
	}
	return nil
}

// checkOrdered returns the smallest gap between neighbouring weights,
// counting the last weight against zero.
func checkOrdered(kind string, margin int, order []Pattern, weight func(Pattern) int) (int, error) {
	step := weight(order[len(order)-1])
	for i := 0; i < len(order); i++ {
		w := weight(order[i])
		if w <= margin {
			return 0, fmt.Errorf("%s weight %s=%d must exceed the gap margin %d", kind, order[i], w, margin)
		}
		if i == 0 {
			continue
		}
		prev := weight(order[i-1])
		if prev-margin <= w {
			return 0, fmt.Errorf("%s weight %s=%d must stay below %s=%d by more than %d",
				kind, order[i], w, order[i-1], prev, margin)
		}
		step = min(step, prev-w)
	}
	return step, nil
}
