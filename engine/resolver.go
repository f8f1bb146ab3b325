package engine

import (
	"log"
	"math/rand"
)

// Stage names the rule of the resolver that produced a move.
type Stage int

const (
	StageNone Stage = iota
	StageOpening
	StageWin
	StageBlock
	StageLookahead
	StageHeuristic
	StageSearch
)

var stageNames = [...]string{
	StageNone:      "none",
	StageOpening:   "opening",
	StageWin:       "win",
	StageBlock:     "block",
	StageLookahead: "lookahead",
	StageHeuristic: "heuristic",
	StageSearch:    "search",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Decision is a chosen move with the reason behind it.
type Decision struct {
	Move     Move
	Player   Player
	Stage    Stage
	Score    int
	Critical []Move
}

// Resolver chooses moves by threat priority. A Resolver carrying a random
// source must not be shared between goroutines.
type Resolver struct {
	config   Config
	rng      *rand.Rand
	searcher *Searcher
}

// NewResolver builds a resolver. With rng nil every tie resolves to the first
// candidate in row-major order; with a seeded rng, ties switch to a later
// equal-scored candidate with probability config.TieSwitchChance.
func NewResolver(config Config, rng *rand.Rand) *Resolver {
	r := &Resolver{config: config, rng: rng}
	if config.Strategy == StrategyAlphaBeta {
		r.searcher = NewSearcher(config)
	}
	return r
}

// ChooseMove picks a move for p with the default configuration and
// deterministic tie-breaking.
func ChooseMove(b Board, p Player) (Move, error) {
	return NewResolver(DefaultConfig(), nil).ChooseMove(b, p)
}

func (r *Resolver) Config() Config {
	return r.config
}

func (r *Resolver) ChooseMove(b Board, p Player) (Move, error) {
	decision, err := r.Decide(b, p)
	if err != nil {
		return Move{}, err
	}
	return decision.Move, nil
}

// Decide runs the priority chain: opening book, win now, forced block,
// safety lookahead among several forced blocks, then the heuristic (or the
// searcher). The caller's board is never modified.
func (r *Resolver) Decide(b Board, p Player) (Decision, error) {
	if !p.Valid() {
		return Decision{}, ErrInvalidPlayer
	}
	if b.IsFull() {
		return Decision{}, ErrNoMove
	}
	if move, ok := OpeningMove(b, r.rng); ok {
		return r.finish(Decision{Move: move, Player: p, Stage: StageOpening}), nil
	}

	scratch := b.Clone()
	candidates := Candidates(scratch)
	if len(candidates) == 0 {
		return Decision{}, ErrNoMove
	}

	for _, m := range candidates {
		if wins(&scratch, m, p) {
			return r.finish(Decision{Move: m, Player: p, Stage: StageWin}), nil
		}
	}

	critical := criticalCells(&scratch, candidates, p.Opponent())
	switch len(critical) {
	case 0:
	case 1:
		return r.finish(Decision{Move: critical[0], Player: p, Stage: StageBlock, Critical: critical}), nil
	default:
		move, score := r.safestBlock(&scratch, critical, p)
		return r.finish(Decision{Move: move, Player: p, Stage: StageLookahead, Score: score, Critical: critical}), nil
	}

	if r.searcher != nil {
		move, score, err := r.searcher.Search(scratch, p)
		if err != nil {
			return Decision{}, err
		}
		return r.finish(Decision{Move: move, Player: p, Stage: StageSearch, Score: score}), nil
	}

	move, score := r.bestCell(scratch, candidates, p)
	return r.finish(Decision{Move: move, Player: p, Stage: StageHeuristic, Score: score}), nil
}

// wins places p on m, checks for a win and takes the mark back.
func wins(scratch *Board, m Move, p Player) bool {
	scratch.Set(m.Row, m.Col, p)
	_, ok := CheckWin(*scratch, m.Row, m.Col, p)
	scratch.Remove(m.Row, m.Col)
	return ok
}

// criticalCells lists the cells where opp would win next move. When such a
// win line is closed on exactly one end, the cell past its open end is added
// as well: a mark there closes the second end and the five no longer wins.
func criticalCells(scratch *Board, candidates []Move, opp Player) []Move {
	critical := []Move{}
	add := func(m Move) {
		for _, existing := range critical {
			if existing.Equals(m) {
				return
			}
		}
		critical = append(critical, m)
	}
	for _, m := range candidates {
		scratch.Set(m.Row, m.Col, opp)
		line, ok := CheckWin(*scratch, m.Row, m.Col, opp)
		scratch.Remove(m.Row, m.Col)
		if !ok {
			continue
		}
		add(m)
		if line.BlockedEnds() != 1 {
			continue
		}
		mirror := line.Before()
		if line.OpenAfter {
			mirror = line.After()
		}
		if scratch.IsEmpty(mirror.Row, mirror.Col) {
			add(mirror)
		}
	}
	return critical
}

// opponentCanWin reports whether opp has a winning reply anywhere.
func opponentCanWin(scratch *Board, opp Player) bool {
	for _, reply := range Candidates(*scratch) {
		if wins(scratch, reply, opp) {
			return true
		}
	}
	return false
}

// safestBlock keeps the critical cells after which the opponent has no
// immediate win and returns the best scored of them. If every block loses,
// the first critical cell is returned.
func (r *Resolver) safestBlock(scratch *Board, critical []Move, p Player) (Move, int) {
	opp := p.Opponent()
	best := critical[0]
	bestScore := MinScore
	found := false
	for _, m := range critical {
		scratch.Set(m.Row, m.Col, p)
		safe := !opponentCanWin(scratch, opp)
		scratch.Remove(m.Row, m.Col)
		if !safe {
			continue
		}
		score := EvaluateCell(*scratch, m.Row, m.Col, p, r.config.Weights)
		if r.prefer(score, bestScore, found) {
			best, bestScore = m, score
		}
		found = true
	}
	return best, bestScore
}

func (r *Resolver) bestCell(b Board, candidates []Move, p Player) (Move, int) {
	best := candidates[0]
	bestScore := MinScore
	found := false
	for _, m := range candidates {
		score := EvaluateCell(b, m.Row, m.Col, p, r.config.Weights)
		if r.prefer(score, bestScore, found) {
			best, bestScore = m, score
		}
		found = true
	}
	return best, bestScore
}

func (r *Resolver) prefer(score, bestScore int, found bool) bool {
	if !found || score > bestScore {
		return true
	}
	if score < bestScore || r.rng == nil {
		return false
	}
	return r.rng.Float64() < r.config.TieSwitchChance
}

func (r *Resolver) finish(d Decision) Decision {
	if r.config.LogDecisions {
		log.Printf("[ai:resolve] player=%s stage=%s move=%s score=%d critical=%s",
			d.Player, d.Stage, d.Move, d.Score, formatMoves(d.Critical))
	}
	return d
}
