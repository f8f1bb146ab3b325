package engine

import (
	"sort"
)

// WinScore is the base value of a won position; the remaining depth is added
// so that faster wins rank higher.
const WinScore = 1_000_000_000

// Searcher is an alpha-beta minimax over candidate cells. Leaves are scored
// with EvaluateCell so both decision paths share one notion of a good cell.
type Searcher struct {
	depth         int
	maxCandidates int
	weights       ScoreTable
	tt            *TranspositionTable
}

type SearchStats struct {
	Nodes   int
	TTHits  int
	Cutoffs int
}

func NewSearcher(config Config) *Searcher {
	s := &Searcher{
		depth:         config.SearchDepth,
		maxCandidates: config.SearchMaxCandidates,
		weights:       config.Weights,
	}
	if s.depth < 1 {
		s.depth = 1
	}
	if s.maxCandidates < 1 {
		s.maxCandidates = 1
	}
	if config.SearchTTSize > 0 {
		s.tt = NewTranspositionTable(uint64(config.SearchTTSize), config.SearchTTBuckets)
	}
	return s
}

// Search returns the best move for p at the configured depth and its score
// from p's point of view.
func (s *Searcher) Search(b Board, p Player) (Move, int, error) {
	move, score, _, err := s.SearchWithStats(b, p)
	return move, score, err
}

func (s *Searcher) SearchWithStats(b Board, p Player) (Move, int, SearchStats, error) {
	var stats SearchStats
	if !p.Valid() {
		return Move{}, 0, stats, ErrInvalidPlayer
	}
	board := b.Clone()
	moves := s.orderedMoves(board, p)
	if len(moves) == 0 {
		return Move{}, 0, stats, ErrNoMove
	}
	if s.tt != nil {
		s.tt.NextGeneration()
	}
	z := GetZobrist(board.Size())
	hash := z.Hash(board, p) ^ rootSalt(p)
	alpha := -WinScore * 2
	beta := WinScore * 2
	best := moves[0]
	bestScore := alpha
	for _, m := range moves {
		board.Set(m.Row, m.Col, p)
		score := s.alphaBeta(&board, z, z.Play(hash, m, p), m, p, p, s.depth-1, alpha, beta, &stats)
		board.Remove(m.Row, m.Col)
		if score > bestScore {
			best, bestScore = m, score
		}
		if score > alpha {
			alpha = score
		}
	}
	if s.tt != nil {
		s.tt.Store(hash, s.depth, bestScore, TTExact, best)
	}
	return best, bestScore, stats, nil
}

// alphaBeta scores the position after mover played last, from root's point
// of view.
func (s *Searcher) alphaBeta(b *Board, z *ZobristTable, hash uint64, last Move, mover, root Player, depth, alpha, beta int, stats *SearchStats) int {
	stats.Nodes++
	if _, won := CheckWin(*b, last.Row, last.Col, mover); won {
		if mover == root {
			return WinScore + depth
		}
		return -(WinScore + depth)
	}
	if b.IsFull() {
		return 0
	}
	if depth == 0 {
		return s.leaf(*b, root)
	}

	origAlpha, origBeta := alpha, beta
	if s.tt != nil {
		if entry, ok := s.tt.Probe(hash); ok && entry.Depth >= depth {
			stats.TTHits++
			score := int(entry.Score)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLower:
				alpha = max(alpha, score)
			case TTUpper:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return score
			}
		}
	}

	toMove := mover.Opponent()
	maximizing := toMove == root
	moves := s.orderedMoves(*b, toMove)
	if len(moves) == 0 {
		return 0
	}
	best := moves[0]
	var bestScore int
	if maximizing {
		bestScore = -WinScore * 2
	} else {
		bestScore = WinScore * 2
	}
	for _, m := range moves {
		b.Set(m.Row, m.Col, toMove)
		score := s.alphaBeta(b, z, z.Play(hash, m, toMove), m, toMove, root, depth-1, alpha, beta, stats)
		b.Remove(m.Row, m.Col)
		if maximizing {
			if score > bestScore {
				best, bestScore = m, score
			}
			alpha = max(alpha, score)
		} else {
			if score < bestScore {
				best, bestScore = m, score
			}
			beta = min(beta, score)
		}
		if alpha >= beta {
			stats.Cutoffs++
			break
		}
	}

	if s.tt != nil {
		flag := TTExact
		if bestScore <= origAlpha {
			flag = TTUpper
		} else if bestScore >= origBeta {
			flag = TTLower
		}
		s.tt.Store(hash, depth, bestScore, flag, best)
	}
	return bestScore
}

// rootSalt separates entries scored for different root players, since
// scores are stored from the root's point of view.
func rootSalt(root Player) uint64 {
	if root == PlayerO {
		return 0xd6e8feb86659fd93
	}
	return 0
}

// leaf is the best cell root could play minus the best cell the opponent
// could play.
func (s *Searcher) leaf(b Board, root Player) int {
	mine := MinScore
	theirs := MinScore
	for _, m := range Candidates(b) {
		mine = max(mine, EvaluateCell(b, m.Row, m.Col, root, s.weights))
		theirs = max(theirs, EvaluateCell(b, m.Row, m.Col, root.Opponent(), s.weights))
	}
	if mine == MinScore || theirs == MinScore {
		return 0
	}
	return mine - theirs
}

// orderedMoves sorts candidates by their cell score for p, strongest first,
// and keeps at most maxCandidates of them.
func (s *Searcher) orderedMoves(b Board, p Player) []Move {
	candidates := Candidates(b)
	scores := make(map[Move]int, len(candidates))
	for _, m := range candidates {
		scores[m] = EvaluateCell(b, m.Row, m.Col, p, s.weights)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i]] > scores[candidates[j]]
	})
	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}
	return candidates
}
