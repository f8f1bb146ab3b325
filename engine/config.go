package engine

import "fmt"

type Strategy string

const (
	// StrategyThreat picks the best heuristic cell once no forcing move exists.
	StrategyThreat Strategy = "threat"
	// StrategyAlphaBeta hands quiet positions to the alpha-beta searcher.
	StrategyAlphaBeta Strategy = "alphabeta"
)

type Config struct {
	Strategy            Strategy   `json:"strategy"`
	TieSwitchChance     float64    `json:"tie_switch_chance"`
	SearchDepth         int        `json:"search_depth"`
	SearchMaxCandidates int        `json:"search_max_candidates"`
	SearchTTSize        int        `json:"search_tt_size"`
	SearchTTBuckets     int        `json:"search_tt_buckets"`
	LogDecisions        bool       `json:"log_decisions"`
	Weights             ScoreTable `json:"weights"`
}

func DefaultConfig() Config {
	return Config{
		Strategy:        StrategyThreat,
		TieSwitchChance: 0.5,

		// Alpha-beta is only used when Strategy asks for it.
		SearchDepth:         2,
		SearchMaxCandidates: 12,
		SearchTTSize:        1 << 16,
		SearchTTBuckets:     2,

		LogDecisions: false,
		Weights:      DefaultScoreTable(),
	}
}

func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyThreat, StrategyAlphaBeta:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.TieSwitchChance < 0 || c.TieSwitchChance > 1 {
		return fmt.Errorf("tie_switch_chance must be within [0, 1], got %v", c.TieSwitchChance)
	}
	if c.SearchDepth < 1 {
		return fmt.Errorf("search_depth must be positive, got %d", c.SearchDepth)
	}
	if c.SearchMaxCandidates < 1 {
		return fmt.Errorf("search_max_candidates must be positive, got %d", c.SearchMaxCandidates)
	}
	if c.SearchTTSize < 0 {
		return fmt.Errorf("search_tt_size must not be negative, got %d", c.SearchTTSize)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}
