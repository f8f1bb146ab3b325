package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/tranquocphongvn/caro/engine"
)

const mutationAttempts = 16

// tunable lists the weights the trainer may change. FIVE, the gap penalty
// and the centre weight stay fixed.
func tunable(t *engine.ScoreTable) []*int {
	return []*int{
		&t.FourOpen, &t.FourClosed, &t.ThreeOpen, &t.SemiThreeOpen, &t.ThreeClosed,
		&t.TwoOpen, &t.SemiTwoOpen, &t.TwoClosed, &t.OneOpen, &t.OneClosed,
		&t.BlockFourOpen, &t.BlockFourClosed, &t.BlockThreeOpen, &t.BlockSemiThreeOpen, &t.BlockThreeClosed,
		&t.BlockTwoOpen, &t.BlockSemiTwoOpen, &t.BlockTwoClosed, &t.BlockOneOpen, &t.BlockOneClosed,
	}
}

// mutateScoreTable scales every tunable weight by a random factor in
// [1-strength, 1+strength]. Mutations breaking the category ordering are
// retried; base is returned when none validates.
func mutateScoreTable(rng *rand.Rand, base engine.ScoreTable, strength float64) engine.ScoreTable {
	for attempt := 0; attempt < mutationAttempts; attempt++ {
		out := base
		for _, w := range tunable(&out) {
			factor := 1 + (rng.Float64()*2-1)*strength
			next := math.Round(float64(*w) * factor)
			if math.IsNaN(next) || next < 1 || next > math.MaxInt32 {
				continue
			}
			*w = int(next)
		}
		if out.Validate() == nil {
			return out
		}
	}
	return base
}

func readScoreTable(path string) (engine.ScoreTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.ScoreTable{}, err
	}
	table := engine.DefaultScoreTable()
	if err := json.Unmarshal(raw, &table); err != nil {
		return engine.ScoreTable{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := table.Validate(); err != nil {
		return engine.ScoreTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// writeScoreTable replaces path atomically.
func writeScoreTable(path string, table engine.ScoreTable) error {
	raw, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
