package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/muesli/termenv"

	"github.com/tranquocphongvn/caro/engine"
)

type options struct {
	generations        int
	matches            int
	populationSize     int
	eliteCount         int
	mutationStrength   float64
	eloK               float64
	validationOpenings int
	validationPassRate float64
	openingPlies       int
	boardSize          int
	maxPlies           int
	seed               int64
	out                string
	base               string
	noColor            bool
}

func defaultOptions() options {
	return options{
		generations:        5,
		matches:            2,
		populationSize:     4,
		eliteCount:         1,
		mutationStrength:   0.25,
		eloK:               24,
		validationOpenings: 4,
		validationPassRate: 0.55,
		openingPlies:       3,
		boardSize:          15,
		maxPlies:           120,
		out:                "champion_weights.json",
	}
}

func (o options) validate() error {
	if o.generations < 1 {
		return fmt.Errorf("generations must be positive, got %d", o.generations)
	}
	if o.matches < 1 {
		return fmt.Errorf("matches must be positive, got %d", o.matches)
	}
	if o.populationSize < 2 {
		return fmt.Errorf("population needs at least 2 contenders, got %d", o.populationSize)
	}
	if o.boardSize < engine.MinBoardSize || o.boardSize > engine.MaxBoardSize {
		return &engine.BoardSizeError{Size: o.boardSize}
	}
	if o.out == "" {
		return fmt.Errorf("out path is empty")
	}
	return nil
}

type contender struct {
	ID      string
	Weights engine.ScoreTable
	Elo     float64
	Wins    int
	Losses  int
	Draws   int
}

type trainer struct {
	opts   options
	rng    *rand.Rand
	output *termenv.Output
	logger *log.Logger
	base   engine.ScoreTable
}

func newTrainer(opts options, output *termenv.Output, logger *log.Logger) (*trainer, error) {
	base := engine.DefaultScoreTable()
	if opts.base != "" {
		table, err := readScoreTable(opts.base)
		if err != nil {
			return nil, err
		}
		base = table
	}
	return &trainer{
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.seed)),
		output: output,
		logger: logger,
		base:   base,
	}, nil
}

// Run plays the configured number of generations and returns the champion.
// On cancellation the champion so far is returned with the context error.
func (t *trainer) Run(ctx context.Context) (contender, error) {
	trainOpenings := t.buildOpeningSuite(t.opts.matches, 41)
	valOpenings := t.buildOpeningSuite(t.opts.validationOpenings, 911)
	champion := contender{ID: "champion", Weights: t.base, Elo: 1500}
	population := t.initializePopulation(champion.Weights)
	t.logger.Printf("seed=%d size=%d population=%d openings=%d", t.opts.seed, t.opts.boardSize, len(population), len(trainOpenings))

	for generation := 1; generation <= t.opts.generations; generation++ {
		games, err := t.runPopulationRound(ctx, population, trainOpenings)
		if err != nil {
			return champion, err
		}
		sortContendersByElo(population)
		best := population[0]

		promoted := false
		if best.Weights != champion.Weights {
			rate, err := t.runValidation(ctx, best.Weights, champion.Weights, valOpenings)
			if err != nil {
				return champion, err
			}
			t.logger.Printf("gen %d validation %s vs champion: %.2f", generation, best.ID, rate)
			if rate >= t.opts.validationPassRate {
				champion = contender{ID: fmt.Sprintf("champion-g%d", generation), Weights: best.Weights, Elo: 1500}
				promoted = true
			}
		}
		t.printStandings(generation, games, population, promoted)
		population = t.nextGenerationPopulation(champion.Weights, population)
	}
	t.showcase(champion, trainOpenings)
	return champion, nil
}

// showcase prints one game of the champion as X against the starting table.
func (t *trainer) showcase(champion contender, openings [][]engine.Move) {
	if len(openings) == 0 {
		return
	}
	result, err := playGame(champion.Weights, t.base, openings[0], t.opts.boardSize, t.opts.maxPlies)
	if err != nil {
		t.logger.Printf("showcase game failed: %v", err)
		return
	}
	winner := "draw"
	if result.Winner != engine.PlayerNone {
		winner = result.Winner.String() + " wins"
	}
	fmt.Fprintf(t.output, "%s (X) vs base (O): %s after %d plies\n%s", champion.ID, winner, result.Plies, renderBoard(t.output, result))
}

func (t *trainer) runPopulationRound(ctx context.Context, population []contender, openings [][]engine.Move) (int, error) {
	games := 0
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			for _, opening := range openings {
				if ctx.Err() != nil {
					return games, ctx.Err()
				}
				result, err := t.playHeadToHead(population[i].Weights, population[j].Weights, opening)
				if err != nil {
					return games, err
				}
				recordResult(&population[i], &population[j], result)
				updateElo(&population[i], &population[j], result, t.opts.eloK)
				games += 2
			}
		}
	}
	return games, nil
}

// runValidation returns the score rate of candidate against champion.
func (t *trainer) runValidation(ctx context.Context, candidate, champion engine.ScoreTable, openings [][]engine.Move) (float64, error) {
	points := 0.0
	for _, opening := range openings {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		result, err := t.playHeadToHead(candidate, champion, opening)
		if err != nil {
			return 0, err
		}
		points += result
	}
	if len(openings) == 0 {
		return 0, nil
	}
	return points / float64(len(openings)), nil
}

// playHeadToHead plays the opening twice with colours swapped and returns
// the points of first, between 0 and 1.
func (t *trainer) playHeadToHead(first, second engine.ScoreTable, opening []engine.Move) (float64, error) {
	points := 0.0
	for _, firstIsX := range []bool{true, false} {
		x, o := first, second
		if !firstIsX {
			x, o = second, first
		}
		result, err := playGame(x, o, opening, t.opts.boardSize, t.opts.maxPlies)
		if err != nil {
			return 0, err
		}
		switch result.Winner {
		case engine.PlayerX:
			if firstIsX {
				points += 1
			}
		case engine.PlayerO:
			if !firstIsX {
				points += 1
			}
		default:
			points += 0.5
		}
	}
	return points / 2, nil
}

func (t *trainer) buildOpeningSuite(count int, salt int64) [][]engine.Move {
	rng := rand.New(rand.NewSource(t.opts.seed + salt))
	center := t.opts.boardSize / 2
	offsets := []engine.Move{
		{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: -1, Col: 0}, {Row: 0, Col: -1},
		{Row: 1, Col: 1}, {Row: -1, Col: -1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: 2, Col: 0}, {Row: 0, Col: 2},
	}
	plies := min(t.opts.openingPlies, len(offsets))
	suite := make([][]engine.Move, 0, count)
	for i := 0; i < count; i++ {
		used := map[engine.Move]bool{}
		opening := make([]engine.Move, 0, plies)
		for len(opening) < plies {
			off := offsets[rng.Intn(len(offsets))]
			m := engine.Move{Row: center + off.Row, Col: center + off.Col}
			if !m.IsValid(t.opts.boardSize) || used[m] {
				continue
			}
			used[m] = true
			opening = append(opening, m)
		}
		suite = append(suite, opening)
	}
	return suite
}

func (t *trainer) initializePopulation(seed engine.ScoreTable) []contender {
	pop := make([]contender, 0, t.opts.populationSize)
	pop = append(pop, contender{ID: "p0", Weights: seed, Elo: 1500})
	for i := 1; i < t.opts.populationSize; i++ {
		pop = append(pop, contender{
			ID:      fmt.Sprintf("p%d", i),
			Weights: mutateScoreTable(t.rng, seed, t.opts.mutationStrength),
			Elo:     1500,
		})
	}
	return pop
}

// nextGenerationPopulation keeps the champion and the elites and fills the
// rest with mutations of them.
func (t *trainer) nextGenerationPopulation(champion engine.ScoreTable, ranked []contender) []contender {
	next := make([]contender, 0, t.opts.populationSize)
	next = append(next, contender{ID: "p0", Weights: champion, Elo: 1500})
	for i := 0; i < len(ranked) && len(next) < t.opts.populationSize && i < t.opts.eliteCount+1; i++ {
		if ranked[i].Weights == champion {
			continue
		}
		next = append(next, contender{ID: fmt.Sprintf("elite-%d", i), Weights: ranked[i].Weights, Elo: 1500})
	}
	parentPool := ranked
	if len(parentPool) > t.opts.eliteCount+1 {
		parentPool = parentPool[:t.opts.eliteCount+1]
	}
	for len(next) < t.opts.populationSize {
		parent := parentPool[t.rng.Intn(len(parentPool))]
		next = append(next, contender{
			ID:      fmt.Sprintf("mut-%d", len(next)),
			Weights: mutateScoreTable(t.rng, parent.Weights, t.opts.mutationStrength),
			Elo:     1500,
		})
	}
	return next
}

func sortContendersByElo(list []contender) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Elo > list[j].Elo
	})
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

func recordResult(a *contender, b *contender, resultForA float64) {
	switch {
	case resultForA > 0.5:
		a.Wins++
		b.Losses++
	case resultForA < 0.5:
		a.Losses++
		b.Wins++
	default:
		a.Draws++
		b.Draws++
	}
}
