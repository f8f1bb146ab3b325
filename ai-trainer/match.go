package main

import (
	"fmt"

	"github.com/tranquocphongvn/caro/engine"
)

type gameResult struct {
	Winner engine.Player
	Plies  int
	Board  engine.Board
	Line   engine.WinLine
}

// playGame plays x against o from a fixed opening. X moves first; the game
// is a draw once the board is full or maxPlies have been played.
func playGame(x, o engine.ScoreTable, opening []engine.Move, size, maxPlies int) (gameResult, error) {
	board, err := engine.NewBoard(size)
	if err != nil {
		return gameResult{}, err
	}
	resolvers := map[engine.Player]*engine.Resolver{
		engine.PlayerX: engine.NewResolver(configFor(x), nil),
		engine.PlayerO: engine.NewResolver(configFor(o), nil),
	}

	toMove := engine.PlayerX
	plies := 0
	play := func(m engine.Move) (bool, error) {
		if err := board.Place(m.Row, m.Col, toMove); err != nil {
			return false, fmt.Errorf("ply %d %s at %s: %w", plies+1, toMove, m, err)
		}
		plies++
		if _, won := engine.CheckWin(board, m.Row, m.Col, toMove); won {
			return true, nil
		}
		toMove = toMove.Opponent()
		return false, nil
	}

	for _, m := range opening {
		won, err := play(m)
		if err != nil {
			return gameResult{}, err
		}
		if won {
			return finished(board, plies), nil
		}
	}
	for plies < maxPlies && !board.IsFull() {
		m, err := resolvers[toMove].ChooseMove(board, toMove)
		if err != nil {
			return gameResult{}, err
		}
		won, err := play(m)
		if err != nil {
			return gameResult{}, err
		}
		if won {
			return finished(board, plies), nil
		}
	}
	return gameResult{Winner: engine.PlayerNone, Plies: plies, Board: board}, nil
}

// finished reads the winning line back from the final position.
func finished(board engine.Board, plies int) gameResult {
	result := gameResult{Plies: plies, Board: board}
	for _, p := range []engine.Player{engine.PlayerX, engine.PlayerO} {
		if line, ok := engine.FindWin(board, p); ok {
			result.Winner = p
			result.Line = line
			break
		}
	}
	return result
}

func configFor(weights engine.ScoreTable) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Weights = weights
	return cfg
}
