package main

import "github.com/tranquocphongvn/caro/engine"

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusXWon
	StatusOWon
	StatusDraw
)

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusXWon:
		return "x_won"
	case StatusOWon:
		return "o_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func (s GameStatus) Winner() engine.Player {
	switch s {
	case StatusXWon:
		return engine.PlayerX
	case StatusOWon:
		return engine.PlayerO
	default:
		return engine.PlayerNone
	}
}

func statusWonBy(p engine.Player) GameStatus {
	if p == engine.PlayerX {
		return StatusXWon
	}
	return StatusOWon
}

type GameState struct {
	Board       engine.Board
	ToMove      engine.Player
	Status      GameStatus
	HasLastMove bool
	LastMove    engine.Move
	LastMessage string
	WinningLine []engine.Move
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	board, err := engine.NewBoard(settings.BoardSize)
	if err != nil {
		board = engine.MustNewBoard(engine.DefaultBoardSize)
	}
	s.Board = board
	s.ToMove = engine.PlayerX
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = engine.Move{Row: -1, Col: -1}
	s.LastMessage = ""
	s.WinningLine = nil
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]engine.Move(nil), s.WinningLine...)
	return clone
}

func winningCells(line engine.WinLine) []engine.Move {
	return append([]engine.Move(nil), line.Cells[:]...)
}
