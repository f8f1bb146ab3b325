package main

import (
	"errors"

	"github.com/tranquocphongvn/caro/engine"
)

var errHumanTurn = errors.New("waiting for a human move")

type HumanPlayer struct {
	pending     bool
	pendingMove engine.Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) ChooseMove(GameState) (engine.Decision, error) {
	return engine.Decision{}, errHumanTurn
}

func (h *HumanPlayer) SetPendingMove(move engine.Move) {
	h.pendingMove = move
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() engine.Move {
	h.pending = false
	return h.pendingMove
}
