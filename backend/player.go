package main

import "github.com/tranquocphongvn/caro/engine"

type IPlayer interface {
	IsHuman() bool
	ChooseMove(state GameState) (engine.Decision, error)
}
