package main

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tranquocphongvn/caro/engine"
)

// AIPlayer runs the engine on a worker goroutine so the game loop never
// blocks on a decision. The resolver is only touched by one worker at a time.
type AIPlayer struct {
	moveMutex     sync.Mutex
	workerDone    chan struct{}
	thinking      atomic.Bool
	moveReady     atomic.Bool
	stopSignal    atomic.Bool
	readyDecision engine.Decision
	readyErr      error
	resolver      *engine.Resolver
	minThink      time.Duration
}

func NewAIPlayer(config Config) *AIPlayer {
	var rng *rand.Rand
	if config.AiSeed != 0 {
		rng = rand.New(rand.NewSource(config.AiSeed))
	}
	return &AIPlayer{
		resolver: engine.NewResolver(config.EngineConfig(), rng),
		minThink: time.Duration(config.AiMinThinkMs) * time.Millisecond,
	}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// ChooseMove decides synchronously. It must not run while a worker started
// by StartThinking is still busy.
func (a *AIPlayer) ChooseMove(state GameState) (engine.Decision, error) {
	return a.resolver.Decide(state.Board, state.ToMove)
}

func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	stateCopy := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		start := time.Now()
		decision, err := a.resolver.Decide(stateCopy.Board, stateCopy.ToMove)
		if wait := a.minThink - time.Since(start); wait > 0 && !a.stopSignal.Load() {
			time.Sleep(wait)
		}
		if err != nil && !a.stopSignal.Load() {
			log.Printf("[ai] no move for %s: %v", stateCopy.ToMove, err)
		}
		a.publish(decision, err)
		a.thinking.Store(false)
	}()
}

// publish stores a finished decision unless StopThinking ran first. The stop
// check and the ready flag share moveMutex with StopThinking.
func (a *AIPlayer) publish(decision engine.Decision, err error) bool {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	if a.stopSignal.Load() {
		a.moveReady.Store(false)
		return false
	}
	a.readyDecision = decision
	a.readyErr = err
	a.moveReady.Store(true)
	return true
}

// StopThinking discards the result of a running worker.
func (a *AIPlayer) StopThinking() {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.stopSignal.Store(true)
	a.moveReady.Store(false)
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() (engine.Decision, error) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyDecision, a.readyErr
}

// Wait blocks until the current worker, if any, has finished.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}
