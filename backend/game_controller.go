package main

import (
	"sync"

	"github.com/tranquocphongvn/caro/engine"
)

type GameController struct {
	mu   sync.Mutex
	game Game
}

func NewGameController(settings GameSettings, config Config) *GameController {
	return &GameController{game: NewGame(settings, config)}
}

func (gc *GameController) OnCellClicked(row, col int) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	_ = gc.game.SubmitHumanMove(engine.Move{Row: row, Col: col})
}

func (gc *GameController) ApplyHumanMove(move engine.Move) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(move, engine.StageNone)
}

func (gc *GameController) Undo() (int, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Undo()
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History().Last()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// UpdateSettings swaps player types. Without reset the board and history
// are kept and the game continues.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset || update.BoardSize != gc.game.settings.BoardSize {
		gc.game.Reset(update)
		return
	}
	gc.game.stopThinking()
	gc.game.settings = update
	gc.game.createPlayers()
}

func (gc *GameController) ApplyConfig(config Config) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.ApplyConfig(config)
}
