package main

import (
	"errors"
	"log"
	"time"

	"github.com/tranquocphongvn/caro/engine"
)

var errNothingToUndo = errors.New("nothing to undo")

type Game struct {
	settings  GameSettings
	config    Config
	state     GameState
	history   MoveHistory
	xPlayer   IPlayer
	oPlayer   IPlayer
	turnStart time.Time
}

func NewGame(settings GameSettings, config Config) Game {
	g := Game{config: config}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopThinking()
	g.settings = settings
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays move for the side to move and settles the game status.
func (g *Game) TryApplyMove(move engine.Move, stage engine.Stage) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	mover := g.state.ToMove
	if err := g.state.Board.Place(move.Row, move.Col, mover); err != nil {
		g.state.LastMessage = "Illegal move: " + err.Error()
		return false, g.state.LastMessage
	}
	g.state.LastMessage = ""
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.WinningLine = nil

	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	g.history.Push(HistoryEntry{Move: move, Player: mover, ElapsedMs: elapsedMs, IsAi: isAiMove, Stage: stage})
	g.logMovePlayed(move, mover, elapsedMs, isAiMove, stage)

	if line, won := engine.CheckWin(g.state.Board, move.Row, move.Col, mover); won {
		g.state.Status = statusWonBy(mover)
		g.state.WinningLine = winningCells(line)
		g.logWin(mover, line)
		return true, ""
	}
	if g.state.Board.IsFull() {
		g.state.Status = StatusDraw
		log.Printf("[game] draw after %d moves", g.history.Size())
		return true, ""
	}
	g.state.ToMove = mover.Opponent()
	g.turnStart = time.Now()
	return true, ""
}

// Undo takes back the latest move. Against the AI it keeps going until the
// human is to move again, so one undo removes both the AI reply and the
// human move before it.
func (g *Game) Undo() (int, error) {
	if g.history.Size() == 0 {
		return 0, errNothingToUndo
	}
	g.stopThinking()
	removed := 0
	for {
		entry, ok := g.history.Pop()
		if !ok {
			break
		}
		g.state.Board.Remove(entry.Move.Row, entry.Move.Col)
		g.state.ToMove = entry.Player
		removed++
		if g.settings.Mode() != ModeHumanVsAI || g.settings.TypeFor(g.state.ToMove) == PlayerHuman {
			break
		}
	}
	g.state.Status = StatusRunning
	g.state.WinningLine = nil
	g.state.LastMessage = ""
	if last, ok := g.history.Last(); ok {
		g.state.LastMove = last.Move
		g.state.HasLastMove = true
	} else {
		g.state.LastMove = engine.Move{Row: -1, Col: -1}
		g.state.HasLastMove = false
	}
	g.turnStart = time.Now()
	log.Printf("[game] undo removed %d move(s), %s to move", removed, g.state.ToMove)
	return removed, nil
}

// Tick advances the game by at most one move and reports whether a move
// was applied.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			applied, _ := g.TryApplyMove(move, engine.StageNone)
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if ok {
		if ai.HasMoveReady() {
			decision, err := ai.TakeMove()
			if err != nil {
				g.state.LastMessage = "AI: " + err.Error()
				return false
			}
			applied, _ := g.TryApplyMove(decision.Move, decision.Stage)
			return applied
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state.Clone())
		}
		return false
	}
	decision, err := player.ChooseMove(g.state.Clone())
	if err != nil {
		return false
	}
	applied, _ := g.TryApplyMove(decision.Move, decision.Stage)
	return applied
}

func (g *Game) SubmitHumanMove(move engine.Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

// ApplyConfig rebuilds the AI players so the next decision uses config.
func (g *Game) ApplyConfig(config Config) {
	g.stopThinking()
	g.config = config
	g.createPlayers()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerFor(g.state.ToMove)
}

func (g *Game) playerFor(p engine.Player) IPlayer {
	if p == engine.PlayerX {
		return g.xPlayer
	}
	return g.oPlayer
}

func (g *Game) createPlayers() {
	g.xPlayer = g.newPlayer(g.settings.XType)
	g.oPlayer = g.newPlayer(g.settings.OType)
}

func (g *Game) newPlayer(t PlayerType) IPlayer {
	if t == PlayerHuman {
		return NewHumanPlayer()
	}
	return NewAIPlayer(g.config)
}

func (g *Game) stopThinking() {
	for _, player := range []IPlayer{g.xPlayer, g.oPlayer} {
		if ai, ok := player.(*AIPlayer); ok {
			ai.StopThinking()
		}
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("[game] new %dx%d game: X (%s) vs O (%s)", g.settings.BoardSize, g.settings.BoardSize,
		label(g.settings.XType), label(g.settings.OType))
}

func (g *Game) logMovePlayed(move engine.Move, p engine.Player, elapsedMs float64, isAiMove bool, stage engine.Stage) {
	if isAiMove {
		log.Printf("[game] #%d %s AI %s stage=%s %.0fms", g.history.Size(), p, move, stage, elapsedMs)
		return
	}
	log.Printf("[game] #%d %s %s %.0fms", g.history.Size(), p, move, elapsedMs)
}

func (g *Game) logWin(p engine.Player, line engine.WinLine) {
	log.Printf("[game] %s wins along %s from %s", p, line.Direction, line.Cells[0])
}
