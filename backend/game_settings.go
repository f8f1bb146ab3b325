package main

import (
	"fmt"

	"github.com/tranquocphongvn/caro/engine"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

const (
	ModeHumanVsAI    = "pve"
	ModeHumanVsHuman = "pvp"
	ModeAIVsAI       = "eve"
)

// GameSettings describes who plays which side. X always moves first.
type GameSettings struct {
	BoardSize int        `json:"board_size"`
	XType     PlayerType `json:"-"`
	OType     PlayerType `json:"-"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize: engine.DefaultBoardSize,
		XType:     PlayerHuman,
		OType:     PlayerAI,
	}
}

func (s GameSettings) Validate() error {
	if s.BoardSize < engine.MinBoardSize || s.BoardSize > engine.MaxBoardSize {
		return &engine.BoardSizeError{Size: s.BoardSize}
	}
	return nil
}

func (s GameSettings) TypeFor(p engine.Player) PlayerType {
	if p == engine.PlayerX {
		return s.XType
	}
	return s.OType
}

func (s GameSettings) Mode() string {
	switch {
	case s.XType == PlayerAI && s.OType == PlayerAI:
		return ModeAIVsAI
	case s.XType == PlayerHuman && s.OType == PlayerHuman:
		return ModeHumanVsHuman
	default:
		return ModeHumanVsAI
	}
}

// HumanPlayer is the side a human plays in pve, PlayerNone otherwise.
func (s GameSettings) HumanPlayer() engine.Player {
	if s.Mode() != ModeHumanVsAI {
		return engine.PlayerNone
	}
	if s.XType == PlayerHuman {
		return engine.PlayerX
	}
	return engine.PlayerO
}

// withMode applies a mode and the human side to base. humanPlayer is only
// read in pve and defaults to X.
func (s GameSettings) withMode(mode string, humanPlayer engine.Player) (GameSettings, error) {
	settings := s
	switch mode {
	case ModeAIVsAI:
		settings.XType, settings.OType = PlayerAI, PlayerAI
	case ModeHumanVsHuman:
		settings.XType, settings.OType = PlayerHuman, PlayerHuman
	case ModeHumanVsAI, "":
		if humanPlayer == engine.PlayerO {
			settings.XType, settings.OType = PlayerAI, PlayerHuman
		} else {
			settings.XType, settings.OType = PlayerHuman, PlayerAI
		}
	default:
		return s, fmt.Errorf("unknown mode %q", mode)
	}
	return settings, nil
}
