package engine

// Player is the content of a cell and the identity of a side.
type Player int8

const (
	PlayerNone Player = iota
	PlayerX
	PlayerO
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return PlayerNone
	}
}

func (p Player) Valid() bool {
	return p == PlayerX || p == PlayerO
}

func (p Player) String() string {
	switch p {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "."
	}
}

// ParsePlayer accepts "X"/"x"/"1" and "O"/"o"/"2".
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "X", "x", "1":
		return PlayerX, nil
	case "O", "o", "2":
		return PlayerO, nil
	default:
		return PlayerNone, ErrInvalidPlayer
	}
}
