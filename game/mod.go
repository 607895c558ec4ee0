package game

import "fmt"

// Player identifies the occupant of a cell and whose turn it is.
type Player int

const (
	None Player = iota
	PlayerA
	PlayerB
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return None
	}
}

func (p Player) String() string {
	switch p {
	case None:
		return "none"
	case PlayerA:
		return "player A"
	case PlayerB:
		return "player B"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// Outcome is the result of the game so far. Once it leaves InProgress the
// state is terminal.
type Outcome int

const (
	InProgress Outcome = iota
	PlayerAWin
	PlayerBWin
	Draw
)

func (o Outcome) IsTerminal() bool {
	return o != InProgress
}

// Winner returns the winning player, or None for a draw or an unfinished game.
func (o Outcome) Winner() Player {
	switch o {
	case PlayerAWin:
		return PlayerA
	case PlayerBWin:
		return PlayerB
	default:
		return None
	}
}

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case PlayerAWin:
		return "player A wins"
	case PlayerBWin:
		return "player B wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func winFor(p Player) Outcome {
	if p == PlayerA {
		return PlayerAWin
	}
	return PlayerBWin
}
