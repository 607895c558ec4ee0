// meta/meta.go
package meta

import "math"

// ROWS defines the default board height.
const ROWS = 6

// COLUMNS defines the default board width.
const COLUMNS = 7

// WINNING_LENGTH defines how many aligned tokens win.
const WINNING_LENGTH = 4

// Display tokens for empty cells and both players.
const (
	EMPTY  = "."
	MARK_A = "X"
	MARK_B = "O"
)

// ITERATIONS defines the number of MCTS iterations per move.
const ITERATIONS = 1000

// EXPLORATION defines the UCB1 exploration constant.
var EXPLORATION = math.Sqrt2

// GAMES defines the number of games per experiment matchup.
const GAMES = 30

// OUTPUT_DIR defines where experiment records are stored.
const OUTPUT_DIR = "experiments"
