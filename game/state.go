package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	StandardRows          = 6
	StandardColumns       = 7
	StandardWinningLength = 4
)

// axes are the four line directions checked for a win: horizontal, vertical
// and both diagonals. The opposite direction is walked by negating the step.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// State is a Connect-Four position on a rows x columns grid. Row 0 is the top
// row; tokens fall towards the highest row index. A State is only changed by
// Play and Undo, use Clone before handing it to code that may play on it.
type State struct {
	rows          int
	columns       int
	winningLength int

	empty string // Display tokens, stored for rendering and equality only
	markA string
	markB string

	cells          []Player // Row-major, rows*columns
	remainingMoves int
	turn           Player
	outcome        Outcome
}

// New creates an empty board with player A to move.
func New(rows, columns, winningLength int, empty, markA, markB string) (*State, error) {
	if winningLength < 2 {
		return nil, fmt.Errorf("%w: winning length %d must be at least 2", ErrConfiguration, winningLength)
	}
	if rows < winningLength || columns < winningLength {
		return nil, fmt.Errorf("%w: %dx%d board is smaller than winning length %d",
			ErrConfiguration, rows, columns, winningLength)
	}

	return &State{
		rows:           rows,
		columns:        columns,
		winningLength:  winningLength,
		empty:          empty,
		markA:          markA,
		markB:          markB,
		cells:          make([]Player, rows*columns),
		remainingMoves: rows * columns,
		turn:           PlayerA,
		outcome:        InProgress,
	}, nil
}

// NewStandard creates the classic 6x7 board with four in a row to win.
func NewStandard() *State {
	s, err := New(StandardRows, StandardColumns, StandardWinningLength, ".", "X", "O")
	if err != nil {
		panic(err)
	}
	return s
}

// Clone returns a deep copy that shares no cells with s.
func (s *State) Clone() *State {
	clone := *s
	clone.cells = slices.Clone(s.cells)
	return &clone
}

// CloneSwapped returns a deep copy with the other player to move.
func (s *State) CloneSwapped() *State {
	clone := s.Clone()
	clone.turn = clone.turn.Opponent()
	return clone
}

func (s *State) Rows() int           { return s.rows }
func (s *State) Columns() int        { return s.columns }
func (s *State) WinningLength() int  { return s.winningLength }
func (s *State) RemainingMoves() int { return s.remainingMoves }
func (s *State) Outcome() Outcome    { return s.outcome }

// Turn is the player to move. It is meaningless once the game has ended.
func (s *State) Turn() Player { return s.turn }

// At returns the occupant of a cell, or None when the cell is off the board.
func (s *State) At(row, column int) Player {
	if !s.onBoard(row, column) {
		return None
	}
	return s.cells[row*s.columns+column]
}

// Occupied counts the tokens on the board.
func (s *State) Occupied() int {
	return s.rows*s.columns - s.remainingMoves
}

func (s *State) Tokens() (empty, markA, markB string) {
	return s.empty, s.markA, s.markB
}

// Token returns the display token for a cell occupant.
func (s *State) Token(p Player) string {
	switch p {
	case PlayerA:
		return s.markA
	case PlayerB:
		return s.markB
	default:
		return s.empty
	}
}

// LegalMoves lists the columns whose top cell is empty, in ascending order.
func (s *State) LegalMoves() []int {
	moves := make([]int, 0, s.columns)
	for column := 0; column < s.columns; column++ {
		if s.cells[column] == None {
			moves = append(moves, column)
		}
	}
	return moves
}

func (s *State) IsLegal(column int) bool {
	return column >= 0 && column < s.columns && s.cells[column] == None
}

// Play drops the current player's token into column and returns the new
// outcome. The turn passes to the opponent only if the game continues.
func (s *State) Play(column int) (Outcome, error) {
	if s.outcome.IsTerminal() || s.remainingMoves < 1 {
		return s.outcome, fmt.Errorf("%w: %s", ErrGameOver, s.outcome)
	}
	if !s.IsLegal(column) {
		return s.outcome, fmt.Errorf("%w: column %d", ErrInvalidMove, column)
	}

	row := s.rows - 1
	for ; row >= 0; row-- {
		if s.cells[row*s.columns+column] == None {
			s.cells[row*s.columns+column] = s.turn
			break
		}
	}
	s.remainingMoves--

	switch {
	case s.wins(row, column, s.turn):
		s.outcome = winFor(s.turn)
	case s.remainingMoves < 1:
		s.outcome = Draw
	default:
		s.turn = s.turn.Opponent()
	}
	return s.outcome, nil
}

// Undo removes the topmost token of column and hands the turn back. It does
// not check that column held the last move played.
func (s *State) Undo(column int) error {
	if s.remainingMoves >= s.rows*s.columns {
		return ErrNoMovesToUndo
	}
	if column < 0 || column >= s.columns || s.cells[(s.rows-1)*s.columns+column] == None {
		return fmt.Errorf("%w: column %d", ErrInvalidUndo, column)
	}

	for row := 0; row < s.rows; row++ {
		if s.cells[row*s.columns+column] != None {
			s.cells[row*s.columns+column] = None
			break
		}
	}
	s.remainingMoves++
	// A finishing move never passed the turn, so the mover is still to play.
	if !s.outcome.IsTerminal() {
		s.turn = s.turn.Opponent()
	}
	s.outcome = InProgress
	return nil
}

// wins reports whether the token just placed at (row, column) completes a
// run of winningLength along any axis.
func (s *State) wins(row, column int, p Player) bool {
	for _, axis := range axes {
		count := 1 + s.run(row, column, axis[0], axis[1], p) + s.run(row, column, -axis[0], -axis[1], p)
		if count >= s.winningLength {
			return true
		}
	}
	return false
}

// run counts consecutive cells owned by p walking away from (row, column),
// not counting the start cell.
func (s *State) run(row, column, dRow, dColumn int, p Player) int {
	count := 0
	for i := 1; i < s.winningLength; i++ {
		r, c := row+i*dRow, column+i*dColumn
		if !s.onBoard(r, c) || s.cells[r*s.columns+c] != p {
			break
		}
		count++
	}
	return count
}

func (s *State) onBoard(row, column int) bool {
	return row >= 0 && row < s.rows && column >= 0 && column < s.columns
}

// Equal reports whether both states have the same dimensions, tokens, grid,
// turn and outcome.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.rows == other.rows &&
		s.columns == other.columns &&
		s.winningLength == other.winningLength &&
		s.empty == other.empty &&
		s.markA == other.markA &&
		s.markB == other.markB &&
		s.remainingMoves == other.remainingMoves &&
		s.turn == other.turn &&
		s.outcome == other.outcome &&
		slices.Equal(s.cells, other.cells)
}

// String dumps the grid top to bottom under a header of column indices.
func (s *State) String() string {
	var sb strings.Builder
	for column := 0; column < s.columns; column++ {
		sb.WriteString(strconv.Itoa(column))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for row := 0; row < s.rows; row++ {
		for column := 0; column < s.columns; column++ {
			sb.WriteString(s.Token(s.cells[row*s.columns+column]))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
