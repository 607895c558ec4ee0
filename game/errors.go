package game

import "errors"

var (
	// ErrConfiguration reports bad construction parameters.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidMove reports a column that cannot take a token.
	ErrInvalidMove = errors.New("invalid move")
	// ErrGameOver reports a move attempted on a terminal state.
	ErrGameOver = errors.New("game is already over")
)

var (
	ErrNoMovesToUndo = errors.New("no moves to undo")
	ErrInvalidUndo   = errors.New("invalid undo move")
)
