// Package display renders boards and search diagnostics for a terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect4/game"
	"connect4/searcher"

	"github.com/muesli/termenv"
)

// Renderer colors the two players' tokens. With the Ascii profile its board
// is identical to game.State.String.
type Renderer struct {
	out    *termenv.Output
	colors map[game.Player]termenv.Color
}

func NewRenderer(w io.Writer, profile termenv.Profile) *Renderer {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	return &Renderer{
		out: out,
		colors: map[game.Player]termenv.Color{
			game.PlayerA: out.Color("1"),
			game.PlayerB: out.Color("3"),
		},
	}
}

func (r *Renderer) Board(state *game.State) string {
	var sb strings.Builder
	for column := 0; column < state.Columns(); column++ {
		sb.WriteString(r.out.String(strconv.Itoa(column)).Faint().String())
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for row := 0; row < state.Rows(); row++ {
		for column := 0; column < state.Columns(); column++ {
			sb.WriteString(r.token(state, state.At(row, column)))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Renderer) token(state *game.State, p game.Player) string {
	color, ok := r.colors[p]
	if !ok {
		return state.Token(p)
	}
	return r.out.String(state.Token(p)).Foreground(color).Bold().String()
}

// Outcome announces a finished game, or whose turn it is.
func (r *Renderer) Outcome(state *game.State) string {
	outcome := state.Outcome()
	switch outcome {
	case game.InProgress:
		return fmt.Sprintf("Player %s to move", r.token(state, state.Turn()))
	case game.Draw:
		return r.out.String("Draw").Bold().String()
	default:
		return fmt.Sprintf("Player %s wins", r.token(state, outcome.Winner()))
	}
}

// Diagnostics lists the root children of a search, highlighting the chosen
// move.
func (r *Renderer) Diagnostics(result searcher.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Root: %s\n", result.Root)
	for i, child := range result.Children {
		line := fmt.Sprintf("%d: %s", i, child)
		if i == result.Index {
			line = r.out.String(line).Bold().String()
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "Optimal Move: %d", result.Move)
	return sb.String()
}
