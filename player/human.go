package player

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect4/experiments/metrics"
	"connect4/game"
)

// Human reads columns from a console. Illegal or unreadable input is
// reported and asked for again, so FindMove only returns a legal column or
// an input error.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

func (h *Human) FindMove(state *game.State) (int, metrics.SearchMetric, error) {
	for {
		fmt.Fprintf(h.out, "Player %s, choose a column (0-%d): ", state.Token(state.Turn()), state.Columns()-1)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return -1, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
			}
			return -1, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", io.ErrUnexpectedEOF)
		}

		line := strings.TrimSpace(h.in.Text())
		column, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(h.out, "%q is not a column number.\n", line)
			continue
		}
		if !state.IsLegal(column) {
			fmt.Fprintf(h.out, "Column %d is not playable.\n", column)
			continue
		}
		return column, metrics.SearchMetric{}, nil
	}
}
