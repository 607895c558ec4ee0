package searcher

import (
	"errors"
	"fmt"
	"math"

	"connect4/game"
)

// Hyperparameters for MCTS

// DefaultExploration is the canonical UCB1 exploration constant.
var DefaultExploration = math.Sqrt2

const DefaultIterations = 1000

// TieBreak decides between root children with the same visit count.
type TieBreak int

const (
	// TieBreakFirst keeps the first child in ascending move order.
	TieBreakFirst TieBreak = iota
	// TieBreakWinRate prefers the higher win rate, then the first child.
	TieBreakWinRate
)

func (tb TieBreak) String() string {
	switch tb {
	case TieBreakFirst:
		return "first"
	case TieBreakWinRate:
		return "win-rate"
	default:
		return fmt.Sprintf("TieBreak(%d)", int(tb))
	}
}

// ParseTieBreak accepts the names produced by TieBreak.String.
func ParseTieBreak(name string) (TieBreak, error) {
	switch name {
	case "", "first":
		return TieBreakFirst, nil
	case "win-rate":
		return TieBreakWinRate, nil
	default:
		return TieBreakFirst, fmt.Errorf("%w: unknown tie break %q", game.ErrConfiguration, name)
	}
}

// ErrInvariant marks a search aborted because the tree and the game rules
// disagree. It indicates a bug, not bad input.
var ErrInvariant = errors.New("search invariant violated")

type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return ErrInvariant.Error() + ": " + e.Reason
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}

// ucb1 = wins/visits + c*sqrt(ln(parentVisits)/visits)
func ucb1(wins, visits, parentVisits int, c float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return float64(wins)/float64(visits) + c*math.Sqrt(math.Log(float64(parentVisits))/float64(visits))
}

// selectChild returns the child of id with the highest UCB1 score. Ties keep
// the first child.
func (t *tree) selectChild(id int, c float64) int {
	parent := t.at(id)
	if len(parent.children) == 0 {
		panic(invariantf("selection reached node for move %d without children", parent.move))
	}

	parentVisits := parent.visits()
	best := -1
	bestScore := math.Inf(-1)
	for _, childID := range parent.children {
		child := t.at(childID)
		score := ucb1(child.wins, child.visits(), parentVisits, c)
		if score == math.Inf(1) {
			return childID
		}
		if best == -1 || score > bestScore {
			best = childID
			bestScore = score
		}
	}
	return best
}

// mostVisited returns the index into the root's children of the most
// visited child, or -1 when no child has been visited.
func (t *tree) mostVisited(policy TieBreak) int {
	root := t.root()
	best := -1
	for i, childID := range root.children {
		child := t.at(childID)
		if child.visits() == 0 {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		incumbent := t.at(root.children[best])
		switch {
		case child.visits() > incumbent.visits():
			best = i
		case child.visits() == incumbent.visits() && policy == TieBreakWinRate &&
			child.winRate() > incumbent.winRate():
			best = i
		}
	}
	return best
}
