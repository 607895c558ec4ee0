package searcher

import (
	"fmt"
	"strings"

	"connect4/experiments/metrics"
)

// NodeStats is a read-only snapshot of a tree node's counters.
type NodeStats struct {
	Move     int
	Wins     int
	Losses   int
	Draws    int
	Visits   int
	WinRate  float64
	Value    float64 // UCB1 score against the parent, 0 for the root
	Children int
}

func statsOf(n *node, parentVisits int, c float64) NodeStats {
	stats := NodeStats{
		Move:     n.move,
		Wins:     n.wins,
		Losses:   n.losses,
		Draws:    n.draws,
		Visits:   n.visits(),
		WinRate:  n.winRate(),
		Children: len(n.children),
	}
	if n.parent != noParent {
		stats.Value = ucb1(n.wins, n.visits(), parentVisits, c)
	}
	return stats
}

func (s NodeStats) String() string {
	return fmt.Sprintf("Move: %d, Wins: %d, Losses: %d, Draws: %d, Visits: %d, WinRate: %.3f, Children: %d, Value: %.3f",
		s.Move, s.Wins, s.Losses, s.Draws, s.Visits, s.WinRate, s.Children, s.Value)
}

// Result is the outcome of one search. Move is NoMove when the root position
// had no legal move.
type Result struct {
	Move     int
	Index    int // Position of Move among Children, -1 without a move
	Root     NodeStats
	Children []NodeStats // In ascending move order
	Metric   metrics.SearchMetric
}

// Policy maps each root move to its share of the root children's visits.
func (r Result) Policy() map[int]float64 {
	total := 0
	for _, child := range r.Children {
		total += child.Visits
	}
	policy := make(map[int]float64, len(r.Children))
	for _, child := range r.Children {
		if total > 0 {
			policy[child.Move] = float64(child.Visits) / float64(total)
		} else {
			policy[child.Move] = 0
		}
	}
	return policy
}

func (r Result) String() string {
	var sb strings.Builder
	sb.WriteString("Root: ")
	sb.WriteString(r.Root.String())
	sb.WriteString("\nRoot's children:\n")
	for i, child := range r.Children {
		fmt.Fprintf(&sb, "%d: %s\n", i, child)
	}
	fmt.Fprintf(&sb, "Optimal Move: %d, Optimal Move Node Index: %d", r.Move, r.Index)
	return sb.String()
}
