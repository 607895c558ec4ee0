package agent

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

type Agent interface {
	// FindMove returns the chosen column and the search metrics (if collected)
	FindMove(state *game.State) (int, metrics.SearchMetric, error)
}
