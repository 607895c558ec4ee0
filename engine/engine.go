package engine

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

// MaxRetries bounds how often an agent is asked again after proposing an
// illegal column.
const MaxRetries = 3

type Engine interface {
	// Run plays the game until a player wins or the board fills up
	Run() (outcome game.Outcome, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
