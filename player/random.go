package player

import (
	"fmt"

	"connect4/experiments/metrics"
	"connect4/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal column. It serves as the weakest
// baseline in experiments.
type Random struct {
	rand *rand.Rand
}

func NewRandom(r *rand.Rand) *Random {
	return &Random{rand: r}
}

func (p *Random) FindMove(state *game.State) (int, metrics.SearchMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 || state.Outcome().IsTerminal() {
		return -1, metrics.SearchMetric{}, fmt.Errorf("%w: no legal move", game.ErrGameOver)
	}
	return moves[p.rand.Intn(len(moves))], metrics.SearchMetric{}, nil
}
