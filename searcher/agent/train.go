package agent

import (
	"fmt"
	"math"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rand        *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. Moves
// are sampled from the root visit counts sharpened by 1/temperature.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, r *rand.Rand) (Agent, error) {
	if temperature <= 0 || math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return nil, fmt.Errorf("%w: temperature must be positive and finite, got %v", game.ErrConfiguration, temperature)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: training agent needs a random source", game.ErrConfiguration)
	}
	return trainingAgent{mcts: mcts, temperature: temperature, rand: r}, nil
}

func (a trainingAgent) FindMove(state *game.State) (int, metrics.SearchMetric, error) {
	result, err := a.mcts.FindBestMove(state)
	if err != nil {
		return searcher.NoMove, metrics.SearchMetric{}, err
	}
	if result.Move == searcher.NoMove {
		return searcher.NoMove, result.Metric, fmt.Errorf("%w: no legal move to search", game.ErrGameOver)
	}
	moves, probs := adjustTemperature(result.Children, a.temperature)
	if move, ok := sample(moves, probs, a.rand.Float64()); ok {
		return move, result.Metric, nil
	}
	return result.Move, result.Metric, nil
}

// adjustTemperature turns visit counts into probabilities in move order.
func adjustTemperature(children []searcher.NodeStats, temperature float64) ([]int, []float64) {
	exponent := 1.0 / temperature
	sum := 0.0
	moves := make([]int, len(children))
	probs := make([]float64, len(children))
	for i, child := range children {
		moves[i] = child.Move
		probs[i] = math.Pow(float64(child.Visits), exponent)
		sum += probs[i]
	}
	if sum == 0 || math.IsInf(sum, 0) {
		return moves, nil
	}
	for i := range probs {
		probs[i] /= sum
	}
	return moves, probs
}

func sample(moves []int, probs []float64, sampled float64) (int, bool) {
	if len(probs) == 0 {
		return searcher.NoMove, false
	}
	cumulative := 0.0
	last := searcher.NoMove
	for i, prob := range probs {
		if prob == 0 {
			continue
		}
		last = moves[i]
		cumulative += prob
		if sampled < cumulative {
			return moves[i], true
		}
	}
	return last, last != searcher.NoMove // Fallback in case of rounding errors
}
