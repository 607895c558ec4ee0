package agent

import (
	"fmt"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"
)

type evaluationAgent struct {
	mcts   *searcher.MCTS
	report func(searcher.Result)
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

// NewReportingAgent plays like the evaluation agent and hands every search
// result to report before returning the move.
func NewReportingAgent(mcts *searcher.MCTS, report func(searcher.Result)) Agent {
	return evaluationAgent{mcts: mcts, report: report}
}

func (a evaluationAgent) FindMove(state *game.State) (int, metrics.SearchMetric, error) {
	result, err := a.mcts.FindBestMove(state)
	if err != nil {
		return searcher.NoMove, metrics.SearchMetric{}, err
	}
	if a.report != nil {
		a.report(result)
	}
	if result.Move == searcher.NoMove {
		return searcher.NoMove, result.Metric, fmt.Errorf("%w: no legal move to search", game.ErrGameOver)
	}
	return result.Move, result.Metric, nil
}
