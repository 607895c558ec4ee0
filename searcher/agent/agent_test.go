package agent

import (
	"testing"

	"connect4/game"
	"connect4/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newMCTS(t *testing.T, iterations int) *searcher.MCTS {
	t.Helper()
	m, err := searcher.NewMCTS(searcher.WithIterations(iterations), searcher.WithSeed(1))
	require.NoError(t, err)
	return m
}

func TestEvaluationAgent(t *testing.T) {
	t.Run("returning a legal move", func(t *testing.T) {
		state := game.NewStandard()
		move, _, err := NewEvaluationAgent(newMCTS(t, 100)).FindMove(state)

		require.NoError(t, err)
		require.True(t, state.IsLegal(move))
	})

	t.Run("reporting the search result", func(t *testing.T) {
		var reported []searcher.Result
		a := NewReportingAgent(newMCTS(t, 50), func(r searcher.Result) {
			reported = append(reported, r)
		})

		move, _, err := a.FindMove(game.NewStandard())

		require.NoError(t, err)
		require.Len(t, reported, 1)
		require.Equal(t, reported[0].Move, move)
		require.Equal(t, 50, reported[0].Root.Visits)
	})

	t.Run("refusing a finished game", func(t *testing.T) {
		state := game.NewStandard()
		for _, move := range []int{0, 0, 1, 1, 2, 2, 3} {
			_, err := state.Play(move)
			require.NoError(t, err)
		}

		move, _, err := NewEvaluationAgent(newMCTS(t, 10)).FindMove(state)

		require.ErrorIs(t, err, game.ErrGameOver)
		require.Equal(t, searcher.NoMove, move)
	})
}

func TestTrainingAgent(t *testing.T) {
	t.Run("rejecting a non-positive temperature", func(t *testing.T) {
		_, err := NewTrainingAgent(newMCTS(t, 10), 0, rand.New(rand.NewSource(1)))
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("rejecting a missing random source", func(t *testing.T) {
		_, err := NewTrainingAgent(newMCTS(t, 10), 1, nil)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("sampling a legal move", func(t *testing.T) {
		a, err := NewTrainingAgent(newMCTS(t, 100), 1, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		state := game.NewStandard()

		for i := 0; i < 5; i++ {
			move, _, err := a.FindMove(state)
			require.NoError(t, err)
			require.True(t, state.IsLegal(move))
		}
	})
}

func TestAdjustTemperature(t *testing.T) {
	children := []searcher.NodeStats{{Move: 0, Visits: 1}, {Move: 3, Visits: 3}}

	t.Run("normalising visits at temperature one", func(t *testing.T) {
		moves, probs := adjustTemperature(children, 1)
		require.Equal(t, []int{0, 3}, moves)
		require.InDelta(t, 0.25, probs[0], 1e-9)
		require.InDelta(t, 0.75, probs[1], 1e-9)
	})

	t.Run("sharpening at low temperature", func(t *testing.T) {
		_, probs := adjustTemperature(children, 0.5)
		require.InDelta(t, 0.1, probs[0], 1e-9)
		require.InDelta(t, 0.9, probs[1], 1e-9)
	})

	t.Run("leaving unvisited roots without a distribution", func(t *testing.T) {
		_, probs := adjustTemperature([]searcher.NodeStats{{Move: 2}}, 1)
		require.Nil(t, probs)
	})
}

func TestSample(t *testing.T) {
	moves := []int{1, 4, 6}
	probs := []float64{0.2, 0, 0.8}

	move, ok := sample(moves, probs, 0.1)
	require.True(t, ok)
	require.Equal(t, 1, move)

	move, _ = sample(moves, probs, 0.5)
	require.Equal(t, 6, move, "Zero probability moves should never be sampled")

	move, _ = sample(moves, probs, 0.9999999999)
	require.Equal(t, 6, move)

	_, ok = sample(nil, nil, 0.5)
	require.False(t, ok)
}
