package engine

import (
	"errors"
	"testing"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/player"
	"connect4/searcher"
	"connect4/searcher/agent"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// scripted replays a fixed list of columns.
type scripted struct {
	moves []int
	calls int
}

func (s *scripted) FindMove(state *game.State) (int, metrics.SearchMetric, error) {
	move := s.moves[s.calls%len(s.moves)]
	s.calls++
	return move, metrics.SearchMetric{}, nil
}

type failing struct{ err error }

func (f failing) FindMove(state *game.State) (int, metrics.SearchMetric, error) {
	return -1, metrics.SearchMetric{}, f.err
}

func TestNewLocalEngine(t *testing.T) {
	t.Run("rejecting a missing agent", func(t *testing.T) {
		_, err := NewLocalEngine(game.NewStandard(), &scripted{moves: []int{0}}, nil)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("rejecting a missing state", func(t *testing.T) {
		_, err := NewLocalEngine(nil, &scripted{moves: []int{0}}, &scripted{moves: []int{1}})
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("rejecting negative retries", func(t *testing.T) {
		_, err := NewLocalEngine(game.NewStandard(), &scripted{moves: []int{0}}, &scripted{moves: []int{1}},
			WithMaxRetries(-1))
		require.ErrorIs(t, err, game.ErrConfiguration)
	})
}

func TestRun(t *testing.T) {
	t.Run("alternating agents until a win", func(t *testing.T) {
		var observed []int
		e, err := NewLocalEngine(game.NewStandard(),
			&scripted{moves: []int{0, 1, 2, 3}},
			&scripted{moves: []int{0, 1, 2}},
			WithObserver(func(step int, p game.Player, move int, state *game.State) {
				observed = append(observed, move)
			}))
		require.NoError(t, err)

		outcome, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, game.PlayerAWin, outcome)
		require.Equal(t, []int{0, 0, 1, 1, 2, 2, 3}, observed)
		require.Equal(t, game.PlayerA, gameMetric.StartingPlayer)
		require.Equal(t, 7, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 7)
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			if i%2 == 0 {
				require.Equal(t, game.PlayerA, mm.Player)
			} else {
				require.Equal(t, game.PlayerB, mm.Player)
			}
		}
		require.False(t, gameMetric.EndTime.Before(gameMetric.StartTime))
	})

	t.Run("asking again after an illegal column", func(t *testing.T) {
		a := &scripted{moves: []int{7, 0}}
		e, err := NewLocalEngine(game.NewStandard(), a, &scripted{moves: []int{6}}, WithMaxRetries(1))
		require.NoError(t, err)

		outcome, _, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, game.PlayerAWin, outcome, "Player A stacks column 0")
		require.Len(t, moveMetrics, 7)
		require.Equal(t, 0, moveMetrics[0].Move, "Player A's second answer should be accepted")
		require.Equal(t, 8, a.calls, "Player A should be asked twice for each of its four moves")
	})

	t.Run("giving up after repeated illegal columns", func(t *testing.T) {
		e, err := NewLocalEngine(game.NewStandard(), &scripted{moves: []int{-1}}, &scripted{moves: []int{0}})
		require.NoError(t, err)

		_, _, _, err = e.Run()

		require.ErrorIs(t, err, game.ErrInvalidMove)
	})

	t.Run("propagating agent failures", func(t *testing.T) {
		boom := errors.New("boom")
		e, err := NewLocalEngine(game.NewStandard(), failing{err: boom}, &scripted{moves: []int{0}})
		require.NoError(t, err)

		outcome, _, _, err := e.Run()

		require.ErrorIs(t, err, boom)
		require.Equal(t, game.InProgress, outcome)
	})

	t.Run("playing a full game between search and random agents", func(t *testing.T) {
		mcts, err := searcher.NewMCTS(searcher.WithIterations(50), searcher.WithSeed(3), searcher.WithMetrics())
		require.NoError(t, err)
		e, err := NewLocalEngine(game.NewStandard(),
			agent.NewEvaluationAgent(mcts),
			player.NewRandom(rand.New(rand.NewSource(4))))
		require.NoError(t, err)

		outcome, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.True(t, outcome.IsTerminal())
		require.Equal(t, outcome, e.State().Outcome())
		require.Equal(t, 42-e.State().RemainingMoves(), gameMetric.TotalMoves)
		require.Equal(t, 50, moveMetrics[0].Iterations, "Search agent should report its metrics")
		require.Zero(t, moveMetrics[1].Iterations, "Random agent collects no search metrics")
	})
}
