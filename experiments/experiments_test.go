package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/stretchr/testify/require"
)

func smallExperiment(t *testing.T) Experiment {
	t.Helper()
	board, err := game.New(4, 5, 3, ".", "X", "O")
	require.NoError(t, err)
	return Experiment{
		Name:  "test",
		Games: 4,
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: metrics.AgentRandom},
			{ID: 2, Kind: metrics.AgentMCTS, Iterations: 30},
		},
		MatchUps: [][2]int{{1, 2}},
		Board:    board,
		Seed:     11,
	}
}

func TestRun(t *testing.T) {
	t.Run("alternating the first mover within a matchup", func(t *testing.T) {
		summary, err := Run(smallExperiment(t))
		require.NoError(t, err)

		require.Len(t, summary.GameRecords, 4)
		for i, record := range summary.GameRecords {
			require.Equal(t, i+1, record.ID)
			require.Equal(t, 1, record.Agent1)
			require.Equal(t, 2, record.Agent2)
			if i%2 == 0 {
				require.Equal(t, 1, record.First)
			} else {
				require.Equal(t, 2, record.First)
			}
			require.True(t, record.Outcome.IsTerminal())
		}

		require.Len(t, summary.MatchUps, 1)
		m := summary.MatchUps[0]
		require.Equal(t, 4, m.Wins1+m.Wins2+m.Draws)
		require.Empty(t, summary.RunID, "Nothing should be stored without an output directory")
	})

	t.Run("attributing moves to agents", func(t *testing.T) {
		summary, err := Run(smallExperiment(t))
		require.NoError(t, err)

		for _, move := range summary.MoveRecords {
			record := summary.GameRecords[move.Game-1]
			if move.Player == game.PlayerA {
				require.Equal(t, record.First, move.Agent)
			} else {
				require.NotEqual(t, record.First, move.Agent)
			}
			if move.Agent == 2 {
				require.Equal(t, 30, move.Iterations)
			}
		}
	})

	t.Run("leaving the template board untouched", func(t *testing.T) {
		e := smallExperiment(t)
		_, err := Run(e)
		require.NoError(t, err)
		require.Zero(t, e.Board.Occupied())
	})

	t.Run("storing records as CSV", func(t *testing.T) {
		e := smallExperiment(t)
		e.OutputDir = t.TempDir()

		summary, err := Run(e)
		require.NoError(t, err)

		require.NotEmpty(t, summary.RunID)
		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(e.OutputDir, "test", summary.RunID, name))
			require.NoError(t, err, "%s should be written", name)
		}
	})

	t.Run("rejecting an unknown agent in a matchup", func(t *testing.T) {
		e := smallExperiment(t)
		e.MatchUps = [][2]int{{1, 3}}
		_, err := Run(e)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("rejecting duplicate agent ids", func(t *testing.T) {
		e := smallExperiment(t)
		e.Agents = append(e.Agents, metrics.AgentConfig{ID: 2, Kind: metrics.AgentRandom})
		_, err := Run(e)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("rejecting a non-positive number of games", func(t *testing.T) {
		e := smallExperiment(t)
		e.Games = 0
		_, err := Run(e)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})
}

func TestNewAgent(t *testing.T) {
	t.Run("rejecting an unknown kind", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{ID: 1, Kind: "oracle"}, 1)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("rejecting an unknown tie break", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{ID: 1, Kind: metrics.AgentMCTS, TieBreak: "coin"}, 1)
		require.ErrorIs(t, err, game.ErrConfiguration)
	})

	t.Run("building a sampling agent for a positive temperature", func(t *testing.T) {
		a, err := NewAgent(metrics.AgentConfig{ID: 1, Kind: metrics.AgentMCTS, Iterations: 20, Temperature: 1}, 1)
		require.NoError(t, err)

		state := game.NewStandard()
		move, _, err := a.FindMove(state)
		require.NoError(t, err)
		require.True(t, state.IsLegal(move))
	})
}

func TestPresets(t *testing.T) {
	for _, e := range []Experiment{Exploration(100), Iterations()} {
		_, err := e.validate()
		require.NoError(t, err, "%s preset should be valid", e.Name)
		require.Len(t, e.MatchUps, len(e.Agents)-1, "Every agent should meet the baseline")
	}
}

func TestThroughput(t *testing.T) {
	e := smallExperiment(t)
	e.OutputDir = t.TempDir()

	records, err := Throughput(e, 2)

	require.NoError(t, err)
	require.Len(t, records, 1, "Random agents should be skipped")
	require.Equal(t, 2, records[0].Agent)
	require.Equal(t, 2, records[0].Searches)

	_, err = Throughput(e, 0)
	require.ErrorIs(t, err, game.ErrConfiguration)
}
