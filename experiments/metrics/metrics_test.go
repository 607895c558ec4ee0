package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connect4/game"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollector(t *testing.T) {
	t.Run("counting search events", func(t *testing.T) {
		c := NewCollector()
		c.Start(10, 1.5)
		c.AddExpansion()
		c.AddExpansion()
		c.AddPlayout()
		c.AddShortcut()
		c.ObserveDepth(3)
		c.ObserveDepth(1)

		m := c.Complete(15)

		require.Equal(t, 10, m.Iterations)
		require.Equal(t, 1.5, m.Exploration)
		require.Equal(t, 2, m.Expansions)
		require.Equal(t, 1, m.Playouts)
		require.Equal(t, 1, m.Shortcuts)
		require.Equal(t, 3, m.MaxDepth)
		require.Equal(t, 15, m.TreeSize)
	})

	t.Run("resetting on every start", func(t *testing.T) {
		c := NewCollector()
		c.Start(10, 1)
		c.AddPlayout()
		c.Start(20, 1)

		require.Zero(t, c.Complete(1).Playouts)
	})

	t.Run("collecting nothing with the dummy", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(10, 1)
		c.AddPlayout()

		require.Equal(t, SearchMetric{}, c.Complete(5))
	})
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "exploration")
	require.NoError(t, err)

	t.Run("placing results under a run identifier", func(t *testing.T) {
		_, err := uuid.Parse(w.RunID())
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "exploration", w.RunID()), w.BaseDir())
	})

	t.Run("writing agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{
			{ID: 1, Kind: AgentMCTS, Iterations: 100, Exploration: 1.5, TieBreak: "first"},
			{ID: 2, Kind: AgentRandom},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.BaseDir(), "agent_configs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{w.RunID(), "1", "mcts", "100", "1.5", "first", "0"}, rows[1])
	})

	t.Run("writing game records", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{{
			ID: 1, Agent1: 1, Agent2: 2, First: 2, Winner: 0,
			GameMetric: GameMetric{
				StartingPlayer: game.PlayerA,
				Outcome:        game.Draw,
				StartTime:      start,
				EndTime:        start.Add(time.Second),
				Duration:       time.Second,
				TotalMoves:     42,
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.BaseDir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "first", rows[0][4])
		require.Equal(t, game.Draw.String(), rows[1][6])
		require.Equal(t, "42", rows[1][7])
		require.Equal(t, "2024-01-02T03:04:05Z", rows[1][8])
	})

	t.Run("writing move records", func(t *testing.T) {
		err := w.WriteMoveRecords([]MoveRecord{{
			Game:  1,
			Agent: 2,
			MoveMetric: MoveMetric{
				Step: 1, Player: game.PlayerA, Move: 3,
				SearchMetric: SearchMetric{Iterations: 100, Playouts: 90, Shortcuts: 10},
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.BaseDir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "3", rows[1][5])
		require.Equal(t, "90", rows[1][9])
	})

	t.Run("writing throughput records", func(t *testing.T) {
		err := w.WriteThroughputRecords([]ThroughputRecord{{Agent: 1, Searches: 5, Duration: time.Second, PerSecond: 500}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.BaseDir(), "throughput.csv"))
		require.Equal(t, "500.0", rows[1][4])
	})
}
