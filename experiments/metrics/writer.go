package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	AgentMCTS   = "mcts"
	AgentRandom = "random"
)

// AgentConfig describes one contestant of an experiment.
type AgentConfig struct {
	ID          int     `yaml:"id"`
	Kind        string  `yaml:"kind"` // AgentMCTS or AgentRandom
	Iterations  int     `yaml:"iterations"`
	Exploration float64 `yaml:"exploration"`
	TieBreak    string  `yaml:"tie_break"`
	Temperature float64 `yaml:"temperature"` // 0 plays the most visited move
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	First  int // AgentConfig.ID of the agent playing PlayerA
	Winner int // AgentConfig.ID, 0 for a draw
	GameMetric
}

type MoveRecord struct {
	Game  int // GameRecord.ID
	Agent int // AgentConfig.ID
	MoveMetric
}

type ThroughputRecord struct {
	Agent     int // AgentConfig.ID
	Searches  int
	Duration  time.Duration
	PerSecond float64 // Iterations per second
}

// Writer stores experiment results as CSV files under
// <dir>/<name>/<run id>.
type Writer struct {
	runID   string
	baseDir string
}

func NewWriter(dir, name string) (*Writer, error) {
	runID := uuid.New().String()
	baseDir := filepath.Join(dir, name, runID)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		runID:   runID,
		baseDir: baseDir,
	}, nil
}

func (w *Writer) RunID() string   { return w.runID }
func (w *Writer) BaseDir() string { return w.baseDir }

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"run_id", "id", "kind", "iterations", "exploration", "tie_break", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Iterations),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			config.TieBreak,
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"run_id", "id", "agent1", "agent2", "first", "winner", "outcome", "total_moves",
		"start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.First),
			strconv.Itoa(record.Winner),
			record.Outcome.String(),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"run_id", "game", "step", "agent", "player", "move", "iterations", "duration",
		"expansions", "playouts", "shortcuts", "tree_size", "max_depth"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Agent),
			record.Player.String(),
			strconv.Itoa(record.Move),
			strconv.Itoa(record.Iterations),
			record.Duration.String(),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Playouts),
			strconv.Itoa(record.Shortcuts),
			strconv.Itoa(record.TreeSize),
			strconv.Itoa(record.MaxDepth),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := []string{"run_id", "agent", "searches", "duration", "iterations_per_second"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Searches),
			record.Duration.String(),
			strconv.FormatFloat(record.PerSecond, 'f', 1, 64),
		})
	}
	return w.write("throughput.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
