// Package config loads run settings from an optional YAML file on top of
// the defaults in meta.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"
	"connect4/searcher"

	"gopkg.in/yaml.v3"
)

const (
	ModePlay       = "play"       // Human against the searcher
	ModePvP        = "pvp"        // Two humans at one console
	ModeSelfPlay   = "selfplay"   // Searcher against itself
	ModeExperiment = "experiment" // Arena matchups written as CSV
	ModeThroughput = "throughput" // Search speed per agent
)

type Board struct {
	Rows          int    `yaml:"rows"`
	Columns       int    `yaml:"columns"`
	WinningLength int    `yaml:"winning_length"`
	Empty         string `yaml:"empty"`
	MarkA         string `yaml:"mark_a"`
	MarkB         string `yaml:"mark_b"`
}

type Search struct {
	Iterations  int     `yaml:"iterations"`
	Exploration float64 `yaml:"exploration"`
	TieBreak    string  `yaml:"tie_break"`
	Seed        uint64  `yaml:"seed"` // 0 seeds from the clock
	Verbose     bool    `yaml:"verbose"`
}

type Experiment struct {
	Name     string                `yaml:"name"` // exploration, iterations or custom
	Games    int                   `yaml:"games"`
	Output   string                `yaml:"output"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	MatchUps [][2]int              `yaml:"matchups"`
}

type Config struct {
	Mode       string     `yaml:"mode"`
	HumanFirst bool       `yaml:"human_first"`
	Board      Board      `yaml:"board"`
	Search     Search     `yaml:"search"`
	Experiment Experiment `yaml:"experiment"`
}

func Default() Config {
	return Config{
		Mode:       ModePlay,
		HumanFirst: true,
		Board: Board{
			Rows:          meta.ROWS,
			Columns:       meta.COLUMNS,
			WinningLength: meta.WINNING_LENGTH,
			Empty:         meta.EMPTY,
			MarkA:         meta.MARK_A,
			MarkB:         meta.MARK_B,
		},
		Search: Search{
			Iterations:  meta.ITERATIONS,
			Exploration: meta.EXPLORATION,
			TieBreak:    searcher.TieBreakFirst.String(),
		},
		Experiment: Experiment{
			Name:   "exploration",
			Games:  meta.GAMES,
			Output: meta.OUTPUT_DIR,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: failed to parse %s: %v", game.ErrConfiguration, path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModePlay, ModePvP, ModeSelfPlay, ModeExperiment, ModeThroughput:
	default:
		return fmt.Errorf("%w: unknown mode %q", game.ErrConfiguration, c.Mode)
	}
	if _, err := c.NewState(); err != nil {
		return err
	}
	if _, err := c.NewMCTS(); err != nil {
		return err
	}
	if c.Experiment.Games <= 0 {
		return fmt.Errorf("%w: games per matchup must be positive, got %d", game.ErrConfiguration, c.Experiment.Games)
	}
	return nil
}

func (c Config) NewState() (*game.State, error) {
	b := c.Board
	return game.New(b.Rows, b.Columns, b.WinningLength, b.Empty, b.MarkA, b.MarkB)
}

// NewMCTS builds a searcher from the search settings. Extra options are
// applied last.
func (c Config) NewMCTS(options ...searcher.Option) (*searcher.MCTS, error) {
	tieBreak, err := searcher.ParseTieBreak(c.Search.TieBreak)
	if err != nil {
		return nil, err
	}
	base := []searcher.Option{
		searcher.WithIterations(c.Search.Iterations),
		searcher.WithExploration(c.Search.Exploration),
		searcher.WithTieBreak(tieBreak),
	}
	if c.Search.Seed != 0 {
		base = append(base, searcher.WithSeed(c.Search.Seed))
	}
	return searcher.NewMCTS(append(base, options...)...)
}
