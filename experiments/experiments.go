package experiments

import (
	"fmt"
	"math"
	"time"

	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/player"
	"connect4/searcher"
	"connect4/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const NumGames = 30 // Per match up

// Experiment pits agents against each other. Within a matchup the agent
// playing first alternates from game to game.
type Experiment struct {
	Name      string
	Games     int
	Agents    []metrics.AgentConfig
	MatchUps  [][2]int // Pairs of AgentConfig.ID
	Board     *game.State
	Seed      uint64 // 0 seeds from the clock
	OutputDir string // Empty skips writing records
}

type MatchUpSummary struct {
	Agent1, Agent2 int
	Wins1, Wins2   int
	Draws          int
}

type Summary struct {
	RunID       string
	MatchUps    []MatchUpSummary
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
}

// Exploration pairs a baseline searcher using the default exploration
// constant against searchers using other constants.
func Exploration(iterations int) Experiment {
	baseline := metrics.AgentConfig{ID: 1, Kind: metrics.AgentMCTS, Iterations: iterations, Exploration: math.Sqrt2}
	agents := []metrics.AgentConfig{baseline}
	matchUps := [][2]int{}
	for i, c := range []float64{0.5, 1, 2, 4} {
		config := metrics.AgentConfig{ID: i + 2, Kind: metrics.AgentMCTS, Iterations: iterations, Exploration: c}
		agents = append(agents, config)
		matchUps = append(matchUps, [2]int{baseline.ID, config.ID})
	}
	return Experiment{Name: "exploration", Games: NumGames, Agents: agents, MatchUps: matchUps}
}

// Iterations pairs a random baseline against searchers of growing budgets.
func Iterations() Experiment {
	baseline := metrics.AgentConfig{ID: 1, Kind: metrics.AgentRandom}
	agents := []metrics.AgentConfig{baseline}
	matchUps := [][2]int{}
	for i, iterations := range []int{10, 100, 1000} {
		config := metrics.AgentConfig{ID: i + 2, Kind: metrics.AgentMCTS, Iterations: iterations, Exploration: math.Sqrt2}
		agents = append(agents, config)
		matchUps = append(matchUps, [2]int{baseline.ID, config.ID})
	}
	return Experiment{Name: "iterations", Games: NumGames, Agents: agents, MatchUps: matchUps}
}

func (e Experiment) validate() (map[int]metrics.AgentConfig, error) {
	if e.Games <= 0 {
		return nil, fmt.Errorf("%w: games per matchup must be positive, got %d", game.ErrConfiguration, e.Games)
	}
	configs := make(map[int]metrics.AgentConfig, len(e.Agents))
	for _, config := range e.Agents {
		if config.ID <= 0 {
			return nil, fmt.Errorf("%w: agent ids must be positive, got %d", game.ErrConfiguration, config.ID)
		}
		if _, ok := configs[config.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate agent id %d", game.ErrConfiguration, config.ID)
		}
		configs[config.ID] = config
	}
	for _, matchUp := range e.MatchUps {
		for _, id := range matchUp {
			if _, ok := configs[id]; !ok {
				return nil, fmt.Errorf("%w: matchup references unknown agent %d", game.ErrConfiguration, id)
			}
		}
	}
	return configs, nil
}

// Run plays every matchup and, given an output directory, stores the agent
// configs, game records and move records as CSV.
func Run(e Experiment) (Summary, error) {
	configs, err := e.validate()
	if err != nil {
		return Summary{}, err
	}
	board := e.Board
	if board == nil {
		board = game.NewStandard()
	}
	seed := e.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewSource(seed))

	// Run a number of games for each matchup
	count := 0
	summary := Summary{}

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchUp := range e.MatchUps {
		config1 := configs[matchUp[0]]
		config2 := configs[matchUp[1]]
		matchUpSummary := MatchUpSummary{Agent1: config1.ID, Agent2: config2.ID}

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(e.MatchUps), config1, config2)

		for i := 0; i < e.Games; i++ {
			first, second := config1, config2
			if i%2 == 1 {
				first, second = config2, config1
			}

			count++
			record, moves, err := runGame(count, board.Clone(), first, second, r)
			if err != nil {
				return summary, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			record.Agent1, record.Agent2 = config1.ID, config2.ID
			summary.GameRecords = append(summary.GameRecords, record)
			summary.MoveRecords = append(summary.MoveRecords, moves...)

			switch record.Winner {
			case config1.ID:
				matchUpSummary.Wins1++
			case config2.ID:
				matchUpSummary.Wins2++
			default:
				matchUpSummary.Draws++
			}

			log.Debug().Msgf("completed matchup %d of %d game %d with outcome: %s", mi+1, len(e.MatchUps), i+1, record.Outcome)
		}
		summary.MatchUps = append(summary.MatchUps, matchUpSummary)
		log.Info().
			Int("agent1", matchUpSummary.Agent1).
			Int("agent2", matchUpSummary.Agent2).
			Int("wins1", matchUpSummary.Wins1).
			Int("wins2", matchUpSummary.Wins2).
			Int("draws", matchUpSummary.Draws).
			Msgf("completed matchup %d of %d", mi+1, len(e.MatchUps))
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	if e.OutputDir == "" {
		return summary, nil
	}
	summary.RunID, err = store(e, summary)
	return summary, err
}

func store(e Experiment, summary Summary) (string, error) {
	writer, err := metrics.NewWriter(e.OutputDir, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(e.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(summary.GameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(summary.MoveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.BaseDir()).Msg("stored move records")
	return writer.RunID(), nil
}

// runGame executes a single game with first playing PlayerA.
func runGame(id int, state *game.State, first, second metrics.AgentConfig, r *rand.Rand) (metrics.GameRecord, []metrics.MoveRecord, error) {
	agentA, err := NewAgent(first, r.Uint64())
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	agentB, err := NewAgent(second, r.Uint64())
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	e, err := engine.NewLocalEngine(state, agentA, agentB)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	outcome, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{ID: id, First: first.ID, GameMetric: gameMetric}
	switch outcome.Winner() {
	case game.PlayerA:
		record.Winner = first.ID
	case game.PlayerB:
		record.Winner = second.ID
	}

	moves := make([]metrics.MoveRecord, 0, len(moveMetrics))
	for _, mm := range moveMetrics {
		agentID := first.ID
		if mm.Player == game.PlayerB {
			agentID = second.ID
		}
		moves = append(moves, metrics.MoveRecord{Game: id, Agent: agentID, MoveMetric: mm})
	}
	return record, moves, nil
}

// NewAgent builds the agent a config describes, seeded for reproducibility.
func NewAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case metrics.AgentRandom:
		return player.NewRandom(rand.New(rand.NewSource(seed))), nil
	case metrics.AgentMCTS, "":
	default:
		return nil, fmt.Errorf("%w: unknown agent kind %q", game.ErrConfiguration, config.Kind)
	}

	mcts, err := createMCTS(config, seed)
	if err != nil {
		return nil, err
	}
	if config.Temperature > 0 {
		return agent.NewTrainingAgent(mcts, config.Temperature, rand.New(rand.NewSource(seed+1)))
	}
	return agent.NewEvaluationAgent(mcts), nil
}

func createMCTS(config metrics.AgentConfig, seed uint64) (*searcher.MCTS, error) {
	options := []searcher.Option{searcher.WithSeed(seed), searcher.WithMetrics()}

	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	tieBreak, err := searcher.ParseTieBreak(config.TieBreak)
	if err != nil {
		return nil, err
	}
	options = append(options, searcher.WithTieBreak(tieBreak))

	return searcher.NewMCTS(options...)
}
