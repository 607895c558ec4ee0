package experiments

import (
	"fmt"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
)

// Throughput times repeated searches from board for every searching agent
// and reports iterations per second.
func Throughput(e Experiment, searches int) ([]metrics.ThroughputRecord, error) {
	if searches <= 0 {
		return nil, fmt.Errorf("%w: searches must be positive, got %d", game.ErrConfiguration, searches)
	}
	board := e.Board
	if board == nil {
		board = game.NewStandard()
	}

	log.Info().Msg("starting throughput experiment...")

	records := []metrics.ThroughputRecord{}
	for _, config := range e.Agents {
		if config.Kind == metrics.AgentRandom {
			continue
		}
		mcts, err := createMCTS(config, e.Seed+uint64(config.ID))
		if err != nil {
			return nil, err
		}

		var elapsed time.Duration
		iterations := 0
		for i := 0; i < searches; i++ {
			result, err := mcts.FindBestMove(board)
			if err != nil {
				return nil, err
			}
			elapsed += result.Metric.Duration
			iterations += result.Metric.Iterations
		}

		record := metrics.ThroughputRecord{Agent: config.ID, Searches: searches, Duration: elapsed}
		if elapsed > 0 {
			record.PerSecond = float64(iterations) / elapsed.Seconds()
		}
		records = append(records, record)
		log.Info().Int("agent", config.ID).Float64("iterationsPerSecond", record.PerSecond).Msg("measured throughput")
	}

	if e.OutputDir != "" {
		writer, err := metrics.NewWriter(e.OutputDir, "throughput")
		if err != nil {
			return nil, fmt.Errorf("failed to create experiment writer: %w", err)
		}
		if err := writer.WriteThroughputRecords(records); err != nil {
			return nil, fmt.Errorf("failed to write throughput records: %w", err)
		}
		log.Info().Str("dir", writer.BaseDir()).Msg("stored throughput records")
	}

	log.Info().Msg("completed throughput experiment")
	return records, nil
}

