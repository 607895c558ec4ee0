package engine

import (
	"errors"
	"fmt"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Observer is called after every accepted move with the updated state.
type Observer func(step int, player game.Player, move int, state *game.State)

type Option func(e *LocalEngine)

func WithObserver(observer Observer) Option {
	return func(e *LocalEngine) {
		e.observer = observer
	}
}

func WithMaxRetries(retries int) Option {
	return func(e *LocalEngine) {
		e.maxRetries = retries
	}
}

// LocalEngine alternates two in-process agents on a single state.
type LocalEngine struct {
	state      *game.State
	agents     map[game.Player]agent.Agent
	maxRetries int
	observer   Observer
}

func NewLocalEngine(state *game.State, agentA, agentB agent.Agent, options ...Option) (*LocalEngine, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: engine needs a game state", game.ErrConfiguration)
	}
	if agentA == nil || agentB == nil {
		return nil, fmt.Errorf("%w: engine needs an agent for both players", game.ErrConfiguration)
	}

	e := &LocalEngine{
		state: state,
		agents: map[game.Player]agent.Agent{
			game.PlayerA: agentA,
			game.PlayerB: agentB,
		},
		maxRetries: MaxRetries,
	}
	for _, option := range options {
		option(e)
	}
	if e.maxRetries < 0 {
		return nil, fmt.Errorf("%w: retries must not be negative, got %d", game.ErrConfiguration, e.maxRetries)
	}
	return e, nil
}

func (e *LocalEngine) State() *game.State {
	return e.state
}

// Run executes the entire game loop until the outcome is decided.
func (e *LocalEngine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.state.Turn(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %s is starting", e.state.Turn())

	step := 1
	for !e.state.Outcome().IsTerminal() {
		player := e.state.Turn()
		move, searchMetric, err := e.play(player)
		if err != nil {
			return game.InProgress, gameMetric, moveMetrics, err
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move,
			SearchMetric: searchMetric,
		})
		log.Debug().Int("step", step).Str("player", player.String()).Int("move", move).Msg("move played")

		if e.observer != nil {
			e.observer(step, player, move, e.state)
		}
		step++
	}

	gameMetric.Outcome = e.state.Outcome()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	log.Info().Msgf("game over after %d moves: %s", gameMetric.TotalMoves, gameMetric.Outcome)
	return gameMetric.Outcome, gameMetric, moveMetrics, nil
}

// play asks the player's agent for a column and applies it, asking again
// while the column is rejected as illegal.
func (e *LocalEngine) play(player game.Player) (int, metrics.SearchMetric, error) {
	var rejected error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		move, searchMetric, err := e.agents[player].FindMove(e.state)
		if err != nil {
			return -1, metrics.SearchMetric{}, fmt.Errorf("agent for player %s failed: %w", player, err)
		}

		_, err = e.state.Play(move)
		if err == nil {
			return move, searchMetric, nil
		}
		if !errors.Is(err, game.ErrInvalidMove) {
			return -1, metrics.SearchMetric{}, err
		}
		log.Warn().Err(err).Str("player", player.String()).Int("attempt", attempt+1).Msg("move rejected")
		rejected = err
	}
	return -1, metrics.SearchMetric{}, fmt.Errorf("player %s gave up after %d rejected moves: %w",
		player, e.maxRetries+1, rejected)
}
