package searcher

import (
	"errors"
	"fmt"
	"math"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS chooses moves with Monte Carlo Tree Search. It is not safe for
// concurrent use: every search runs to completion on the calling goroutine
// and shares one random source.
type MCTS struct {
	iterations  int
	exploration float64
	tieBreak    TieBreak
	rand        *rand.Rand
	metrics     metrics.Collector
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		m.iterations = iterations
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		m.exploration = c
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rand = rand.New(rand.NewSource(seed))
	}
}

func WithRand(r *rand.Rand) Option {
	return func(m *MCTS) {
		if r != nil {
			m.rand = r
		}
	}
}

func WithTieBreak(policy TieBreak) Option {
	return func(m *MCTS) {
		m.tieBreak = policy
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) (*MCTS, error) {
	m := &MCTS{ // Default values
		iterations:  DefaultIterations,
		exploration: DefaultExploration,
		tieBreak:    TieBreakFirst,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rand == nil {
		m.rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	if m.iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", game.ErrConfiguration, m.iterations)
	}
	if m.exploration <= 0 || math.IsNaN(m.exploration) || math.IsInf(m.exploration, 0) {
		return nil, fmt.Errorf("%w: exploration constant must be positive and finite, got %v",
			game.ErrConfiguration, m.exploration)
	}
	switch m.tieBreak {
	case TieBreakFirst, TieBreakWinRate:
	default:
		return nil, fmt.Errorf("%w: unknown tie break %d", game.ErrConfiguration, m.tieBreak)
	}
	return m, nil
}

func (m *MCTS) Iterations() int      { return m.iterations }
func (m *MCTS) Exploration() float64 { return m.exploration }
func (m *MCTS) TieBreak() TieBreak   { return m.tieBreak }

// FindBestMove searches from state and returns the most visited root move.
// The caller's state is only read. An internal inconsistency aborts the
// search with an error wrapping ErrInvariant.
func (m *MCTS) FindBestMove(state *game.State) (result Result, err error) {
	defer func() {
		if err != nil {
			result = Result{Move: NoMove, Index: -1}
		}
	}()
	defer catchInvariant(&err)

	m.metrics.Start(m.iterations, m.exploration)
	t := newTree(state)

	// Expand the root up front so every iteration descends into a child
	if len(t.root().untried) > 0 {
		t.expand(0)
		m.metrics.AddExpansion()
	}

	for i := 0; i < m.iterations; i++ {
		m.iterate(t)
	}

	result = m.result(t)
	log.Debug().
		Int("iterations", m.iterations).
		Int("treeSize", t.size()).
		Int("move", result.Move).
		Dur("duration", result.Metric.Duration).
		Msg("search complete")
	return result, nil
}

// catchInvariant turns an InvariantError panic into an error. Any other
// panic keeps unwinding.
func catchInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	var invariant *InvariantError
	if e, ok := r.(error); ok && errors.As(e, &invariant) {
		log.Error().Err(invariant).Msg("search aborted")
		*err = invariant
		return
	}
	panic(r)
}

func (m *MCTS) iterate(t *tree) {
	leaf := t.selects(0, m.exploration)
	m.metrics.ObserveDepth(t.depth(leaf))

	n := t.at(leaf)
	if n.visits() == 0 || n.isTerminal() {
		m.metrics.AddShortcut()
		t.backup(leaf, n.state.Outcome())
		return
	}

	children := t.expand(leaf)
	m.metrics.AddExpansion()
	child := children[m.rand.Intn(len(children))]
	m.metrics.ObserveDepth(t.depth(child))

	outcome := rollout(t.at(child).state, m.rand)
	m.metrics.AddPlayout()
	t.backup(child, outcome)
}

// selects descends from id by UCB1 until it reaches a leaf.
func (t *tree) selects(id int, c float64) int {
	for !t.at(id).isLeaf() {
		id = t.selectChild(id, c)
	}
	return id
}

// rollout plays uniformly random moves on a private copy of state until the
// game ends. The tree's state is never touched.
func rollout(state *game.State, r *rand.Rand) game.Outcome {
	outcome := state.Outcome()
	if outcome.IsTerminal() {
		return outcome
	}

	playout := state.Clone()
	for !outcome.IsTerminal() {
		moves := playout.LegalMoves()
		move := moves[r.Intn(len(moves))] // Random rollout policy
		var err error
		if outcome, err = playout.Play(move); err != nil {
			panic(invariantf("playout move %d rejected: %v", move, err))
		}
	}
	return outcome
}

// backup records outcome on id and every ancestor up to the root, each from
// its own mover's point of view.
func (t *tree) backup(id int, outcome game.Outcome) {
	for id != noParent {
		n := t.at(id)
		n.update(outcome)
		id = n.parent
	}
}

func (m *MCTS) result(t *tree) Result {
	root := t.root()
	result := Result{
		Move:   NoMove,
		Index:  -1,
		Root:   statsOf(root, 0, m.exploration),
		Metric: m.metrics.Complete(t.size()),
	}

	result.Children = make([]NodeStats, len(root.children))
	for i, childID := range root.children {
		result.Children[i] = statsOf(t.at(childID), root.visits(), m.exploration)
	}

	if best := t.mostVisited(m.tieBreak); best >= 0 {
		result.Index = best
		result.Move = result.Children[best].Move
	}
	return result
}
