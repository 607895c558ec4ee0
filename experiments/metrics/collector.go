package metrics

import (
	"time"

	"connect4/game"
)

// SearchMetric summarises a single move search.
type SearchMetric struct {
	Iterations  int
	Exploration float64
	Duration    time.Duration
	Expansions  int // Nodes whose untried moves were materialised
	Playouts    int // Random playouts run to a terminal outcome
	Shortcuts   int // Iterations backpropagated without a playout
	TreeSize    int
	MaxDepth    int
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Outcome        game.Outcome
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers search statistics. A search is single-threaded, so
// implementations need no synchronisation.
type Collector interface {
	Start(iterations int, exploration float64)
	AddExpansion()
	AddPlayout()
	AddShortcut()
	ObserveDepth(depth int)
	Complete(treeSize int) SearchMetric
}

type collector struct {
	iterations  int
	exploration float64
	startTime   time.Time
	expansions  int
	playouts    int
	shortcuts   int
	maxDepth    int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(iterations int, exploration float64) {
	*m = collector{
		iterations:  iterations,
		exploration: exploration,
		startTime:   time.Now(),
	}
}

func (m *collector) AddExpansion() {
	m.expansions++
}

func (m *collector) AddPlayout() {
	m.playouts++
}

func (m *collector) AddShortcut() {
	m.shortcuts++
}

func (m *collector) ObserveDepth(depth int) {
	m.maxDepth = max(m.maxDepth, depth)
}

func (m *collector) Complete(treeSize int) SearchMetric {
	return SearchMetric{
		Iterations:  m.iterations,
		Exploration: m.exploration,
		Duration:    time.Since(m.startTime),
		Expansions:  m.expansions,
		Playouts:    m.playouts,
		Shortcuts:   m.shortcuts,
		TreeSize:    treeSize,
		MaxDepth:    m.maxDepth,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations int, exploration float64) {}
func (m *dummyCollector) AddExpansion()                             {}
func (m *dummyCollector) AddPlayout()                               {}
func (m *dummyCollector) AddShortcut()                              {}
func (m *dummyCollector) ObserveDepth(depth int)                    {}
func (m *dummyCollector) Complete(treeSize int) SearchMetric        { return SearchMetric{} }
