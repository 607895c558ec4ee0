package searcher

import "connect4/game"

const (
	NoMove   = -1 // Move of the root node, and the result when no move exists
	noParent = -1
)

// node is one position in the search tree. Nodes live in the tree's arena
// and refer to each other by index; parent links never own anything.
type node struct {
	state    *game.State // Owned clone, after move was played
	move     int
	mover    game.Player // Player who played move, judged in backup
	parent   int
	children []int
	untried  []int
	wins     int
	losses   int
	draws    int
}

func (n *node) visits() int {
	return n.wins + n.losses + n.draws
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) isTerminal() bool {
	return n.state.Outcome().IsTerminal() || (len(n.untried) == 0 && len(n.children) == 0)
}

func (n *node) winRate() float64 {
	if n.visits() == 0 {
		return 0
	}
	return float64(n.wins) / float64(n.visits())
}

// update records a finished game from the point of view of the node's mover.
func (n *node) update(outcome game.Outcome) {
	switch {
	case outcome == game.Draw:
		n.draws++
	case outcome.Winner() == n.mover:
		n.wins++
	default:
		n.losses++
	}
}

type tree struct {
	nodes []node
}

// newTree creates a tree whose root holds a private copy of state. The root's
// mover is whoever played last, i.e. the opponent of the side to move.
func newTree(state *game.State) *tree {
	t := &tree{nodes: make([]node, 0, 64)}
	t.add(noParent, NoMove, state.Turn().Opponent(), state.Clone())
	return t
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

func (t *tree) at(id int) *node {
	return &t.nodes[id]
}

func (t *tree) size() int {
	return len(t.nodes)
}

func (t *tree) add(parent, move int, mover game.Player, state *game.State) int {
	var untried []int
	if !state.Outcome().IsTerminal() {
		untried = state.LegalMoves()
	}
	t.nodes = append(t.nodes, node{
		state:   state,
		move:    move,
		mover:   mover,
		parent:  parent,
		untried: untried,
	})
	return len(t.nodes) - 1
}

// expand materialises one child per untried move, draining the untried set.
// It returns the ids of the new children in move order.
func (t *tree) expand(id int) []int {
	moves := t.at(id).untried
	if len(moves) == 0 {
		panic(invariantf("node for move %d has no untried moves to expand", t.at(id).move))
	}

	children := make([]int, 0, len(moves))
	for _, move := range moves {
		// Re-read the parent each time: add may grow the arena and move it.
		parent := t.at(id)
		state := parent.state.Clone()
		mover := state.Turn()
		if _, err := state.Play(move); err != nil {
			panic(invariantf("untried move %d is not playable: %v", move, err))
		}
		children = append(children, t.add(id, move, mover, state))
	}

	parent := t.at(id)
	parent.untried = nil
	parent.children = append(parent.children, children...)
	return children
}

// depth counts the edges between the node and the root.
func (t *tree) depth(id int) int {
	depth := 0
	for parent := t.at(id).parent; parent != noParent; parent = t.at(parent).parent {
		depth++
	}
	return depth
}
