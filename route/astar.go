package route

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/hupe1980/antmesh/grid"
)

// ErrNoRoute is returned when the open set is exhausted before the target is
// reached.
var ErrNoRoute = errors.New("route: no known route")

// Pathfinder plans a route between two cells of a grid.
type Pathfinder interface {
	Plan(g *grid.Grid, from, to grid.Point) (Route, error)
}

type nodeState uint8

const (
	unseen nodeState = iota
	open
	closed
)

type node struct {
	at       grid.Point
	cost     int // steps from the start
	estimate int // Manhattan distance to the target
	seq      int // discovery order, breaks ties in total cost
	gen      uint32
	state    nodeState
	index    int // position in the open heap
}

func (n *node) total() int { return n.cost + n.estimate }

// Planner is an A* search with reusable scratch space. A Planner is not safe
// for concurrent use; each agent owns one.
type Planner struct {
	arena    []node
	gen      uint32
	cameFrom map[grid.Point]grid.Point
	open     openSet
	seq      int
	scratch  []grid.Point

	// Expanded counts nodes closed by the most recent Plan call.
	Expanded int
}

// NewPlanner returns a ready to use planner.
func NewPlanner() *Planner {
	return &Planner{cameFrom: make(map[grid.Point]grid.Point)}
}

// Plan computes the shortest route from `from` to `to` through cells known to
// be traversable. The start cell itself does not need to be known. When from
// equals to the route is empty and err is nil.
func (p *Planner) Plan(g *grid.Grid, from, to grid.Point) (Route, error) {
	if !g.Contains(from) || !g.Contains(to) {
		return Route{}, fmt.Errorf("%w: %v -> %v", grid.ErrOutOfBounds, from, to)
	}
	p.reset(g)

	start := p.visit(g, from)
	start.cost = 0
	start.estimate = grid.Distance(from, to)
	p.push(start)

	for p.open.Len() > 0 {
		cur := heap.Pop(&p.open).(*node)
		if cur.at == to {
			return p.reconstruct(from, to), nil
		}
		cur.state = closed
		p.Expanded++

		p.scratch = g.Neighbors(p.scratch[:0], cur.at)
		for _, next := range p.scratch {
			if !g.Open(next) {
				continue
			}
			n := p.visit(g, next)
			switch n.state {
			case closed:
				continue
			case open:
				if cur.cost+1 < n.cost {
					n.cost = cur.cost + 1
					n.seq = p.nextSeq()
					p.cameFrom[next] = cur.at
					heap.Fix(&p.open, n.index)
				}
			default:
				n.cost = cur.cost + 1
				n.estimate = grid.Distance(next, to)
				p.cameFrom[next] = cur.at
				p.push(n)
			}
		}
	}
	return Route{}, fmt.Errorf("%w: %v -> %v", ErrNoRoute, from, to)
}

func (p *Planner) reset(g *grid.Grid) {
	if n := g.Size() * g.Size(); len(p.arena) != n {
		p.arena = make([]node, n)
		p.gen = 0
	}
	p.gen++
	if p.gen == 0 {
		// Generation wrapped; stale stamps could alias, start over.
		clear(p.arena)
		p.gen = 1
	}
	clear(p.cameFrom)
	p.open = p.open[:0]
	p.seq = 0
	p.Expanded = 0
}

// visit returns the arena node for at, resetting it on first touch in this
// search.
func (p *Planner) visit(g *grid.Grid, at grid.Point) *node {
	n := &p.arena[g.Index(at)]
	if n.gen != p.gen {
		*n = node{at: at, gen: p.gen, index: -1}
	}
	return n
}

func (p *Planner) push(n *node) {
	n.state = open
	n.seq = p.nextSeq()
	heap.Push(&p.open, n)
}

func (p *Planner) nextSeq() int {
	p.seq++
	return p.seq
}

func (p *Planner) reconstruct(from, to grid.Point) Route {
	var steps []grid.Point
	for at := to; at != from; at = p.cameFrom[at] {
		steps = append(steps, at)
	}
	return Route{steps: steps}
}

// openSet is a min-heap on total cost, then discovery order.
type openSet []*node

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool {
	if ti, tj := s[i].total(), s[j].total(); ti != tj {
		return ti < tj
	}
	return s[i].seq < s[j].seq
}

func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *openSet) Push(x any) {
	n := x.(*node)
	n.index = len(*s)
	*s = append(*s, n)
}

func (s *openSet) Pop() any {
	old := *s
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*s = old[:last]
	return n
}
