package route

import (
	"slices"

	"github.com/hupe1980/antmesh/grid"
)

// Route is a planned sequence of cells, excluding the start. Steps are stored
// far end first so the next step is popped from the tail.
type Route struct {
	steps []grid.Point
}

// FromSteps builds a route that visits steps in the given order.
func FromSteps(steps ...grid.Point) Route {
	rev := slices.Clone(steps)
	slices.Reverse(rev)
	return Route{steps: rev}
}

// Len returns the number of remaining steps.
func (r *Route) Len() int { return len(r.steps) }

// Empty reports whether no steps remain.
func (r *Route) Empty() bool { return len(r.steps) == 0 }

// Peek returns the next step without consuming it.
func (r *Route) Peek() (grid.Point, bool) {
	if r.Empty() {
		return grid.Point{}, false
	}
	return r.steps[len(r.steps)-1], true
}

// Next consumes and returns the next step.
func (r *Route) Next() (grid.Point, bool) {
	p, ok := r.Peek()
	if ok {
		r.steps = r.steps[:len(r.steps)-1]
	}
	return p, ok
}

// Target returns the final cell of the route.
func (r *Route) Target() (grid.Point, bool) {
	if r.Empty() {
		return grid.Point{}, false
	}
	return r.steps[0], true
}

// Clear drops every remaining step.
func (r *Route) Clear() { r.steps = r.steps[:0] }

// Steps returns the remaining steps in walking order.
func (r *Route) Steps() []grid.Point {
	out := slices.Clone(r.steps)
	slices.Reverse(out)
	return out
}

// Advance consumes the next step and returns the direction that reaches it
// from `from`. A step that is not adjacent to `from` means the route no
// longer matches the walker's position; the route is dropped and false is
// returned.
func (r *Route) Advance(from grid.Point) (grid.Direction, bool) {
	next, ok := r.Next()
	if !ok {
		return 0, false
	}
	d, ok := grid.DirectionTo(from, next)
	if !ok {
		r.Clear()
		return 0, false
	}
	return d, true
}
