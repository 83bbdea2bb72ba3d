// Package route plans shortest paths over an agent's own map knowledge.
//
// Planner runs A* on the 4-connected grid with unit step costs and the
// Manhattan heuristic. Only cells known to be traversable are expanded, so a
// path that exists in the world but crosses unexplored cells is not found.
// Nodes live in an arena indexed by cell; predecessors are kept in a separate
// map so routes are rebuilt by walking back from the target without any
// pointer cycles.
//
// A Route is consumed one step per tick, next step first.
package route
