package forage

import (
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/route"
	"github.com/hupe1980/antmesh/sense"
)

// State is the per-tick view of the worker handed to Decide.
type State struct {
	Grid     *grid.Grid
	Position grid.Point
	Year     int
	// Ants on the current cell, including the worker.
	Ants int
}

// Controller holds one worker's carrying state.
type Controller struct {
	paths   route.Pathfinder
	holding bool
	// refresh forces a new route home on the next carrying tick, dropping
	// whatever route was being walked when the food was picked up.
	refresh bool
}

// NewController returns a worker that routes with paths.
func NewController(paths route.Pathfinder) *Controller {
	return &Controller{paths: paths}
}

// Holding reports whether the worker carries food.
func (c *Controller) Holding() bool { return c.holding }

// Decide picks the worker's action and updates r. A returned move has
// already been consumed from r.
func (c *Controller) Decide(s State, r *route.Route) sense.Action {
	home := s.Grid.Home()

	if c.holding {
		if s.Position == home {
			c.holding = false
			c.refresh = false
			r.Clear()
			return sense.DeliverAction
		}
		if c.refresh || r.Empty() {
			c.refresh = false
			c.routeTo(s, r, home)
		}
		return advance(s.Position, r)
	}

	here, ok := s.Grid.At(s.Position)
	if ok && here.Food > 0 && s.Position != home {
		// Everyone standing here is assumed to take a unit this tick.
		here.SetFood(max(here.Food-max(s.Ants, 1), 0), s.Year)
		c.holding = true
		c.refresh = true
		return sense.GatherAction
	}

	if r.Empty() && !c.routeToFood(s, r) {
		if s.Position == home || !c.routeTo(s, r, home) {
			return sense.HaltAction
		}
	}
	return advance(s.Position, r)
}

// routeToFood tries known food cells nearest first.
func (c *Controller) routeToFood(s State, r *route.Route) bool {
	for _, target := range s.Grid.FoodCells(s.Position, s.Grid.Home()) {
		if c.routeTo(s, r, target) {
			return true
		}
	}
	return false
}

func (c *Controller) routeTo(s State, r *route.Route, target grid.Point) bool {
	rt, err := c.paths.Plan(s.Grid, s.Position, target)
	if err != nil || rt.Empty() {
		r.Clear()
		return false
	}
	*r = rt
	return true
}

func advance(from grid.Point, r *route.Route) sense.Action {
	d, ok := r.Advance(from)
	if !ok {
		return sense.HaltAction
	}
	return sense.Step(d)
}
