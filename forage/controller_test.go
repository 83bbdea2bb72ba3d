package forage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/internal/testutil"
	"github.com/hupe1980/antmesh/route"
	"github.com/hupe1980/antmesh/sense"
)

var home = grid.Pt(36, 36)

type countingPaths struct {
	inner route.Pathfinder
	calls []grid.Point
}

func (c *countingPaths) Plan(g *grid.Grid, from, to grid.Point) (route.Route, error) {
	c.calls = append(c.calls, to)
	return c.inner.Plan(g, from, to)
}

type failingPaths struct{}

func (failingPaths) Plan(*grid.Grid, grid.Point, grid.Point) (route.Route, error) {
	return route.Route{}, errors.New("boom")
}

func TestDecide_PickupDepletesForEveryoneHere(t *testing.T) {
	p := grid.Pt(10, 10)
	g := testutil.NewGrid(72).Food(p, 5).Build()
	c := NewController(route.NewPlanner())
	var r route.Route

	a := c.Decide(State{Grid: g, Position: p, Year: 7, Ants: 3}, &r)

	assert.Equal(t, sense.GatherAction, a)
	assert.True(t, c.Holding())
	s, _ := g.At(p)
	assert.Equal(t, 2, s.Food)
	assert.Equal(t, 7, s.YearVisited)
}

func TestDecide_PickupEstimateNeverNegative(t *testing.T) {
	p := grid.Pt(10, 10)
	g := testutil.NewGrid(72).Food(p, 2).Build()
	c := NewController(route.NewPlanner())
	var r route.Route

	c.Decide(State{Grid: g, Position: p, Year: 7, Ants: 6}, &r)

	s, _ := g.At(p)
	assert.Zero(t, s.Food)
}

func TestDecide_NoPickupAtHome(t *testing.T) {
	g := testutil.NewGrid(72).Food(home, 50).Build()
	c := NewController(route.NewPlanner())
	var r route.Route

	assert.Equal(t, sense.HaltAction, c.Decide(State{Grid: g, Position: home, Year: 7, Ants: 1}, &r))
	assert.False(t, c.Holding())
}

func TestDecide_CarryHomeThenDeliver(t *testing.T) {
	food := grid.Pt(36, 38)
	g := testutil.NewGrid(72).Line(home, food).Food(food, 3).Build()
	c := NewController(route.NewPlanner())
	var r route.Route

	require.Equal(t, sense.GatherAction, c.Decide(State{Grid: g, Position: food, Year: 5, Ants: 1}, &r))

	assert.Equal(t, sense.Step(grid.South), c.Decide(State{Grid: g, Position: food, Year: 6, Ants: 1}, &r))
	assert.Equal(t, sense.Step(grid.South), c.Decide(State{Grid: g, Position: grid.Pt(36, 37), Year: 7, Ants: 1}, &r))
	assert.Equal(t, sense.DeliverAction, c.Decide(State{Grid: g, Position: home, Year: 8, Ants: 4}, &r))
	assert.False(t, c.Holding())
	assert.True(t, r.Empty())
}

func TestDecide_PickupOnTheWayForcesRouteHome(t *testing.T) {
	g := testutil.NewGrid(72).Line(home, grid.Pt(36, 40)).Food(grid.Pt(36, 38), 1).Food(grid.Pt(36, 40), 9).Build()
	paths := &countingPaths{inner: route.NewPlanner()}
	c := NewController(paths)

	// Walking towards the far pile, the worker steps onto a closer one.
	r := route.FromSteps(grid.Pt(36, 39), grid.Pt(36, 40))
	require.Equal(t, sense.GatherAction, c.Decide(State{Grid: g, Position: grid.Pt(36, 38), Year: 5, Ants: 1}, &r))

	a := c.Decide(State{Grid: g, Position: grid.Pt(36, 38), Year: 6, Ants: 1}, &r)
	assert.Equal(t, sense.Step(grid.South), a)
	assert.Equal(t, []grid.Point{home}, paths.calls)

	// The fresh route home is followed without replanning.
	c.Decide(State{Grid: g, Position: grid.Pt(36, 37), Year: 7, Ants: 1}, &r)
	assert.Len(t, paths.calls, 1)
}

func TestDecide_RoutesToNearestReachableFood(t *testing.T) {
	g := testutil.FromRows(
		"....",
		"#...",
		"5#..",
		"?#.9",
	).Build()
	// Home of a 4x4 grid is (2,2). The pile at (0,1) is as close as the one
	// at (3,0) and sorts first, but it is walled off.
	c := NewController(route.NewPlanner())
	var r route.Route

	a := c.Decide(State{Grid: g, Position: grid.Pt(2, 2), Year: 3, Ants: 1}, &r)

	assert.Equal(t, sense.Move, a.Kind)
	assert.Equal(t, 2, r.Len())
	target, _ := r.Target()
	assert.Equal(t, grid.Pt(3, 0), target)
}

func TestDecide_NoFoodKnown(t *testing.T) {
	g := testutil.NewGrid(72).Line(home, grid.Pt(36, 40)).Build()
	c := NewController(route.NewPlanner())

	var r route.Route
	assert.Equal(t, sense.HaltAction, c.Decide(State{Grid: g, Position: home, Year: 3, Ants: 1}, &r))

	r = route.Route{}
	assert.Equal(t, sense.Step(grid.South), c.Decide(State{Grid: g, Position: grid.Pt(36, 40), Year: 3, Ants: 1}, &r))
	target, _ := r.Target()
	assert.Equal(t, home, target)
}

func TestDecide_PlanningFailureHalts(t *testing.T) {
	g := testutil.NewGrid(72).Food(grid.Pt(30, 30), 4).Build()
	c := NewController(failingPaths{})
	var r route.Route

	assert.Equal(t, sense.HaltAction, c.Decide(State{Grid: g, Position: grid.Pt(20, 20), Year: 3, Ants: 1}, &r))
	assert.True(t, r.Empty())
}
