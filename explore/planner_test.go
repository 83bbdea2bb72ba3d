package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/internal/testutil"
	"github.com/hupe1980/antmesh/route"
)

var home = grid.Pt(36, 36)

func newPlanner() *Planner { return NewPlanner(DefaultConfig, route.NewPlanner()) }

// scannerAtHome is the knowledge of a scanner that just finished its youth:
// home visited and its four neighbors seen open.
func scannerAtHome() *grid.Grid {
	b := testutil.NewGrid(72).Year(2).Open(home).Food(home, 0)
	for _, d := range grid.Directions {
		b.Open(home.Move(d))
	}
	return b.Build()
}

func TestFrontier_SquareAroundHome(t *testing.T) {
	g := testutil.NewGrid(72).Food(home, 0).Block(grid.Pt(37, 37)).Build()

	assert.Empty(t, Frontier(g, 0))
	assert.Len(t, Frontier(g, 1), 7)
	assert.Len(t, Frontier(g, 2), 23)
}

func TestFrontier_ClampsToGrid(t *testing.T) {
	g := grid.New(6)
	assert.Len(t, Frontier(g, 18), 36)
}

func TestStep_WalksToNearestFrontierCell(t *testing.T) {
	p := newPlanner()
	var r route.Route

	d := p.Step(State{Grid: scannerAtHome(), Position: home, Year: 3, SinceContact: 5}, &r)

	require.Equal(t, Explore, d)
	assert.Equal(t, 2, p.Threshold())
	assert.Equal(t, 1, r.Len())
	target, _ := r.Target()
	assert.Equal(t, grid.Pt(35, 36), target)
}

func TestStep_KeepsRouteUnlessRecentContact(t *testing.T) {
	g := scannerAtHome()
	p := newPlanner()
	r := route.FromSteps(grid.Pt(36, 37))

	assert.Equal(t, Explore, p.Step(State{Grid: g, Position: home, Year: 9, SinceContact: 2}, &r))
	assert.Equal(t, []grid.Point{grid.Pt(36, 37)}, r.Steps())
	assert.Equal(t, 0, p.Threshold())

	r = route.FromSteps(grid.Pt(36, 37))
	assert.Equal(t, Explore, p.Step(State{Grid: g, Position: home, Year: 9, SinceContact: 1}, &r))
	target, _ := r.Target()
	assert.Equal(t, grid.Pt(35, 36), target, "recent contact must re-derive the target")
}

func TestStep_ExhaustedFrontierEndsScanning(t *testing.T) {
	b := testutil.NewGrid(72)
	for x := home.X - 18; x <= home.X+18; x++ {
		for y := home.Y - 18; y <= home.Y+18; y++ {
			b.Open(grid.Pt(x, y)).Food(grid.Pt(x, y), 0)
		}
	}
	g := b.Build()
	p := newPlanner()
	var r route.Route

	last := p.Threshold()
	assert.Equal(t, Exhausted, p.Step(State{Grid: g, Position: home, Year: 50, SinceContact: 9}, &r))
	assert.Greater(t, p.Threshold(), DefaultConfig.MaxThreshold)
	assert.GreaterOrEqual(t, p.Threshold(), last)
	assert.True(t, p.Exhausted())
	assert.True(t, r.Empty())

	// Once exhausted, always exhausted.
	threshold := p.Threshold()
	assert.Equal(t, Exhausted, p.Step(State{Grid: scannerAtHome(), Position: home, Year: 51, SinceContact: 9}, &r))
	assert.Equal(t, threshold, p.Threshold())
}

func TestStep_ThresholdNeverDecreases(t *testing.T) {
	g := scannerAtHome()
	p := newPlanner()
	pos := home
	last := 0

	for tick := 3; tick < 200 && !p.Exhausted(); tick++ {
		var r route.Route
		p.Step(State{Grid: g, Position: pos, Year: tick, SinceContact: 9}, &r)
		require.GreaterOrEqual(t, p.Threshold(), last)
		last = p.Threshold()

		// Pretend the scanner teleported to its target and saw nothing new.
		if target, ok := r.Target(); ok {
			pos = target
			s, _ := g.At(pos)
			s.SetFood(0, tick)
		}
	}
	assert.True(t, p.Exhausted())
}

func TestStep_FirstFoodIsReportedOnce(t *testing.T) {
	pos := grid.Pt(36, 39)
	g := testutil.NewGrid(72).Line(home, pos).Open(grid.Pt(35, 39)).Food(pos, 4).Build()
	p := newPlanner()
	p.Observe(4, true, false)

	var r route.Route
	require.Equal(t, Report, p.Step(State{Grid: g, Position: pos, Year: 10, SinceContact: 3}, &r))
	target, _ := r.Target()
	assert.Equal(t, home, target)

	r.Clear()
	assert.Equal(t, Explore, p.Step(State{Grid: g, Position: pos, Year: 11, SinceContact: 3}, &r))
}

func TestShouldReport_PatienceGrowsWithClock(t *testing.T) {
	p := newPlanner()
	for i := 0; i < 11; i++ {
		p.Observe(1, true, false)
	}
	p.reported = true // first report already done

	assert.Equal(t, 15, p.Patience(25))
	assert.False(t, p.ShouldReport(25, 15))
	assert.True(t, p.ShouldReport(25, 16))
	assert.False(t, p.ShouldReport(100, 16), "older colonies tolerate longer silence")

	p.Reported()
	assert.Zero(t, p.Unreported())
	assert.False(t, p.ShouldReport(25, 16))
}

func TestShouldReport_NeedsMoreThanThreshold(t *testing.T) {
	p := newPlanner()
	p.reported = true
	p.Observe(10, true, false)
	assert.False(t, p.ShouldReport(0, 99))

	p.Observe(1, true, false)
	assert.True(t, p.ShouldReport(0, 99))
}

func TestObserve_IgnoresHomeAndKnownCells(t *testing.T) {
	p := newPlanner()
	p.Observe(40, true, true)
	p.Observe(3, false, false)

	assert.Zero(t, p.Unreported())
	assert.True(t, p.ShouldReport(0, 0), "food seen anywhere but home counts as first food")
}
