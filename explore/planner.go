package explore

import (
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/route"
)

// Config tunes the scanner.
type Config struct {
	// Increment grows the frontier each time it is exhausted.
	Increment int
	// MaxThreshold is the largest frontier half-width ever searched.
	MaxThreshold int
	// ReportThreshold is the count of unreported food that warrants a trip
	// home, once patience has also run out.
	ReportThreshold int
	// BasePatience is the number of silent ticks tolerated at clock zero.
	BasePatience int
	// PatienceStep adds one tick of patience per this many clock ticks.
	PatienceStep int
	// ReplanWindow forces a fresh target while the last contact with a
	// non-scanner is fewer than this many ticks old.
	ReplanWindow int
}

// DefaultConfig mirrors the colony defaults.
var DefaultConfig = Config{
	Increment:       2,
	MaxThreshold:    18,
	ReportThreshold: 10,
	BasePatience:    10,
	PatienceStep:    5,
	ReplanWindow:    2,
}

// State is the per-tick view of the scanner handed to Step.
type State struct {
	Grid     *grid.Grid
	Position grid.Point
	// Year is the scanner's logical clock.
	Year int
	// SinceContact counts ticks since the scanner last heard from a
	// non-scanner.
	SinceContact int
}

// Decision is the result of Step.
type Decision uint8

const (
	// Explore means the route leads to an unexplored cell (or continues an
	// existing route).
	Explore Decision = iota
	// Report means a fresh route home was planned.
	Report
	// Exhausted means the frontier passed the maximum; the scanner's work is
	// over.
	Exhausted
)

func (d Decision) String() string {
	switch d {
	case Explore:
		return "explore"
	case Report:
		return "report"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Planner holds one scanner's exploration state.
type Planner struct {
	cfg   Config
	paths route.Pathfinder

	threshold  int
	candidates []grid.Point
	exhausted  bool

	foundFood  bool
	reported   bool
	unreported int
}

// NewPlanner returns a planner that routes with paths.
func NewPlanner(cfg Config, paths route.Pathfinder) *Planner {
	return &Planner{cfg: cfg, paths: paths}
}

// Threshold returns the current frontier half-width.
func (p *Planner) Threshold() int { return p.threshold }

// Exhausted reports whether the frontier has passed the maximum.
func (p *Planner) Exhausted() bool { return p.exhausted }

// Unreported returns the food seen since the last report.
func (p *Planner) Unreported() int { return p.unreported }

// Observe records the food seen on the scanner's cell. firstSighting is true
// when the cell's food had never been known before.
func (p *Planner) Observe(food int, firstSighting, atHome bool) {
	if atHome {
		return
	}
	if firstSighting {
		p.unreported += food
	}
	if food > 0 {
		p.foundFood = true
	}
}

// Reported marks all food seen so far as shared.
func (p *Planner) Reported() { p.unreported = 0 }

// Patience is the number of silent ticks tolerated at clock year.
func (p *Planner) Patience(year int) int {
	if p.cfg.PatienceStep <= 0 {
		return p.cfg.BasePatience
	}
	return p.cfg.BasePatience + year/p.cfg.PatienceStep
}

// ShouldReport reports whether the scanner ought to head home now.
func (p *Planner) ShouldReport(year, sinceContact int) bool {
	if p.foundFood && !p.reported {
		return true
	}
	return p.unreported > p.cfg.ReportThreshold && sinceContact > p.Patience(year)
}

// Step makes sure r leads somewhere useful. It keeps a route in progress
// unless the scanner has just talked to a non-scanner, in which case the
// target is re-derived from the merged knowledge.
func (p *Planner) Step(s State, r *route.Route) Decision {
	if p.exhausted {
		return Exhausted
	}
	if s.SinceContact < p.cfg.ReplanWindow {
		r.Clear()
	}
	if !r.Empty() {
		return Explore
	}

	home := s.Grid.Home()
	if s.Position != home && p.ShouldReport(s.Year, s.SinceContact) {
		p.reported = p.reported || p.foundFood
		if rt, err := p.paths.Plan(s.Grid, s.Position, home); err == nil && !rt.Empty() {
			*r = rt
			return Report
		}
	}
	return p.explore(s, r)
}

func (p *Planner) explore(s State, r *route.Route) Decision {
	for {
		if len(p.candidates) == 0 {
			p.threshold += p.cfg.Increment
			if p.threshold > p.cfg.MaxThreshold || p.cfg.Increment <= 0 {
				p.exhausted = true
				return Exhausted
			}
			p.candidates = Frontier(s.Grid, p.threshold)
			continue
		}

		grid.SortByDistance(p.candidates, s.Position)
		next := p.candidates[0]
		p.candidates = p.candidates[1:]

		spot, _ := s.Grid.At(next)
		if spot.Visited() || spot.Blocked() {
			continue
		}
		// Targets must be known open to be reachable; anything else would
		// fail to plan and is dropped until the frontier grows again.
		if !spot.Open() {
			continue
		}
		rt, err := p.paths.Plan(s.Grid, s.Position, next)
		if err != nil || rt.Empty() {
			continue
		}
		*r = rt
		return Explore
	}
}

// Frontier lists every cell of the square of half-width threshold around home
// that has not been visited and is not known to be blocked.
func Frontier(g *grid.Grid, threshold int) []grid.Point {
	home := g.Home()
	lo := grid.Pt(max(home.X-threshold, 0), max(home.Y-threshold, 0))
	hi := grid.Pt(min(home.X+threshold, g.Size()-1), min(home.Y+threshold, g.Size()-1))

	var out []grid.Point
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			p := grid.Pt(x, y)
			s, _ := g.At(p)
			if s.Visited() || s.Blocked() {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
