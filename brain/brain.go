package brain

import (
	"github.com/google/uuid"

	"github.com/hupe1980/antmesh/election"
	"github.com/hupe1980/antmesh/explore"
	"github.com/hupe1980/antmesh/forage"
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
	"github.com/hupe1980/antmesh/logging"
	"github.com/hupe1980/antmesh/merge"
	"github.com/hupe1980/antmesh/route"
	"github.com/hupe1980/antmesh/sense"
)

// Options configures a Brain.
type Options struct {
	// ID is the election tie-break key. Zero draws a random one.
	ID       int64
	Config   Config
	Logger   logging.Logger
	Recorder Recorder
}

// Brain is the decision core of a single ant.
type Brain struct {
	cfg    Config
	id     int64
	logger logging.Logger
	rec    Recorder

	// self is nil until the first Decide.
	self         *knowledge.Snapshot
	pos          grid.Point
	sinceContact int
	route        route.Route

	dancePaths route.Pathfinder
	explorer   *explore.Planner
	forager    *forage.Controller
	ballot     election.Ballot
	merger     *merge.Merger
}

// NewID returns a random tie-break id.
func NewID() int64 {
	return int64(uuid.New().ID())
}

// New creates an unborn brain. It is born on its first Decide.
func New(optFns ...func(o *Options)) *Brain {
	opts := Options{Config: DefaultConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ID == 0 {
		opts.ID = NewID()
	}
	if opts.Recorder == nil {
		opts.Recorder = NopRecorder{}
	}
	logger := logging.OrNoOp(opts.Logger)

	planner := route.NewPlanner()
	paths := func(purpose string) route.Pathfinder {
		return recordingPaths{purpose: purpose, next: planner, rec: opts.Recorder, logger: logger}
	}

	b := &Brain{
		cfg:        opts.Config,
		id:         opts.ID,
		logger:     logger,
		rec:        opts.Recorder,
		dancePaths: paths("dance"),
		explorer:   explore.NewPlanner(opts.Config.explorer(), paths("explore")),
		forager:    forage.NewController(paths("forage")),
	}
	b.merger = merge.New(&b.ballot, opts.Config.BootstrapWindow)
	return b
}

// Born reports whether the brain has taken its first tick.
func (b *Brain) Born() bool { return b.self != nil }

// ID returns the tie-break id.
func (b *Brain) ID() int64 { return b.id }

// Role returns the current role. Unborn brains are workers.
func (b *Brain) Role() knowledge.Role {
	if b.self == nil {
		return knowledge.Worker
	}
	return b.self.Role
}

// Age returns ticks since birth.
func (b *Brain) Age() int {
	if b.self == nil {
		return 0
	}
	return b.self.Age
}

// Year returns the logical clock.
func (b *Brain) Year() int {
	if b.self == nil {
		return 0
	}
	return b.self.Year
}

// Position returns where the brain believes it stands.
func (b *Brain) Position() grid.Point { return b.pos }

// Holding reports whether the ant carries food.
func (b *Brain) Holding() bool { return b.forager.Holding() }

// Threshold returns the current exploration frontier half-width.
func (b *Brain) Threshold() int { return b.explorer.Threshold() }

// Unreported returns the food a scanner has seen but not yet shared.
func (b *Brain) Unreported() int { return b.explorer.Unreported() }

// SinceContact returns ticks since the last contact that counted.
func (b *Brain) SinceContact() int { return b.sinceContact }

// Grid exposes the brain's own map. Callers must not retain it across ticks.
func (b *Brain) Grid() *grid.Grid {
	if b.self == nil {
		return nil
	}
	return b.self.Grid
}

// Decide runs one tick and returns the chosen action, assuming the host
// executes it.
func (b *Brain) Decide(obs sense.Observation) sense.Action {
	a := b.Choose(obs)
	b.Commit(a)
	return a
}

// Choose runs one tick up to the choice of an action but leaves the believed
// position alone. Hosts that may still fall back to halt after choosing call
// Commit with the action actually executed.
func (b *Brain) Choose(obs sense.Observation) sense.Action {
	b.dawn()
	b.perceive(obs)
	return b.choose(obs)
}

// Commit moves the believed position along a. Only moves change it.
func (b *Brain) Commit(a sense.Action) {
	if b.self == nil || a.Kind != sense.Move {
		return
	}
	if next := b.pos.Move(a.Dir); b.self.Grid.Contains(next) {
		b.pos = next
	}
}

func (b *Brain) dawn() {
	if b.self == nil {
		b.self = knowledge.New(b.id, b.cfg.GridSize)
		b.pos = b.self.Grid.Home()
		b.logger.Info("Ant born", "id", b.id, "home", b.pos)
	}
	b.self.Age++
	b.self.Year++
	b.sinceContact++
}

func (b *Brain) perceive(obs sense.Observation) {
	g, year := b.self.Grid, b.self.Year
	for _, d := range grid.Directions {
		if s, ok := g.At(b.pos.Move(d)); ok {
			s.SetTraversable(obs.Neighbor(d), year)
		}
	}

	here, ok := g.At(b.pos)
	if !ok {
		return
	}
	food := max(obs.Food, 0)
	here.SetTraversable(true, year)
	b.explorer.Observe(food, !here.Visited(), b.pos == g.Home())
	here.SetFood(food, year)
}

func (b *Brain) choose(obs sense.Observation) sense.Action {
	if b.self.Age <= b.cfg.AdultAge {
		return b.dance()
	}

	switch b.self.Role {
	case knowledge.Coordinator:
		return sense.HaltAction
	case knowledge.Scanner:
		if a, ok := b.scan(); ok {
			return a
		}
	}

	return b.forager.Decide(forage.State{
		Grid:     b.self.Grid,
		Position: b.pos,
		Year:     b.self.Year,
		Ants:     obs.Ants,
	}, &b.route)
}

// dance steps out on odd ages and back home on even ages, so the brood
// meets once away from home and once at home.
func (b *Brain) dance() sense.Action {
	g := b.self.Grid
	if b.self.Age%2 == 1 {
		for _, d := range grid.Directions {
			if g.Open(b.pos.Move(d)) {
				return sense.Step(d)
			}
		}
		return sense.HaltAction
	}

	home := g.Home()
	if b.pos == home {
		return sense.HaltAction
	}
	rt, err := b.dancePaths.Plan(g, b.pos, home)
	if err != nil {
		return sense.HaltAction
	}
	d, ok := rt.Advance(b.pos)
	if !ok {
		return sense.HaltAction
	}
	return sense.Step(d)
}

// scan runs the exploration planner. It returns false once the frontier is
// exhausted and the ant has become a worker.
func (b *Brain) scan() (sense.Action, bool) {
	decision := b.explorer.Step(explore.State{
		Grid:         b.self.Grid,
		Position:     b.pos,
		Year:         b.self.Year,
		SinceContact: b.sinceContact,
	}, &b.route)

	switch decision {
	case explore.Exhausted:
		b.self.Role = knowledge.Worker
		b.route.Clear()
		b.logger.Info("Frontier exhausted, scanner retires", "id", b.id, "threshold", b.explorer.Threshold(), "year", b.self.Year)
		return sense.Action{}, false
	case explore.Report:
		b.logger.Debug("Scanner reporting home", "id", b.id, "unreported", b.explorer.Unreported(), "since_contact", b.sinceContact)
	}

	d, ok := b.route.Advance(b.pos)
	if !ok {
		return sense.HaltAction, true
	}
	return sense.Step(d), true
}

// Offer returns the snapshot to share with a co-located peer, or nil before
// birth. Mature workers share only their header. A scanner counts its
// pending food sightings as reported.
func (b *Brain) Offer() *knowledge.Snapshot {
	if b.self == nil {
		return nil
	}
	if b.self.Role == knowledge.Worker && b.self.Age > b.cfg.AdultAge {
		return b.self.Gridless()
	}
	out := b.self.Clone()
	if b.self.Role == knowledge.Scanner {
		b.explorer.Reported()
	}
	return out
}

// Accept merges a peer snapshot. Unborn brains ignore peers. Invalid
// snapshots are rejected without touching any state.
func (b *Brain) Accept(peer *knowledge.Snapshot) (merge.Result, error) {
	if b.self == nil {
		return merge.Result{Outcome: merge.Ignored}, nil
	}
	if err := peer.Validate(b.cfg.GridSize); err != nil {
		return merge.Result{Outcome: merge.Ignored}, err
	}

	before := b.self.Role
	res := b.merger.Accept(b.self, peer, b.pos)
	if res.Contact {
		b.sinceContact = 0
	}
	if res.RoleChanged {
		b.logger.Info("Role elected", "id", b.id, "from", before, "to", b.self.Role, "peer", peer.ID, "year", b.self.Year)
	}
	if res.ClockAdopted {
		b.logger.Debug("Clock adopted from peer", "id", b.id, "year", b.self.Year, "peer", peer.ID)
	}
	return res, nil
}
