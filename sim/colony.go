package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/antmesh"
	"github.com/hupe1980/antmesh/brain"
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
	"github.com/hupe1980/antmesh/logging"
	"github.com/hupe1980/antmesh/sense"
	"github.com/hupe1980/antmesh/telemetry"
	"github.com/hupe1980/antmesh/wire"
)

// Config defines the shape of a simulation run.
type Config struct {
	// Ants is the brood size. All ants hatch at the nest on the first tick.
	Ants int `mapstructure:"ants" yaml:"ants"`
	// Ticks is the default run length used by hosts; Run takes its own count.
	Ticks int `mapstructure:"ticks" yaml:"ticks"`
	// Parallelism bounds concurrent Decide and Receive calls. Values below 1
	// mean GOMAXPROCS.
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
	// CacheSize is the capacity of the shared snapshot decode cache.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
	// Seed drives ant ids. Equal seeds replay equal runs.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
	// Brain tunes every ant.
	Brain brain.Config `mapstructure:"brain" yaml:"brain"`
}

// DefaultConfig returns a 20 ant colony on the default grid.
func DefaultConfig() Config {
	return Config{
		Ants:        20,
		Ticks:       500,
		Parallelism: runtime.GOMAXPROCS(0),
		CacheSize:   wire.DefaultCacheSize,
		Seed:        1,
		Brain:       brain.DefaultConfig(),
	}
}

// Options configures a Colony.
type Options struct {
	Config Config
	// Logger (defaults to NoOp logger if nil). Passed on to every ant.
	Logger logging.Logger
	// Metrics is optional; nil disables metrics.
	Metrics *telemetry.Metrics
	// TracerProvider is optional; nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Stats summarizes a colony after a tick.
type Stats struct {
	Tick      int
	Delivered int
	FoodLeft  int
	Carrying  int
	Roles     map[knowledge.Role]int
}

type body struct {
	ant      *antmesh.Ant
	pos      grid.Point
	carrying bool
	obs      sense.Observation
	action   sense.Action
}

// Colony runs a brood of ants in a World.
type Colony struct {
	cfg     Config
	world   *World
	bodies  []*body
	logger  logging.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	codec   *wire.Codec
	tick    int
}

// New hatches cfg.Ants ants at the nest of world. The world must match the
// ants' grid size.
func New(world *World, optFns ...func(o *Options)) (*Colony, error) {
	opts := Options{Config: DefaultConfig(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	cfg := opts.Config

	if world == nil {
		return nil, fmt.Errorf("%w: nil world", ErrInvalidWorld)
	}
	if err := cfg.Brain.Validate(); err != nil {
		return nil, err
	}
	if world.Size() != cfg.Brain.GridSize {
		return nil, fmt.Errorf("%w: world size %d, ants expect %d", ErrInvalidWorld, world.Size(), cfg.Brain.GridSize)
	}
	if cfg.Ants < 1 {
		return nil, fmt.Errorf("sim: need at least one ant, got %d", cfg.Ants)
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}

	codec, err := wire.NewCodec(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	c := &Colony{
		cfg:     cfg,
		world:   world,
		logger:  logging.OrNoOp(opts.Logger),
		metrics: opts.Metrics,
		tracer:  telemetry.Tracer(opts.TracerProvider),
		codec:   codec,
	}

	var recorder brain.Recorder = brain.NopRecorder{}
	if opts.Metrics != nil {
		recorder = opts.Metrics
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, ^cfg.Seed))
	seen := make(map[int64]bool, cfg.Ants)
	for i := range cfg.Ants {
		id := rng.Int64N(1<<31) + 1
		for seen[id] {
			id = rng.Int64N(1<<31) + 1
		}
		seen[id] = true

		a := antmesh.New(func(o *antmesh.Options) {
			o.ID = id
			o.Name = fmt.Sprintf("ant-%02d", i)
			o.Config = cfg.Brain
			o.Logger = opts.Logger
			o.Recorder = recorder
			o.Tracer = c.tracer
			o.Codec = codec
		})
		c.bodies = append(c.bodies, &body{ant: a, pos: world.Nest()})
	}
	return c, nil
}

// Ants returns the colony's ants in hatch order.
func (c *Colony) Ants() []*antmesh.Ant {
	out := make([]*antmesh.Ant, len(c.bodies))
	for i, b := range c.bodies {
		out[i] = b.ant
	}
	return out
}

// World returns the simulated world.
func (c *Colony) World() *World { return c.world }

// Step advances the colony by one tick.
func (c *Colony) Step(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := telemetry.StartTickSpan(ctx, c.tracer, c.tick+1, len(c.bodies))
	defer func() {
		telemetry.MarkSpanResult(span, err)
		span.End()
	}()

	occupancy := c.occupancy()
	for _, b := range c.bodies {
		b.obs = c.world.Observe(b.pos, occupancy[b.pos])
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallelism)
	for _, b := range c.bodies {
		g.Go(func() error {
			b.action = b.ant.Decide(gctx, b.obs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	delivered := 0
	for _, b := range c.bodies {
		if c.apply(b) {
			delivered++
		}
	}

	if err := c.exchange(ctx); err != nil {
		return err
	}

	c.tick++
	c.metrics.IncTick()
	c.metrics.AddDelivered(delivered)
	for role, n := range c.census() {
		c.metrics.SetRoleCount(role.String(), n)
	}
	return nil
}

// Run advances the colony by ticks steps, stopping early when ctx is done.
func (c *Colony) Run(ctx context.Context, ticks int) error {
	start := time.Now()
	for range ticks {
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	if cl, ok := c.logger.(*logging.ColonyLogger); ok {
		cl.LogPerformance("run", elapsed, map[string]any{
			"ticks":        ticks,
			"delivered":    c.world.Stored(),
			"cache_hits":   c.codec.Hits(),
			"cache_misses": c.codec.Misses(),
		})
		return nil
	}
	c.logger.Info("Run finished", "ticks", ticks, "delivered", c.world.Stored(), "duration", elapsed)
	return nil
}

// Stats returns the state of the colony after the last tick.
func (c *Colony) Stats() Stats {
	carrying := 0
	for _, b := range c.bodies {
		if b.carrying {
			carrying++
		}
	}
	return Stats{
		Tick:      c.tick,
		Delivered: c.world.Stored(),
		FoodLeft:  c.world.FoodLeft(),
		Carrying:  carrying,
		Roles:     c.census(),
	}
}

func (c *Colony) occupancy() map[grid.Point]int {
	occ := make(map[grid.Point]int, len(c.bodies))
	for _, b := range c.bodies {
		occ[b.pos]++
	}
	return occ
}

func (c *Colony) census() map[knowledge.Role]int {
	roles := map[knowledge.Role]int{
		knowledge.Worker:      0,
		knowledge.Coordinator: 0,
		knowledge.Scanner:     0,
	}
	for _, b := range c.bodies {
		roles[b.ant.Role()]++
	}
	return roles
}

// apply executes b's action and reports whether food reached the nest.
func (c *Colony) apply(b *body) bool {
	switch b.action.Kind {
	case sense.Move:
		next := b.pos.Move(b.action.Dir)
		if !c.world.Open(next) {
			c.logger.Warn("Move refused", "ant", b.ant.Name(), "from", b.pos, "to", next)
			return false
		}
		b.pos = next
	case sense.Gather:
		if b.carrying {
			return false
		}
		if !c.world.take(b.pos) {
			// The ant believes it carries food from now on; its next
			// delivery will find nothing to store.
			c.logger.Warn("Gather found no food", "ant", b.ant.Name(), "at", b.pos)
			return false
		}
		b.carrying = true
	case sense.Deliver:
		if b.carrying && b.pos == c.world.Nest() {
			b.carrying = false
			c.world.stored++
			return true
		}
	}
	return false
}

// exchange lets every ant that shares a tile talk to its neighbors. Payloads
// are taken before any are received, so a tick's exchange does not depend
// on receive order across ants.
func (c *Colony) exchange(ctx context.Context) error {
	groups := make(map[grid.Point][]*body)
	var order []grid.Point
	for _, b := range c.bodies {
		if _, ok := groups[b.pos]; !ok {
			order = append(order, b.pos)
		}
		groups[b.pos] = append(groups[b.pos], b)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallelism)
	for _, p := range order {
		group := groups[p]
		if len(group) < 2 {
			continue
		}
		payloads := make([][]byte, len(group))
		for i, b := range group {
			payloads[i] = b.ant.Send()
		}
		for i, receiver := range group {
			g.Go(func() error {
				for j, data := range payloads {
					if j == i || data == nil {
						continue
					}
					// Undecodable payloads are dropped by the receiver.
					_ = receiver.ant.Receive(gctx, data)
				}
				return gctx.Err()
			})
		}
	}
	return g.Wait()
}
