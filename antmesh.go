// Package antmesh provides the Ant façade: the three per-tick operations a
// host runtime calls on one foraging agent (Decide, Offer, Accept), plus a
// byte-level Send/Receive pair for hosts that move snapshots over the wire.
//
// An Ant wraps a brain.Brain with the ambient services the core itself never
// owns: a logger, a metrics recorder, a tracer and a snapshot codec. All of
// them are injected through options and default to silent implementations.
// Decide never panics and never blocks. An internal fault is logged and
// answered with halt.
package antmesh

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hupe1980/antmesh/brain"
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
	"github.com/hupe1980/antmesh/logging"
	"github.com/hupe1980/antmesh/merge"
	"github.com/hupe1980/antmesh/sense"
	"github.com/hupe1980/antmesh/telemetry"
	"github.com/hupe1980/antmesh/wire"
)

// ErrFault is wrapped around recovered panics.
var ErrFault = errors.New("antmesh: internal fault")

// Options configures an Ant.
type Options struct {
	// ID is the election tie-break key. Zero draws a random one.
	ID int64
	// Name is used in logs only. Empty draws a short random name.
	Name string
	// Config tunes the decision core.
	Config brain.Config
	// Logger (defaults to NoOp logger if nil). A *logging.ColonyLogger is
	// tagged with the ant's id and name.
	Logger logging.Logger
	// Recorder receives metrics (defaults to brain.NopRecorder).
	Recorder brain.Recorder
	// Tracer starts decide and receive spans (defaults to a no-op tracer).
	Tracer trace.Tracer
	// Codec encodes and decodes wire snapshots. Ants of one colony may share
	// a codec. Defaults to an uncached codec.
	Codec *wire.Codec
}

// Ant is one foraging agent. It is not safe for concurrent use; distinct
// ants share nothing and may run in parallel.
type Ant struct {
	brain  *brain.Brain
	name   string
	logger logging.Logger
	colony *logging.ColonyLogger
	rec    brain.Recorder
	tracer trace.Tracer
	codec  *wire.Codec
}

// New creates an unborn ant. It is born on its first Decide.
func New(optFns ...func(o *Options)) *Ant {
	opts := Options{
		Config:   brain.DefaultConfig(),
		Logger:   logging.NoOpLogger{},
		Recorder: brain.NopRecorder{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ID == 0 {
		opts.ID = brain.NewID()
	}
	if opts.Name == "" {
		opts.Name = "ant-" + uuid.NewString()[:8]
	}
	if opts.Recorder == nil {
		opts.Recorder = brain.NopRecorder{}
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("antmesh")
	}
	if opts.Codec == nil {
		opts.Codec, _ = wire.NewCodec(0)
	}

	a := &Ant{
		name:   opts.Name,
		logger: logging.OrNoOp(opts.Logger),
		rec:    opts.Recorder,
		tracer: opts.Tracer,
		codec:  opts.Codec,
	}
	if cl, ok := opts.Logger.(*logging.ColonyLogger); ok {
		a.colony = cl.WithComponent("ant").WithAnt(opts.ID, opts.Name)
		a.logger = a.colony
	}

	a.brain = brain.New(func(o *brain.Options) {
		o.ID = opts.ID
		o.Config = opts.Config
		o.Logger = a.logger
		o.Recorder = opts.Recorder
	})
	return a
}

// ID returns the election tie-break key.
func (a *Ant) ID() int64 { return a.brain.ID() }

// Name returns the log name.
func (a *Ant) Name() string { return a.name }

// Born reports whether the ant has taken its first tick.
func (a *Ant) Born() bool { return a.brain.Born() }

// Role returns the current role.
func (a *Ant) Role() knowledge.Role { return a.brain.Role() }

// Age returns ticks since birth.
func (a *Ant) Age() int { return a.brain.Age() }

// Year returns the logical clock.
func (a *Ant) Year() int { return a.brain.Year() }

// Position returns where the ant believes it stands, relative to a home at
// the grid center.
func (a *Ant) Position() grid.Point { return a.brain.Position() }

// Holding reports whether the ant carries food.
func (a *Ant) Holding() bool { return a.brain.Holding() }

// Decide runs one tick and returns the action to execute.
func (a *Ant) Decide(ctx context.Context, obs sense.Observation) (act sense.Action) {
	role := a.brain.Role().String()
	_, span := telemetry.StartDecideSpan(ctx, a.tracer, a.brain.ID(), role, a.brain.Year())
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			act = sense.HaltAction
			a.fault(span, "decide", r)
		}
	}()

	act = a.brain.Choose(obs)

	elapsed := time.Since(start)
	role = a.brain.Role().String()
	a.rec.RecordDecision(role, act.String(), elapsed)
	if a.colony != nil {
		a.colony.LogDecision(role, a.brain.Year(), act.String(), elapsed)
	}
	span.SetAttributes(attribute.String(telemetry.AttrAction, act.String()))
	telemetry.MarkSpanResult(span, nil)

	// Last, so a recovered fault leaves the ant where the host keeps it.
	a.brain.Commit(act)
	return act
}

// Offer returns the snapshot to share with a co-located peer, or nil before
// birth.
func (a *Ant) Offer() *knowledge.Snapshot {
	return a.brain.Offer()
}

// Accept merges a peer snapshot. Invalid snapshots leave the ant untouched
// and are reported through the returned error; hosts may ignore it.
func (a *Ant) Accept(peer *knowledge.Snapshot) error {
	return a.accept(context.Background(), peer, 0)
}

// Send encodes Offer for the wire. It returns nil when there is nothing to
// say.
func (a *Ant) Send() []byte {
	s := a.brain.Offer()
	if s == nil {
		return nil
	}
	b, err := a.codec.Encode(s)
	if err != nil {
		a.logger.Warn("Encoding snapshot failed", "error", err)
		return nil
	}
	return b
}

// Receive decodes and accepts a peer payload. Empty payloads are ignored;
// undecodable ones are dropped without touching the ant.
func (a *Ant) Receive(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	ctx, span := telemetry.StartReceiveSpan(ctx, a.tracer, a.brain.ID(), len(data))
	defer span.End()

	peer, err := a.codec.Decode(data)
	if err != nil {
		a.drop(span, "", len(data), err)
		return err
	}
	return a.accept(ctx, peer, len(data))
}

func (a *Ant) accept(ctx context.Context, peer *knowledge.Snapshot, size int) (err error) {
	span := trace.SpanFromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			err = a.fault(span, "accept", r)
		}
	}()

	res, err := a.brain.Accept(peer)
	if err != nil {
		a.drop(span, roleOf(peer), size, err)
		return err
	}

	outcome := res.Outcome.String()
	a.rec.RecordExchange(outcome, size)
	if a.colony != nil {
		a.colony.LogExchange(peer.Role.String(), outcome, size, nil)
	}
	span.SetAttributes(attribute.String(telemetry.AttrOutcome, outcome))
	if res.Outcome == merge.Speculated {
		a.logger.Debug("Speculative food decrement", "target", res.Target, "peer", peer.ID)
	}
	telemetry.MarkSpanResult(span, nil)
	return nil
}

func (a *Ant) drop(span trace.Span, peerRole string, size int, err error) {
	a.rec.RecordExchange("dropped", size)
	if a.colony != nil {
		a.colony.LogExchange(peerRole, "dropped", size, err)
	} else {
		a.logger.Debug("Snapshot dropped", "error", err, "bytes", size)
	}
	span.SetAttributes(attribute.String(telemetry.AttrOutcome, "dropped"))
	telemetry.MarkSpanResult(span, err)
}

func (a *Ant) fault(span trace.Span, op string, r any) error {
	err := fmt.Errorf("%w: %s: %v", ErrFault, op, r)
	a.rec.RecordFault()
	if a.colony != nil {
		a.colony.ErrorWithStack(err, "Recovered from panic", "operation", op)
	} else {
		a.logger.Error("Recovered from panic", "operation", op, "error", err, "stack", string(debug.Stack()))
	}
	telemetry.MarkSpanResult(span, err)
	return err
}

func roleOf(s *knowledge.Snapshot) string {
	if s == nil {
		return ""
	}
	return s.Role.String()
}
