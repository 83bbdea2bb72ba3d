package brain

import (
	"time"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/logging"
	"github.com/hupe1980/antmesh/route"
)

// Recorder receives measurements from an ant. telemetry.Metrics implements
// it with Prometheus collectors.
type Recorder interface {
	RecordDecision(role, action string, elapsed time.Duration)
	RecordPlan(purpose string, ok bool)
	RecordExchange(outcome string, bytes int)
	RecordFault()
}

// NopRecorder drops every measurement.
type NopRecorder struct{}

func (NopRecorder) RecordDecision(string, string, time.Duration) {}
func (NopRecorder) RecordPlan(string, bool)                     {}
func (NopRecorder) RecordExchange(string, int)                  {}
func (NopRecorder) RecordFault()                                {}

// recordingPaths counts and logs planning attempts made for one purpose.
type recordingPaths struct {
	purpose string
	next    route.Pathfinder
	rec     Recorder
	logger  logging.Logger
}

func (p recordingPaths) Plan(g *grid.Grid, from, to grid.Point) (route.Route, error) {
	r, err := p.next.Plan(g, from, to)
	p.rec.RecordPlan(p.purpose, err == nil)
	if cl, ok := p.logger.(*logging.ColonyLogger); ok {
		cl.LogRoute(p.purpose, r.Len(), grid.Distance(from, to), err)
	} else if err != nil {
		p.logger.Debug("Route planning failed", "purpose", p.purpose, "from", from, "to", to, "error", err)
	}
	return r, err
}
