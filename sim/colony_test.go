package sim

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
	"github.com/hupe1980/antmesh/logging"
	"github.com/hupe1980/antmesh/sense"
	"github.com/hupe1980/antmesh/telemetry"
)

func pileWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(15)
	require.NoError(t, err)
	require.NoError(t, w.SetFood(grid.Pt(7, 9), 50))
	return w
}

func smallColony(t *testing.T, w *World, ants int, seed uint64) *Colony {
	t.Helper()
	c, err := New(w, func(o *Options) {
		o.Config.Ants = ants
		o.Config.Seed = seed
		o.Config.Parallelism = 4
		o.Config.Brain.GridSize = w.Size()
	})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsMismatchedWorld(t *testing.T) {
	w, err := NewWorld(9)
	require.NoError(t, err)

	_, err = New(w)
	assert.ErrorIs(t, err, ErrInvalidWorld)

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrInvalidWorld)
}

func TestNew_RejectsEmptyBrood(t *testing.T) {
	w := pileWorld(t)
	_, err := New(w, func(o *Options) {
		o.Config.Ants = 0
		o.Config.Brain.GridSize = w.Size()
	})
	assert.Error(t, err)
}

func TestColony_HatchesAtNestWithDistinctIDs(t *testing.T) {
	c := smallColony(t, pileWorld(t), 10, 3)

	ids := map[int64]bool{}
	for _, a := range c.Ants() {
		assert.False(t, a.Born())
		ids[a.ID()] = true
	}
	assert.Len(t, ids, 10)
	for _, b := range c.bodies {
		assert.Equal(t, c.World().Nest(), b.pos)
	}
}

func TestColony_ElectsOneCoordinator(t *testing.T) {
	c := smallColony(t, pileWorld(t), 6, 11)
	require.NoError(t, c.Run(context.Background(), 3))

	st := c.Stats()
	assert.Equal(t, 3, st.Tick)
	assert.Equal(t, 1, st.Roles[knowledge.Coordinator])
	assert.Positive(t, st.Roles[knowledge.Scanner])
	assert.Equal(t, 6, st.Roles[knowledge.Worker]+st.Roles[knowledge.Coordinator]+st.Roles[knowledge.Scanner])
}

func TestColony_ScannerCensusBounds(t *testing.T) {
	const ants = 20
	for _, seed := range []uint64{1, 2, 3, 4} {
		c := smallColony(t, pileWorld(t), ants, seed)
		require.NoError(t, c.Run(context.Background(), 3))

		// The pairwise year-two vote is not colony aware: the lowest
		// non-coordinator id always scans and the highest always works, and
		// anything in between depends on the order payloads are heard.
		roles := c.Stats().Roles
		assert.Equal(t, 1, roles[knowledge.Coordinator], "seed %d", seed)
		assert.GreaterOrEqual(t, roles[knowledge.Scanner], 1, "seed %d", seed)
		assert.LessOrEqual(t, roles[knowledge.Scanner], ants-2, "seed %d", seed)
		assert.GreaterOrEqual(t, roles[knowledge.Worker], 1, "seed %d", seed)
	}
}

func TestColony_ForagesFood(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := pileWorld(t)
	c, err := New(w, func(o *Options) {
		o.Config.Ants = 6
		o.Config.Seed = 5
		o.Config.Brain.GridSize = w.Size()
		o.Metrics = telemetry.MustNewMetrics(reg)
	})
	require.NoError(t, err)

	require.NoError(t, c.Run(context.Background(), 200))

	st := c.Stats()
	assert.Positive(t, st.Delivered)
	assert.Equal(t, 50, st.Delivered+st.FoodLeft+st.Carrying)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestColony_GatherOnEmptiedTileIsLogged(t *testing.T) {
	w, err := NewWorld(15)
	require.NoError(t, err)
	spot := grid.Pt(3, 3)
	require.NoError(t, w.SetFood(spot, 1))

	core, logs := observer.New(zapcore.WarnLevel)
	c, err := New(w, func(o *Options) {
		o.Config.Ants = 2
		o.Config.Brain.GridSize = w.Size()
		o.Logger = logging.NewZapAdapter(zap.New(core))
	})
	require.NoError(t, err)
	for _, b := range c.bodies {
		b.pos = spot
		b.action = sense.GatherAction
	}

	assert.False(t, c.apply(c.bodies[0]))
	assert.True(t, c.bodies[0].carrying)
	assert.False(t, c.apply(c.bodies[1]))
	assert.False(t, c.bodies[1].carrying)
	assert.Zero(t, w.FoodLeft())

	entries := logs.FilterMessage("Gather found no food").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ant-01", entries[0].ContextMap()["ant"])
}

func TestColony_SameSeedSameRun(t *testing.T) {
	a := smallColony(t, pileWorld(t), 8, 21)
	b := smallColony(t, pileWorld(t), 8, 21)

	require.NoError(t, a.Run(context.Background(), 60))
	require.NoError(t, b.Run(context.Background(), 60))

	assert.Equal(t, a.Stats(), b.Stats())
	for i := range a.bodies {
		assert.Equal(t, a.bodies[i].pos, b.bodies[i].pos)
		assert.Equal(t, a.bodies[i].ant.Role(), b.bodies[i].ant.Role())
	}
}

func TestColony_AntsAgreeWithHostOnPosition(t *testing.T) {
	w, err := GenerateWorld(21, 9, 0.2, 5)
	require.NoError(t, err)
	c := smallColony(t, w, 8, 2)

	for range 80 {
		require.NoError(t, c.Step(context.Background()))
		for _, b := range c.bodies {
			assert.Equal(t, b.pos, b.ant.Position())
		}
	}
}

func TestColony_StopsOnCancel(t *testing.T) {
	c := smallColony(t, pileWorld(t), 4, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Stats().Tick)
}
