package knowledge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antmesh/grid"
)

func TestNew_IsNewbornWorker(t *testing.T) {
	s := New(42, 16)
	assert.Equal(t, Worker, s.Role)
	assert.Equal(t, int64(42), s.ID)
	assert.Zero(t, s.Age)
	assert.Zero(t, s.Year)
	require.True(t, s.HasGrid())
	assert.Equal(t, 16, s.Grid.Size())
}

func TestSnapshot_GridlessKeepsHeader(t *testing.T) {
	s := &Snapshot{Role: Worker, Age: 9, Year: 30, ID: 7, Grid: grid.New(4)}
	g := s.Gridless()

	assert.False(t, g.HasGrid())
	assert.Equal(t, Snapshot{Role: Worker, Age: 9, Year: 30, ID: 7}, *g)
}

func TestSnapshot_CloneDetachesGrid(t *testing.T) {
	s := New(1, 4)
	c := s.Clone()

	spot, _ := c.Grid.At(grid.Pt(0, 0))
	spot.SetFood(5, 1)

	orig, _ := s.Grid.At(grid.Pt(0, 0))
	assert.Equal(t, grid.Unknown, orig.Food)
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
		ok   bool
	}{
		{name: "nil", snap: nil},
		{name: "bad role", snap: &Snapshot{Role: 9}},
		{name: "negative year", snap: &Snapshot{Role: Worker, Year: -1}},
		{name: "wrong grid size", snap: &Snapshot{Role: Scanner, Grid: grid.New(5)}},
		{name: "gridless worker", snap: &Snapshot{Role: Worker, Age: 3, Year: 3}, ok: true},
		{name: "full coordinator", snap: &Snapshot{Role: Coordinator, Grid: grid.New(8)}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate(8)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidSnapshot))
		})
	}
}

func TestParseRole_RoundTrip(t *testing.T) {
	for _, r := range []Role{Worker, Coordinator, Scanner} {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRole("queen")
	assert.Error(t, err)
}
