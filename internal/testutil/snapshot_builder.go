package testutil

import (
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
)

// SnapshotBuilder provides a fluent helper for peer snapshots.
//
//	peer := NewSnapshot(knowledge.Scanner).ID(9).Year(40).Grid(g).Build()
type SnapshotBuilder struct {
	s knowledge.Snapshot
}

// NewSnapshot starts a gridless snapshot with the given role, age 1 and year 1.
func NewSnapshot(role knowledge.Role) *SnapshotBuilder {
	return &SnapshotBuilder{s: knowledge.Snapshot{Role: role, Age: 1, Year: 1}}
}

// ID sets the tie-break id (chainable).
func (b *SnapshotBuilder) ID(id int64) *SnapshotBuilder { b.s.ID = id; return b }

// Age sets the age (chainable).
func (b *SnapshotBuilder) Age(a int) *SnapshotBuilder { b.s.Age = a; return b }

// Year sets the logical clock (chainable).
func (b *SnapshotBuilder) Year(y int) *SnapshotBuilder { b.s.Year = y; return b }

// Grid attaches map data (chainable).
func (b *SnapshotBuilder) Grid(g *grid.Grid) *SnapshotBuilder { b.s.Grid = g; return b }

// Build returns a fresh snapshot.
func (b *SnapshotBuilder) Build() *knowledge.Snapshot {
	s := b.s
	return &s
}
