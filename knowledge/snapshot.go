package knowledge

import (
	"errors"
	"fmt"

	"github.com/hupe1980/antmesh/grid"
)

// ErrInvalidSnapshot is returned by Validate for snapshots that must not be
// merged.
var ErrInvalidSnapshot = errors.New("knowledge: invalid snapshot")

// Snapshot is the transferable bundle of an agent's knowledge. An agent's own
// state is also held as a Snapshot; peers only ever see copies.
type Snapshot struct {
	Role Role
	// Age counts ticks since birth.
	Age int
	// Year is the agent's logical clock.
	Year int
	// ID breaks election ties.
	ID int64
	// Grid is nil for gridless (mature worker) snapshots.
	Grid *grid.Grid
}

// New returns the knowledge of a newborn: a worker at age and year zero with
// an unknown grid of the given size.
func New(id int64, size int) *Snapshot {
	return &Snapshot{Role: Worker, ID: id, Grid: grid.New(size)}
}

// HasGrid reports whether the snapshot carries map data.
func (s *Snapshot) HasGrid() bool { return s != nil && s.Grid != nil }

// Clone returns a deep copy so the receiver can never observe later mutations
// of the sender.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	if s.Grid != nil {
		c.Grid = s.Grid.Clone()
	}
	return &c
}

// Gridless returns a copy of the header without map data.
func (s *Snapshot) Gridless() *Snapshot {
	return &Snapshot{Role: s.Role, Age: s.Age, Year: s.Year, ID: s.ID}
}

// Validate checks that a received snapshot can be merged into a grid of the
// given size.
func (s *Snapshot) Validate(size int) error {
	if s == nil {
		return fmt.Errorf("%w: nil", ErrInvalidSnapshot)
	}
	if !s.Role.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, s.Role)
	}
	if s.Age < 0 || s.Year < 0 {
		return fmt.Errorf("%w: negative age %d or year %d", ErrInvalidSnapshot, s.Age, s.Year)
	}
	if s.Grid != nil && s.Grid.Size() != size {
		return fmt.Errorf("%w: grid size %d, want %d", ErrInvalidSnapshot, s.Grid.Size(), size)
	}
	return nil
}

func (s *Snapshot) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v id=%d age=%d year=%d grid=%t", s.Role, s.ID, s.Age, s.Year, s.Grid != nil)
}
