package sense

import (
	"fmt"

	"github.com/hupe1980/antmesh/grid"
)

// Observation is what the host reports about the agent's surroundings.
type Observation struct {
	// Food on the current cell.
	Food int
	// Ants on the current cell, including the observer.
	Ants int
	// Open reports, per direction, whether the neighbor can be walked on.
	Open [4]bool
}

// Neighbor reports whether the neighbor in direction d is traversable.
func (o Observation) Neighbor(d grid.Direction) bool {
	if !d.Valid() {
		return false
	}
	return o.Open[d]
}

// Kind enumerates the actions an agent can take.
type Kind uint8

const (
	// Halt keeps the agent in place. It is the safe default.
	Halt Kind = iota
	// Move steps to the neighbor given by Action.Dir.
	Move
	// Gather picks up one unit of food from the current cell.
	Gather
	// Deliver drops carried food at home.
	Deliver
)

func (k Kind) String() string {
	switch k {
	case Halt:
		return "halt"
	case Move:
		return "move"
	case Gather:
		return "gather"
	case Deliver:
		return "deliver"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Action is the decision of one tick. Dir is only meaningful for Move.
type Action struct {
	Kind Kind
	Dir  grid.Direction
}

// Step returns a move action in direction d.
func Step(d grid.Direction) Action { return Action{Kind: Move, Dir: d} }

var (
	// HaltAction keeps the agent still.
	HaltAction = Action{Kind: Halt}
	// GatherAction picks up food.
	GatherAction = Action{Kind: Gather}
	// DeliverAction drops food at home.
	DeliverAction = Action{Kind: Deliver}
)

func (a Action) String() string {
	if a.Kind == Move {
		return "move-" + a.Dir.String()
	}
	return a.Kind.String()
}
