package merge

import (
	"github.com/hupe1980/antmesh/election"
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
)

// DefaultBootstrapWindow is the age and clock bound of early-life behaviour.
const DefaultBootstrapWindow = 2

// Outcome classifies what an exchange did to the receiver.
type Outcome uint8

const (
	// Ignored means the message came from a worker after the bootstrap window.
	Ignored Outcome = iota
	// Speculated means a coordinator decremented its nearest food estimate on
	// behalf of a gridless worker.
	Speculated
	// HeaderOnly means the peer carried no grid; only clock and role rules ran.
	HeaderOnly
	// Merged means grid cells were reconciled.
	Merged
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Speculated:
		return "speculated"
	case HeaderOnly:
		return "header_only"
	case Merged:
		return "merged"
	default:
		return "unknown"
	}
}

// Stats counts the cell tracks adopted from the peer.
type Stats struct {
	Views  int
	Visits int
}

// Result describes one Accept call.
type Result struct {
	Outcome Outcome
	Stats   Stats
	// Target is the cell decremented when Outcome is Speculated.
	Target grid.Point
	// Contact is true when a scanner heard from a non-scanner whose message
	// was not ignored.
	Contact bool
	// RoleChanged is true when the election changed the receiver's role.
	RoleChanged bool
	// ClockAdopted is true when the receiver took over the peer's clock.
	ClockAdopted bool
}

// Merger applies peer snapshots to one agent's knowledge.
type Merger struct {
	ballot *election.Ballot
	window int
}

// New returns a merger that votes with ballot. window <= 0 selects
// DefaultBootstrapWindow.
func New(ballot *election.Ballot, window int) *Merger {
	if window <= 0 {
		window = DefaultBootstrapWindow
	}
	return &Merger{ballot: ballot, window: window}
}

// Accept merges peer into self. self must carry a grid; peer is never
// modified. at is the receiver's current position.
func (m *Merger) Accept(self, peer *knowledge.Snapshot, at grid.Point) Result {
	var res Result

	if self.Role == knowledge.Coordinator && peer.Role == knowledge.Worker && !peer.HasGrid() {
		if target, ok := speculate(self, at); ok {
			res.Outcome = Speculated
			res.Target = target
			return res
		}
	}

	if peer.Year > self.Year+1 && self.Age <= m.window {
		self.Year = peer.Year
		res.ClockAdopted = true
	}

	if peer.Role == knowledge.Worker && self.Year > m.window {
		res.Outcome = Ignored
		return res
	}

	res.RoleChanged = m.ballot.Vote(self, peer)
	res.Contact = self.Role == knowledge.Scanner && peer.Role != knowledge.Scanner

	if !peer.HasGrid() {
		res.Outcome = HeaderOnly
		return res
	}
	res.Outcome = Merged
	res.Stats = Grids(self.Grid, peer.Grid)
	return res
}

// speculate assumes the reporting worker heads for the food cell nearest to
// the coordinator and takes one unit off its estimate.
func speculate(self *knowledge.Snapshot, at grid.Point) (grid.Point, bool) {
	cells := self.Grid.FoodCells(at, self.Grid.Home())
	if len(cells) == 0 {
		return grid.Point{}, false
	}
	spot, _ := self.Grid.At(cells[0])
	spot.SetFood(spot.Food-1, self.Year)
	return cells[0], true
}

// Grids copies every field track of src that is strictly newer than dst's.
// Grids of different sizes are left untouched.
func Grids(dst, src *grid.Grid) Stats {
	var st Stats
	if dst.Size() != src.Size() {
		return st
	}
	mine, theirs := dst.Cells(), src.Cells()
	for i := range mine {
		m, t := &mine[i], &theirs[i]
		if t.YearViewed > m.YearViewed {
			m.CopyView(t)
			st.Views++
		}
		if t.YearVisited > m.YearVisited {
			m.CopyVisit(t)
			st.Visits++
		}
	}
	return st
}
