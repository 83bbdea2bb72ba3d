package election

import "github.com/hupe1980/antmesh/knowledge"

const (
	// CoordinatorYear is the clock value at which coordinators are chosen.
	CoordinatorYear = 1
	// ScannerYear is the clock value at which scanners are chosen.
	ScannerYear = 2
)

// Ballot is one agent's election state.
type Ballot struct {
	confirmed bool
}

// Confirmed reports whether the agent was ever set to worker, which rules it
// out as coordinator for good.
func (b *Ballot) Confirmed() bool { return b.confirmed }

// Vote applies one pairwise exchange to self.Role and reports whether the role
// changed. peer is read only.
func (b *Ballot) Vote(self, peer *knowledge.Snapshot) bool {
	before := self.Role

	switch self.Year {
	case CoordinatorYear:
		if peer.Age <= self.Age && self.ID < peer.ID && !b.confirmed {
			self.Role = knowledge.Coordinator
		} else {
			b.worker(self)
		}
	case ScannerYear:
		if self.Role == knowledge.Coordinator || peer.Role == knowledge.Coordinator {
			break
		}
		if self.ID < peer.ID {
			self.Role = knowledge.Scanner
		} else {
			b.worker(self)
		}
	}

	return self.Role != before
}

func (b *Ballot) worker(self *knowledge.Snapshot) {
	self.Role = knowledge.Worker
	b.confirmed = true
}
