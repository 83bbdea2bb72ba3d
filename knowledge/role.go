package knowledge

import "fmt"

// Role is the job an agent holds in the colony.
type Role uint8

const (
	// Worker gathers known food and brings it home.
	Worker Role = iota + 1
	// Coordinator stays home and relays map knowledge between agents.
	Coordinator
	// Scanner explores outward from home and reports what it finds.
	Scanner
)

// Valid reports whether r is one of the three roles.
func (r Role) Valid() bool { return r >= Worker && r <= Scanner }

func (r Role) String() string {
	switch r {
	case Worker:
		return "worker"
	case Coordinator:
		return "coordinator"
	case Scanner:
		return "scanner"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, error) {
	switch s {
	case "worker":
		return Worker, nil
	case "coordinator":
		return Coordinator, nil
	case "scanner":
		return Scanner, nil
	}
	return 0, fmt.Errorf("knowledge: unknown role %q", s)
}
