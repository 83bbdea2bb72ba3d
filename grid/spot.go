package grid

// Unknown marks a food amount or stamp that has never been observed.
const Unknown = -1

// Spot is the knowledge record of a single cell.
type Spot struct {
	// Food is the last known amount, Unknown before the first visit.
	Food int
	// Traversable is meaningful only once YearViewed >= 0.
	Traversable bool
	// YearViewed is the clock value of the last traversability observation.
	YearViewed int
	// YearVisited is the clock value of the last food observation.
	YearVisited int
}

// NewSpot returns a Spot with nothing known about it.
func NewSpot() Spot {
	return Spot{Food: Unknown, YearViewed: Unknown, YearVisited: Unknown}
}

// Viewed reports whether traversability has ever been observed.
func (s *Spot) Viewed() bool { return s.YearViewed >= 0 }

// Visited reports whether food has ever been observed.
func (s *Spot) Visited() bool { return s.YearVisited >= 0 }

// Open reports whether the cell is known to be traversable.
func (s *Spot) Open() bool { return s.Viewed() && s.Traversable }

// Blocked reports whether the cell is known to be an obstacle.
func (s *Spot) Blocked() bool { return s.Viewed() && !s.Traversable }

// SetFood records a food observation. Stamps never move backwards.
func (s *Spot) SetFood(food, year int) {
	s.Food = food
	if year > s.YearVisited {
		s.YearVisited = year
	}
}

// SetTraversable records a traversability observation. Stamps never move
// backwards.
func (s *Spot) SetTraversable(open bool, year int) {
	s.Traversable = open
	if year > s.YearViewed {
		s.YearViewed = year
	}
}

// CopyView adopts other's view track.
func (s *Spot) CopyView(other *Spot) {
	s.Traversable = other.Traversable
	s.YearViewed = other.YearViewed
}

// CopyVisit adopts other's visit track.
func (s *Spot) CopyVisit(other *Spot) {
	s.Food = other.Food
	s.YearVisited = other.YearVisited
}
