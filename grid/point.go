package grid

import "fmt"

// Point is a cell coordinate. X grows to the east, Y grows to the north.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns the point translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Move returns the neighbor of p in direction d.
func (p Point) Move(d Direction) Point { return p.Add(d.Delta()) }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Distance is the Manhattan distance between a and b.
func Distance(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is one of the four cardinal moves.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the cardinal directions in the order neighbors are
// examined everywhere in this module.
var Directions = [4]Direction{North, East, South, West}

// Delta returns the unit offset for d.
func (d Direction) Delta() Point {
	switch d {
	case North:
		return Point{Y: 1}
	case East:
		return Point{X: 1}
	case South:
		return Point{Y: -1}
	case West:
		return Point{X: -1}
	default:
		return Point{}
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return Directions[(int(d)+2)%4]
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool { return d >= North && d <= West }

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DirectionTo returns the direction leading from a to the adjacent cell b.
// The second result is false when b is not a cardinal neighbor of a.
func DirectionTo(a, b Point) (Direction, bool) {
	delta := b.Sub(a)
	for _, d := range Directions {
		if d.Delta() == delta {
			return d, true
		}
	}
	return 0, false
}
