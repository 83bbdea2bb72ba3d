package grid

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultSize is the side length used by colonies unless configured otherwise.
const DefaultSize = 72

// ErrOutOfBounds is returned when a coordinate lies outside the grid.
var ErrOutOfBounds = errors.New("grid: coordinate out of bounds")

// Grid is a fixed square array of Spots. The zero value is not usable; call
// New.
type Grid struct {
	size  int
	cells []Spot
}

// New allocates a size x size grid of unknown spots.
func New(size int) *Grid {
	if size <= 0 {
		size = DefaultSize
	}
	cells := make([]Spot, size*size)
	for i := range cells {
		cells[i] = NewSpot()
	}
	return &Grid{size: size, cells: cells}
}

// Size returns the side length.
func (g *Grid) Size() int { return g.size }

// Home is the geometric center of the grid.
func (g *Grid) Home() Point { return Point{X: g.size / 2, Y: g.size / 2} }

// Contains reports whether p addresses a cell of g.
func (g *Grid) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.size && p.Y < g.size
}

// Index returns the dense index of p. Callers must check Contains first.
func (g *Grid) Index(p Point) int { return p.X*g.size + p.Y }

// At returns the spot at p, or false when p is outside the grid.
func (g *Grid) At(p Point) (*Spot, bool) {
	if !g.Contains(p) {
		return nil, false
	}
	return &g.cells[g.Index(p)], true
}

// Lookup is At with an error instead of a boolean.
func (g *Grid) Lookup(p Point) (*Spot, error) {
	s, ok := g.At(p)
	if !ok {
		return nil, fmt.Errorf("%w: %v not in %dx%d", ErrOutOfBounds, p, g.size, g.size)
	}
	return s, nil
}

// Open reports whether p is inside the grid and known to be traversable.
func (g *Grid) Open(p Point) bool {
	s, ok := g.At(p)
	return ok && s.Open()
}

// Neighbors appends the in-bounds cardinal neighbors of p to dst.
func (g *Grid) Neighbors(dst []Point, p Point) []Point {
	for _, d := range Directions {
		if n := p.Move(d); g.Contains(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Each calls fn for every cell in column-major order.
func (g *Grid) Each(fn func(p Point, s *Spot)) {
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			fn(Point{X: x, Y: y}, &g.cells[x*g.size+y])
		}
	}
}

// Cells exposes the backing slice in column-major order. It is used by codecs
// and merges that walk both grids in lockstep.
func (g *Grid) Cells() []Spot { return g.cells }

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{size: g.size, cells: slices.Clone(g.cells)}
}

// FromCells builds a grid over a copy of cells. len(cells) must be size*size.
func FromCells(size int, cells []Spot) (*Grid, error) {
	if size <= 0 || len(cells) != size*size {
		return nil, fmt.Errorf("grid: %d cells do not form a %dx%d grid", len(cells), size, size)
	}
	return &Grid{size: size, cells: slices.Clone(cells)}, nil
}

// FoodCells returns the cells believed to hold food, excluding except, sorted
// by distance to from. Equal distances keep column-major order.
func (g *Grid) FoodCells(from, except Point) []Point {
	var out []Point
	g.Each(func(p Point, s *Spot) {
		if p != except && s.Food > 0 {
			out = append(out, p)
		}
	})
	SortByDistance(out, from)
	return out
}

// SortByDistance orders points nearest-first relative to from. The sort is
// stable so ties keep their input order.
func SortByDistance(points []Point, from Point) {
	slices.SortStableFunc(points, func(a, b Point) int {
		return Distance(a, from) - Distance(b, from)
	})
}
