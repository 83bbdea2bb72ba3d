package testutil

import (
	"fmt"

	"github.com/hupe1980/antmesh/grid"
)

// GridBuilder provides a fluent helper for constructing agent knowledge in
// tests. Example:
//
//	g := NewGrid(72).Year(3).Line(grid.Pt(36, 36), grid.Pt(36, 40)).Food(grid.Pt(36, 40), 5).Build()
//
// Every mutation is stamped with the builder's current year (default 1).
type GridBuilder struct {
	g    *grid.Grid
	year int
}

// NewGrid starts from a size x size grid with nothing known.
func NewGrid(size int) *GridBuilder { return &GridBuilder{g: grid.New(size), year: 1} }

// FromRows parses a square picture of the grid. The first row is the
// northernmost (highest Y). Legend:
//
//	'.'  known traversable
//	'#'  known blocked
//	'?'  unknown
//	0-9  known traversable and visited with that much food
func FromRows(rows ...string) *GridBuilder {
	size := len(rows)
	b := NewGrid(size)
	for i, row := range rows {
		if len(row) != size {
			panic(fmt.Sprintf("testutil: row %d has %d cells, want %d", i, len(row), size))
		}
		y := size - 1 - i
		for x, c := range row {
			p := grid.Pt(x, y)
			switch {
			case c == '.':
				b.Open(p)
			case c == '#':
				b.Block(p)
			case c >= '0' && c <= '9':
				b.Open(p).Food(p, int(c-'0'))
			case c == '?':
			default:
				panic(fmt.Sprintf("testutil: unknown cell %q", c))
			}
		}
	}
	return b
}

// Year sets the stamp used by subsequent mutations (chainable).
func (b *GridBuilder) Year(y int) *GridBuilder { b.year = y; return b }

// Open marks cells as seen traversable (chainable).
func (b *GridBuilder) Open(points ...grid.Point) *GridBuilder {
	for _, p := range points {
		b.spot(p).SetTraversable(true, b.year)
	}
	return b
}

// Block marks cells as seen blocked (chainable).
func (b *GridBuilder) Block(points ...grid.Point) *GridBuilder {
	for _, p := range points {
		b.spot(p).SetTraversable(false, b.year)
	}
	return b
}

// Line opens every cell of the straight segment from a to b inclusive
// (chainable). a and b must share a row or a column.
func (b *GridBuilder) Line(from, to grid.Point) *GridBuilder {
	if from.X != to.X && from.Y != to.Y {
		panic("testutil: Line needs an axis aligned segment")
	}
	step := grid.Pt(sign(to.X-from.X), sign(to.Y-from.Y))
	for p := from; ; p = p.Add(step) {
		b.Open(p)
		if p == to {
			break
		}
	}
	return b
}

// Rect opens the inclusive rectangle spanned by two corners (chainable).
func (b *GridBuilder) Rect(from, to grid.Point) *GridBuilder {
	for x := min(from.X, to.X); x <= max(from.X, to.X); x++ {
		for y := min(from.Y, to.Y); y <= max(from.Y, to.Y); y++ {
			b.Open(grid.Pt(x, y))
		}
	}
	return b
}

// Food records a visit that saw n units of food (chainable).
func (b *GridBuilder) Food(p grid.Point, n int) *GridBuilder {
	b.spot(p).SetFood(n, b.year)
	return b
}

// Build returns the grid. The builder must not be reused afterwards.
func (b *GridBuilder) Build() *grid.Grid { return b.g }

func (b *GridBuilder) spot(p grid.Point) *grid.Spot {
	s, ok := b.g.At(p)
	if !ok {
		panic(fmt.Sprintf("testutil: %v outside grid", p))
	}
	return s
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
