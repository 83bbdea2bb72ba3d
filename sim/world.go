package sim

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/sense"
)

// ErrInvalidWorld is returned for worlds that cannot host a colony.
var ErrInvalidWorld = errors.New("sim: invalid world")

// Tile is the ground truth of one cell.
type Tile struct {
	Blocked bool
	Food    int
}

// World is a square map with a nest at its center.
type World struct {
	size   int
	tiles  []Tile
	stored int
}

// NewWorld returns an all-open world without food.
func NewWorld(size int) (*World, error) {
	if size < 3 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidWorld, size)
	}
	return &World{size: size, tiles: make([]Tile, size*size)}, nil
}

// Size returns the side length.
func (w *World) Size() int { return w.size }

// Nest returns the center tile.
func (w *World) Nest() grid.Point { return grid.Pt(w.size/2, w.size/2) }

// Stored returns the food delivered to the nest so far.
func (w *World) Stored() int { return w.stored }

// Contains reports whether p lies inside the world.
func (w *World) Contains(p grid.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.size && p.Y < w.size
}

func (w *World) tile(p grid.Point) *Tile {
	if !w.Contains(p) {
		return nil
	}
	return &w.tiles[p.X*w.size+p.Y]
}

// Tile returns the tile at p.
func (w *World) Tile(p grid.Point) (Tile, bool) {
	t := w.tile(p)
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// Open reports whether an ant may stand on p.
func (w *World) Open(p grid.Point) bool {
	t := w.tile(p)
	return t != nil && !t.Blocked
}

// SetBlocked blocks or clears p. The nest cannot be blocked.
func (w *World) SetBlocked(p grid.Point, blocked bool) error {
	t := w.tile(p)
	switch {
	case t == nil:
		return fmt.Errorf("%w: %v", grid.ErrOutOfBounds, p)
	case blocked && p == w.Nest():
		return fmt.Errorf("%w: nest %v cannot be blocked", ErrInvalidWorld, p)
	case blocked && t.Food > 0:
		return fmt.Errorf("%w: %v holds food", ErrInvalidWorld, p)
	}
	t.Blocked = blocked
	return nil
}

// SetFood places n units on p.
func (w *World) SetFood(p grid.Point, n int) error {
	t := w.tile(p)
	switch {
	case t == nil:
		return fmt.Errorf("%w: %v", grid.ErrOutOfBounds, p)
	case n < 0:
		return fmt.Errorf("%w: negative food %d at %v", ErrInvalidWorld, n, p)
	case t.Blocked && n > 0:
		return fmt.Errorf("%w: food on blocked tile %v", ErrInvalidWorld, p)
	}
	t.Food = n
	return nil
}

// FoodLeft returns the food still lying in the world, the nest excluded.
func (w *World) FoodLeft() int {
	total := 0
	nest := w.Nest()
	for i, t := range w.tiles {
		if i != nest.X*w.size+nest.Y {
			total += t.Food
		}
	}
	return total
}

// Observe builds the observation of an ant standing on p among ants others.
func (w *World) Observe(p grid.Point, ants int) sense.Observation {
	obs := sense.Observation{Ants: ants}
	if t := w.tile(p); t != nil {
		obs.Food = t.Food
	}
	for _, d := range grid.Directions {
		obs.Open[d] = w.Open(p.Move(d))
	}
	return obs
}

// take removes one unit of food from p.
func (w *World) take(p grid.Point) bool {
	t := w.tile(p)
	if t == nil || t.Food <= 0 || p == w.Nest() {
		return false
	}
	t.Food--
	return true
}

// GenerateWorld scatters obstacles with the given density and places piles
// food piles of 5 to 20 units. The nest and its neighbors stay open. The
// same arguments always produce the same world.
func GenerateWorld(size int, seed uint64, density float64, piles int) (*World, error) {
	w, err := NewWorld(size)
	if err != nil {
		return nil, err
	}
	if density < 0 || density >= 1 {
		return nil, fmt.Errorf("%w: obstacle density %v", ErrInvalidWorld, density)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	nest := w.Nest()
	keep := func(p grid.Point) bool { return grid.Distance(p, nest) <= 1 }

	for x := range size {
		for y := range size {
			p := grid.Pt(x, y)
			if !keep(p) && rng.Float64() < density {
				w.tile(p).Blocked = true
			}
		}
	}
	for placed, tries := 0, 0; placed < piles && tries < piles*100; tries++ {
		p := grid.Pt(rng.IntN(size), rng.IntN(size))
		t := w.tile(p)
		if p == nest || t.Blocked || t.Food > 0 {
			continue
		}
		t.Food = 5 + rng.IntN(16)
		placed++
	}
	return w, nil
}

type worldFile struct {
	Size int        `yaml:"size"`
	Rows []string   `yaml:"rows,omitempty"`
	Food []foodFile `yaml:"food,omitempty"`
}

type foodFile struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Amount int `yaml:"amount"`
}

// LoadWorld parses a YAML world description.
func LoadWorld(r io.Reader) (*World, error) {
	var f worldFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorld, err)
	}

	w, err := NewWorld(f.Size)
	if err != nil {
		return nil, err
	}
	if len(f.Rows) > f.Size {
		return nil, fmt.Errorf("%w: %d rows for size %d", ErrInvalidWorld, len(f.Rows), f.Size)
	}
	for i, row := range f.Rows {
		if len(row) != f.Size {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrInvalidWorld, i, len(row), f.Size)
		}
		y := f.Size - 1 - i
		for x, c := range row {
			switch c {
			case '.':
			case '#':
				if err := w.SetBlocked(grid.Pt(x, y), true); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("%w: unknown tile %q in row %d", ErrInvalidWorld, c, i)
			}
		}
	}
	for _, ff := range f.Food {
		if err := w.SetFood(grid.Pt(ff.X, ff.Y), ff.Amount); err != nil {
			if errors.Is(err, ErrInvalidWorld) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidWorld, err)
		}
	}
	return w, nil
}

// WriteYAML writes w in the format read by LoadWorld.
func (w *World) WriteYAML(out io.Writer) error {
	f := worldFile{Size: w.size, Rows: make([]string, w.size)}
	var sb strings.Builder
	for i := range w.size {
		y := w.size - 1 - i
		sb.Reset()
		for x := range w.size {
			t := w.tile(grid.Pt(x, y))
			if t.Blocked {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
			if t.Food > 0 {
				f.Food = append(f.Food, foodFile{X: x, Y: y, Amount: t.Food})
			}
		}
		f.Rows[i] = sb.String()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode world: %w", err)
	}
	return enc.Close()
}
