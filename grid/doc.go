// Package grid holds an agent's per-cell knowledge of the world.
//
// A Grid is a fixed square of Spots addressed by integer coordinates in
// [0, size). Each Spot tracks two independent freshness stamps taken from the
// agent's logical clock:
//
//   - view: when the cell's traversability was last observed
//   - visit: when the cell's food amount was last observed
//
// Lookups outside the grid report "no such cell" instead of wrapping or
// clamping. The package also defines Point, the four cardinal Directions and
// the Manhattan distance used by the planners.
package grid
