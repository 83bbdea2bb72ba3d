// Package sim is a reference host runtime for antmesh ants.
//
// It owns the ground truth the ants only ever see through observations: a
// World of blocked and open tiles with food piles and a nest at the center.
// A Colony drives a brood of ants through the per-tick contract:
//
//  1. Observe: every ant gets the food and ant count of its tile plus the
//     traversability of its four neighbors.
//  2. Decide: ants decide in parallel, bounded by Config.Parallelism.
//  3. Apply: actions are executed in ant order. Moves into blocked or
//     off-world tiles are refused, gather takes one unit from the tile and
//     deliver at the nest adds to the store.
//  4. Exchange: every ant sharing a tile with another ant sends one payload,
//     and every co-located peer receives it.
//
// Worlds can be generated from a seed or loaded from YAML:
//
//	size: 9
//	rows:
//	  - "........."
//	  - "...###..."
//	food:
//	  - {x: 2, y: 6, amount: 12}
//
// The first row is the northernmost. Missing rows are open.
package sim
