// Package brain holds the per-agent state of one ant and runs its tick:
// dawn, perception update, the youth dance, and role dispatch to the
// exploration planner or foraging controller. It also produces and consumes
// knowledge snapshots for peer exchange.
//
// A Brain is not safe for concurrent use. Hosts may run many brains in
// parallel because brains share no memory.
package brain
