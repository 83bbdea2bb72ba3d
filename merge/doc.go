// Package merge reconciles a received peer snapshot with an agent's own
// knowledge.
//
// Cells merge per field track with last-writer-wins on the logical clock: the
// view track (traversability) and the visit track (food) are each copied only
// when the peer's stamp is strictly newer. Clocks are per agent, so two agents
// that have been apart for long may disagree on which observation is newer in
// ways that do not match real-world order. That is accepted behaviour.
//
// Accept also hosts the parts of the protocol that piggyback on an exchange:
// clock bootstrapping for newborns, the role election, and the coordinator's
// speculative food decrement when a gridless worker reports in.
package merge
