// Package election assigns colony roles without a central authority.
//
// Every agent is born a worker. When two agents exchange snapshots, each side
// runs Ballot.Vote against the other's snapshot:
//
//   - at logical clock 1 the lower id becomes the coordinator unless it has
//     already been confirmed as a worker; an agent meeting an older peer
//     always defers and becomes a worker
//   - at logical clock 2 two non-coordinators split into one scanner (lower
//     id) and one worker
//
// Becoming a worker is irrevocable for the coordinator seat. Colliding ids
// make the outcome order dependent; the protocol does not try to detect it.
package election
