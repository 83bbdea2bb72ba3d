// Package knowledge defines the Snapshot exchanged between co-located agents
// and the three colony roles.
//
// A Snapshot carries the sender's role, age, logical clock and tie-break id,
// plus an optional Grid. A nil Grid is a meaningful state: mature workers send
// gridless snapshots to shrink the payload, and receivers treat that absence
// as a protocol signal rather than as an empty map.
package knowledge
