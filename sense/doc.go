// Package sense is the vocabulary shared with the host runtime: what an agent
// observes at the start of a tick and the action it answers with.
package sense
