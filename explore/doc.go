// Package explore drives the scanner role: it grows a square search frontier
// around home, walks to the nearest unexplored cell, and decides when the
// scanner should return home to report what it has found.
//
// The frontier half-width ("threshold") starts at zero and grows by a fixed
// increment each time the candidate list runs dry. Once it passes the
// configured maximum the scanner is done and the caller converts it to a
// worker for good.
package explore
