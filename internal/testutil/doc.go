// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing grids and peer snapshots. These helpers panic
// on misuse and are not intended for production usage.
package testutil
