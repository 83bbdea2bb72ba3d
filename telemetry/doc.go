// Package telemetry exposes colony activity as Prometheus metrics and
// OpenTelemetry spans.
//
// Metrics implements brain.Recorder, so it can be handed straight to an ant.
// Collectors are registered on the supplied registerer; registering a second
// Metrics on the same registerer reuses the existing collectors.
package telemetry
