package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	traceScope = "antmesh"

	SpanDecide  = "antmesh.ant.decide"
	SpanReceive = "antmesh.ant.receive"
	SpanTick    = "antmesh.colony.tick"

	AttrAntID   = "antmesh.ant_id"
	AttrRole    = "antmesh.role"
	AttrYear    = "antmesh.year"
	AttrAction  = "antmesh.action"
	AttrOutcome = "antmesh.outcome"
	AttrBytes   = "antmesh.bytes"
	AttrTick    = "antmesh.tick"
	AttrAnts    = "antmesh.ants"
	AttrStatus  = "antmesh.status"
)

// Tracer returns the antmesh tracer of tp, or of the global provider when tp
// is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		return otel.Tracer(traceScope)
	}
	return tp.Tracer(traceScope)
}

// StartDecideSpan starts the span of one ant's tick.
func StartDecideSpan(ctx context.Context, tracer trace.Tracer, antID int64, role string, year int) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanDecide, trace.WithAttributes(
		attribute.Int64(AttrAntID, antID),
		attribute.String(AttrRole, role),
		attribute.Int(AttrYear, year),
	))
}

// StartReceiveSpan starts the span of one received payload.
func StartReceiveSpan(ctx context.Context, tracer trace.Tracer, antID int64, bytes int) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanReceive, trace.WithAttributes(
		attribute.Int64(AttrAntID, antID),
		attribute.Int(AttrBytes, bytes),
	))
}

// StartTickSpan starts the span of one colony tick.
func StartTickSpan(ctx context.Context, tracer trace.Tracer, tick, ants int) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanTick, trace.WithAttributes(
		attribute.Int(AttrTick, tick),
		attribute.Int(AttrAnts, ants),
	))
}

// MarkSpanResult sets the span status from err.
func MarkSpanResult(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrStatus, "error"))
		return
	}
	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.String(AttrStatus, "success"))
}
