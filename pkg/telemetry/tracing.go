package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for bento engines.
const defaultTracerName = "bento"

// Tracer returns the tracer registered under the bento name on the global
// provider.
func Tracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

// StartSpan starts a span named "bento.<name>" with attributes.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, "bento."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Attribute keys used on bento spans.
const (
	AttrSections   = attribute.Key("bento.sections")
	AttrRows       = attribute.Key("bento.rows")
	AttrOps        = attribute.Key("bento.ops")
	AttrPasses     = attribute.Key("bento.passes")
	AttrCoalesced  = attribute.Key("bento.coalesced")
	AttrGeneration = attribute.Key("bento.generation")
)
