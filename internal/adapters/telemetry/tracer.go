// Package telemetry records build passes as OpenTelemetry spans and forwards
// them to a progress renderer.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/atlas/internal/core/ports"
)

// AttrParent carries the logical parent passed with ports.WithParent.
const AttrParent = "atlas.parent"

// OTelTracer implements ports.Tracer.
type OTelTracer struct {
	tracer   trace.Tracer
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer from provider, or from the global provider when nil.
func NewOTelTracer(provider trace.TracerProvider, name string) *OTelTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &OTelTracer{tracer: provider.Tracer(name)}
}

// WithRenderer streams span output and plans to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.renderer = r
	return t
}

// Start implements ports.Tracer.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Parent != "" {
		startOpts = append(startOpts, trace.WithAttributes(attribute.String(AttrParent, cfg.Parent)))
	}
	ctx, span := t.tracer.Start(ctx, name, startOpts...)

	s := &OTelSpan{span: span}
	if t.renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		renderer := t.renderer
		s.lines = NewLineWriter(func(line []byte) {
			renderer.OnTaskLog(spanID, line)
		})
	}
	return ctx, s
}

// EmitPlan implements ports.Tracer.
func (t *OTelTracer) EmitPlan(ctx context.Context, atlasNames []string) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("atlases", atlasNames),
		))
	}
	if t.renderer != nil {
		t.renderer.OnPlanEmit(atlasNames)
	}
}

// OTelSpan implements ports.Span.
type OTelSpan struct {
	span  trace.Span
	lines *LineWriter
}

// End flushes pending output and ends the span.
func (s *OTelSpan) End() {
	if s.lines != nil {
		_ = s.lines.Close()
	}
	s.span.End()
}

// RecordError marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute implements ports.Span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// Write forwards output to the renderer line by line, or records it as a span event.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.lines != nil {
		return s.lines.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
