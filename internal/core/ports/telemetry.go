package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals which atlases are about to be processed, in configuration order.
	EmitPlan(ctx context.Context, atlasNames []string)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Span attributes set on atlas spans.
const (
	// AttrCached marks an atlas whose previous outputs were reused.
	AttrCached = "atlas.cached"
	// AttrAssets is the number of scanned assets.
	AttrAssets = "atlas.assets"
	// AttrOutputs is the number of emitted artifacts.
	AttrOutputs = "atlas.outputs"
)

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Parent names the span's logical parent, if any.
	Parent string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithParent sets the logical parent of a span.
func WithParent(name string) SpanOption {
	return func(c *SpanConfig) {
		c.Parent = name
	}
}
