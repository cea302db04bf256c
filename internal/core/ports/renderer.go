package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for build progress output.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// OnPlanEmit is called with the atlases of a pass in configuration order.
	OnPlanEmit(atlases []string)

	// OnTaskStart is called when an atlas begins processing.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when an atlas emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when an atlas finishes.
	// cached is true when previously built outputs were reused.
	OnTaskComplete(spanID string, endTime time.Time, err error, cached bool)
}
