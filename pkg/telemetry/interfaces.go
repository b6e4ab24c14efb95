package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Telemetry is what the API client needs from a tracing/metrics backend.
type Telemetry interface {
	// StartRequestSpan opens a client span for one backend call.
	StartRequestSpan(ctx context.Context, resource, method, path string) (context.Context, trace.Span)
	// RecordRequest records the outcome of one backend call.
	RecordRequest(ctx context.Context, m RequestMetric)
	Shutdown(ctx context.Context) error
}

// RequestMetric describes a finished backend call.
type RequestMetric struct {
	Resource string // e.g. "carts", "products"
	Method   string
	Status   int // 0 when no response was received
	Duration time.Duration
	Err      error
}
