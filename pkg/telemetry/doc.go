// Package telemetry wires OpenTelemetry tracing and request metrics into the
// storefront client.
//
// Setup builds a tracer provider with either a stdout exporter (handy for the
// CLI) or an OTLP gRPC exporter, registers it globally, and returns an
// OTELProvider that the API client uses to open one client span per backend
// call and to count requests and latencies:
//
//	tel, err := telemetry.Setup(ctx, telemetry.Options{
//	    ServiceName: "storefront-cli",
//	    Exporter:    "otlp",
//	    Endpoint:    "otel-collector:4317",
//	    Insecure:    true,
//	})
//	defer tel.Shutdown(ctx)
//
// Metrics are recorded against the global meter provider, so they are
// dropped unless the host application installs one.
//
// # Correlation
//
// WithCorrelationID tags a context; every request made with it carries the
// same X-Correlation-ID header plus a fresh X-Request-ID. The fake backend
// runs CorrelationMiddleware to echo both ids back.
package telemetry
