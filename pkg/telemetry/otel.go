package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/theAriful7/storefront"

// Options configures Setup.
type Options struct {
	ServiceName     string
	ServiceVersion  string
	Environment     string
	Exporter        string // "stdout" or "otlp"
	Endpoint        string // OTLP gRPC endpoint for traces
	MetricsEndpoint string // OTLP/HTTP endpoint for metrics, exporter default when empty
	Insecure        bool
	SamplingRate    float64
	Writer          io.Writer        // stdout exporter destination, os.Stdout when nil
	MetricReader    sdkmetric.Reader // collects metrics instead of an exporter
}

// OTELProvider implements Telemetry with OpenTelemetry.
type OTELProvider struct {
	TraceProvider *sdktrace.TracerProvider
	MeterProvider *sdkmetric.MeterProvider
	Tracer        trace.Tracer
	Meter         metric.Meter

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// Setup builds a tracer provider for the configured exporter and registers
// it globally. Metrics get their own provider when the exporter is otlp or a
// MetricReader is given; otherwise they go to the global meter provider.
func Setup(ctx context.Context, opts Options) (*OTELProvider, error) {
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return NewNoop(), nil
	}

	if opts.ServiceName == "" {
		opts.ServiceName = "storefront"
	}

	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if opts.SamplingRate > 0 && opts.SamplingRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SamplingRate))
	}

	res := newResource(opts)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	mp, err := newMeterProvider(ctx, opts, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	if mp == nil {
		return NewWithProviders(tp, otel.GetMeterProvider())
	}
	otel.SetMeterProvider(mp)
	p, err := NewWithProviders(tp, mp)
	if err != nil {
		return nil, err
	}
	p.MeterProvider = mp
	return p, nil
}

func newMeterProvider(ctx context.Context, opts Options, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	reader := opts.MetricReader
	if reader == nil && opts.Exporter == "otlp" {
		var clientOpts []otlpmetrichttp.Option
		if opts.MetricsEndpoint != "" {
			clientOpts = append(clientOpts, otlpmetrichttp.WithEndpoint(opts.MetricsEndpoint))
		}
		if opts.Insecure {
			clientOpts = append(clientOpts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter)
	}
	if reader == nil {
		return nil, nil
	}
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res)), nil
}

// NewWithProviders wires explicit providers. Tests pass a tracer provider
// backed by a span recorder.
func NewWithProviders(tp *sdktrace.TracerProvider, mp metric.MeterProvider) (*OTELProvider, error) {
	p := &OTELProvider{
		TraceProvider: tp,
		Tracer:        tp.Tracer(instrumentationName),
		Meter:         mp.Meter(instrumentationName),
	}
	if err := p.initInstruments(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewNoop returns a provider that records nothing.
func NewNoop() *OTELProvider {
	p := &OTELProvider{
		Tracer: tracenoop.NewTracerProvider().Tracer(instrumentationName),
		Meter:  metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
	_ = p.initInstruments()
	return p
}

func newExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	switch opts.Exporter {
	case "otlp":
		clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		return exporter, nil
	case "stdout", "":
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", opts.Exporter)
	}
}

func newResource(opts Options) *resource.Resource {
	version := opts.ServiceVersion
	if version == "" {
		version = "development"
	}
	env := opts.Environment
	if env == "" {
		env = os.Getenv("DEPLOYMENT_ENVIRONMENT")
	}
	if env == "" {
		env = "development"
	}

	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(opts.ServiceName),
		semconv.ServiceVersionKey.String(version),
		semconv.DeploymentEnvironmentKey.String(env),
		attribute.String("storefront.exporter", opts.Exporter),
	)
}

func (p *OTELProvider) initInstruments() error {
	var err error
	p.requests, err = p.Meter.Int64Counter(
		"storefront_client_requests_total",
		metric.WithDescription("Backend requests issued by the storefront client"),
	)
	if err != nil {
		return fmt.Errorf("create request counter: %w", err)
	}
	p.duration, err = p.Meter.Float64Histogram(
		"storefront_client_request_duration_seconds",
		metric.WithDescription("Backend request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("create duration histogram: %w", err)
	}
	return nil
}

// StartRequestSpan implements Telemetry.
func (p *OTELProvider) StartRequestSpan(ctx context.Context, res, method, path string) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, res+" "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storefront.resource", res),
			attribute.String("http.method", method),
			attribute.String("http.target", path),
		),
	)
	if id := GetCorrelationID(ctx); id != "" {
		span.SetAttributes(attribute.String("correlation.id", id))
	}
	return ctx, span
}

// RecordRequest implements Telemetry.
func (p *OTELProvider) RecordRequest(ctx context.Context, m RequestMetric) {
	outcome := "success"
	if m.Err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("resource", m.Resource),
		attribute.String("method", m.Method),
		attribute.String("status_code", strconv.Itoa(m.Status)),
		attribute.String("outcome", outcome),
	)
	p.requests.Add(ctx, 1, attrs)
	p.duration.Record(ctx, m.Duration.Seconds(), attrs)

	span := trace.SpanFromContext(ctx)
	if m.Status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", m.Status))
	}
	if m.Err != nil {
		span.RecordError(m.Err)
		span.SetStatus(codes.Error, m.Err.Error())
	}
}

// Shutdown flushes and stops the tracer and meter providers.
func (p *OTELProvider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TraceProvider != nil {
		errs = append(errs, p.TraceProvider.Shutdown(ctx))
	}
	if p.MeterProvider != nil {
		errs = append(errs, p.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
