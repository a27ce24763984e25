package monitoring

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/infrastructure/config"
)

// TracingProvider manages the OpenTelemetry tracer provider lifecycle.
// Traces are exported over OTLP/HTTP; when tracing is disabled the
// provider stays nil and the middleware passes requests through.
type TracingProvider struct {
	tracerProvider *sdktrace.TracerProvider
	logger         *zap.Logger
}

// NewTracingProvider creates the tracer provider from configuration
func NewTracingProvider(cfg *config.Config, logger *zap.Logger) (*TracingProvider, error) {
	provider := &TracingProvider{logger: logger.Named("tracing")}

	if !cfg.Monitoring.EnableTracing {
		logger.Info("Tracing disabled")
		return provider, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.App.Name),
			semconv.ServiceVersion(cfg.App.Version),
			semconv.DeploymentEnvironment(cfg.App.Environment),
		),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(cfg.Monitoring.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	samplingRate := cfg.Monitoring.SamplingRate
	if samplingRate <= 0 {
		samplingRate = 1
	}

	provider.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(samplingRate)),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	)

	otel.SetTracerProvider(provider.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("OTLP trace exporter configured",
		zap.String("endpoint", cfg.Monitoring.OTLPEndpoint),
		zap.Float64("sampling_rate", samplingRate),
	)

	return provider, nil
}

// HTTPMiddleware wraps handlers with otelhttp server spans
func (p *TracingProvider) HTTPMiddleware(next http.Handler) http.Handler {
	if p.tracerProvider == nil {
		return next
	}
	return otelhttp.NewHandler(next, "http.server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Shutdown flushes pending spans
func (p *TracingProvider) Shutdown(ctx context.Context) error {
	if p.tracerProvider == nil {
		return nil
	}
	return p.tracerProvider.Shutdown(ctx)
}
