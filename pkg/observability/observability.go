package observability

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Metrics holds the instruments recorded by the chat pipeline
type Metrics struct {
	ChatRequests     metric.Int64Counter
	ProviderFailures metric.Int64Counter
	ProviderLatency  metric.Float64Histogram
}

// SetupTracing initializes OpenTelemetry tracing with a stdout exporter
// (replace with OTLP in production)
func SetupTracing(serviceName string) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stdouttrace exporter: %w", err)
	}

	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

// SetupMetrics initializes the Prometheus metrics exporter and registers the
// chat pipeline instruments
func SetupMetrics(serviceName string) (*sdkmetric.MeterProvider, *Metrics, error) {
	exp, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)

	meter := mp.Meter(serviceName)

	chatRequests, err := meter.Int64Counter("chat_requests_total",
		metric.WithDescription("Total chat requests handled"))
	if err != nil {
		return nil, nil, err
	}

	providerFailures, err := meter.Int64Counter("chat_provider_failures_total",
		metric.WithDescription("Completion provider calls that failed"))
	if err != nil {
		return nil, nil, err
	}

	providerLatency, err := meter.Float64Histogram("chat_provider_latency_seconds",
		metric.WithDescription("Completion provider call latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, nil, err
	}

	return mp, &Metrics{
		ChatRequests:     chatRequests,
		ProviderFailures: providerFailures,
		ProviderLatency:  providerLatency,
	}, nil
}

// MetricsHandler exposes the Prometheus scrape endpoint on the main router
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
