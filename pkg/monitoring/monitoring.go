package monitoring

import (
	"context"

	"github.com/rocketr/rocketr-ipn/pkg/applogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Monitoring interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

type openTelemetry struct {
	serviceName    string
	environment    string
	endpoint       string
	tracerProvider *sdktrace.TracerProvider
}

func NewOpenTelemetry(serviceName, environment, endpoint string) Monitoring {
	return &openTelemetry{
		serviceName: serviceName,
		environment: environment,
		endpoint:    endpoint,
	}
}

// Start implements Monitoring.
func (m *openTelemetry) Start(ctx context.Context) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(m.endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		applogger.GetLogrus().WithError(err).Error()
		return
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.serviceName),
			semconv.DeploymentEnvironment(m.environment),
		),
	)
	if err != nil {
		applogger.GetLogrus().WithError(err).Error()
		return
	}

	m.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(m.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Stop implements Monitoring.
func (m *openTelemetry) Stop(ctx context.Context) {
	if m.tracerProvider == nil {
		return
	}

	if err := m.tracerProvider.Shutdown(ctx); err != nil {
		applogger.GetLogrus().WithError(err).Error()
	}
}
