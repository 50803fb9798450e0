package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/jhoicas/ventas-sync-api/pkg/config"
)

// ShutdownFunc vacía y cierra el exportador.
type ShutdownFunc func(ctx context.Context) error

// Setup registra el TracerProvider global según OTEL_EXPORTER.
// "none" deja el provider no-op de otel; los spans del motor no cuestan nada.
func Setup(ctx context.Context, serviceName, version string, cfg config.TelemetryConfig) (ShutdownFunc, error) {
	return setup(ctx, serviceName, version, cfg, os.Stdout)
}

func setup(ctx context.Context, serviceName, version string, cfg config.TelemetryConfig, out io.Writer) (ShutdownFunc, error) {
	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "", "none":
		return func(context.Context) error { return nil }, nil
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(out))
	case "otlp":
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("telemetry: exportador desconocido %q", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry: crear exportador %s: %w", cfg.Exporter, err)
	}

	res, err := resource.Merge(
		resource.Default(),
		// Sin schema URL: resource.Default() ya trae uno y Merge rechaza dos distintos.
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
