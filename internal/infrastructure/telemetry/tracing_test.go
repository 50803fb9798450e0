package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/ventas-sync-api/pkg/config"
)

func TestSetup_None(t *testing.T) {
	shutdown, err := setup(context.Background(), "ventas-sync-api", "test", config.TelemetryConfig{Exporter: "none"}, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_StdoutExportaSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := setup(context.Background(), "ventas-sync-api", "test", config.TelemetryConfig{Exporter: "stdout"}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "sales.Confirm")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "sales.Confirm")
	assert.Contains(t, buf.String(), "ventas-sync-api")
}

func TestSetup_ExportadorDesconocido(t *testing.T) {
	_, err := setup(context.Background(), "x", "test", config.TelemetryConfig{Exporter: "zipkin"}, nil)
	assert.Error(t, err)
}
