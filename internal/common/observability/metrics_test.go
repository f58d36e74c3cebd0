package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordOperation(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	obs, err := newWithProvider(provider, "test")
	require.NoError(t, err)

	ctx := context.Background()
	obs.RecordOperation(ctx, "create", "ok", 3*time.Millisecond)
	obs.RecordOperation(ctx, "create", "ok", 1*time.Millisecond)
	obs.RecordOperation(ctx, "update_status", "ORDER_NOT_FOUND", time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	counter, ok := byName["orderstore.operations"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range counter.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, counter.DataPoints, 2)

	_, ok = byName["orderstore.duration"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestNoopAndNil(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoop().RecordOperation(context.Background(), "list", "ok", time.Millisecond)
		NewNoop().Shutdown()

		var obs *Observability
		obs.RecordOperation(context.Background(), "list", "ok", time.Millisecond)
		obs.Shutdown()
	})
}
