package hoist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectCounts(t *testing.T, reader *sdkmetric.ManualReader) map[attribute.Distinct]metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	points := make(map[attribute.Distinct]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != MetricName {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected aggregation %T", m.Data)
			for _, dp := range sum.DataPoints {
				points[dp.Attributes.Equivalent()] = dp
			}
		}
	}
	return points
}

func TestOTelReporter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	reporter, err := NewOTelReporter(mp)
	require.NoError(t, err)

	ctx := context.Background()
	reporter.Increment(ctx, Decision{File: "a.tsx", Kind: DecisionHoisted, Form: FormArrow})
	reporter.Increment(ctx, Decision{File: "a.tsx", Kind: DecisionHoisted, Form: FormArrow})
	reporter.Increment(ctx, Decision{File: "a.tsx", Kind: DecisionHoisted, Form: FormFunctionDecl})
	reporter.Increment(ctx, Decision{File: "b.tsx", Kind: DecisionSkippedClosure, Form: FormArrow})

	points := collectCounts(t, reader)
	require.Len(t, points, 3)

	arrow := attribute.NewSet(
		attribute.String("change-type", "hoisted"),
		attribute.String("file", "a.tsx"),
		attribute.String("component-form", "arrow"),
	)
	require.Equal(t, int64(2), points[arrow.Equivalent()].Value)

	decl := attribute.NewSet(
		attribute.String("change-type", "hoisted"),
		attribute.String("file", "a.tsx"),
		attribute.String("component-form", "function-decl"),
	)
	require.Equal(t, int64(1), points[decl.Equivalent()].Value)

	// Skipped decisions carry no form.
	skipped := attribute.NewSet(
		attribute.String("change-type", "skipped-closure"),
		attribute.String("file", "b.tsx"),
	)
	dp, ok := points[skipped.Equivalent()]
	require.True(t, ok)
	require.Equal(t, int64(1), dp.Value)
	_, hasForm := dp.Attributes.Value("component-form")
	require.False(t, hasForm)
}

func TestTransformReportsEveryDecision(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	reporter, err := NewOTelReporter(mp)
	require.NoError(t, err)

	src := `function Outer({ n }) {
	const Reads = () => <p>{n}</p>;
	function Free() {
		return <b />;
	}
	return <Reads />;
}
`
	res, err := Transform(context.Background(), File{Name: "m.tsx", Source: []byte(src), Language: Get("tsx")},
		TransformOptions{Reporter: reporter, Logger: discardLogger()})
	require.NoError(t, err)
	require.Len(t, res.Decisions, 2)

	var total int64
	for _, dp := range collectCounts(t, reader) {
		total += dp.Value
	}
	require.Equal(t, int64(2), total)
}
