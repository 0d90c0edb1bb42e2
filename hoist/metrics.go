package hoist

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricName is the counter incremented once per decision.
const MetricName = "react-hoist-nested-components"

// Reporter receives one call per decision. Implementations must tolerate
// concurrent calls from file workers. Reporting is advisory and never fails
// a transform.
type Reporter interface {
	Increment(ctx context.Context, d Decision)
}

// NopReporter discards decisions.
type NopReporter struct{}

func (NopReporter) Increment(context.Context, Decision) {}

// OTelReporter counts decisions on an OpenTelemetry Int64Counter with the
// attributes change-type, component-form (hoisted only) and file.
type OTelReporter struct {
	counter metric.Int64Counter
}

// NewOTelReporter creates the decision counter on mp's hoist meter.
func NewOTelReporter(mp metric.MeterProvider) (*OTelReporter, error) {
	counter, err := mp.Meter("github.com/arjunmahishi/hoist").Int64Counter(
		MetricName,
		metric.WithDescription("Nested components hoisted or skipped because they read the host scope"),
	)
	if err != nil {
		return nil, err
	}
	return &OTelReporter{counter: counter}, nil
}

func (r *OTelReporter) Increment(ctx context.Context, d Decision) {
	attrs := []attribute.KeyValue{
		attribute.String("change-type", string(d.Kind)),
		attribute.String("file", d.File),
	}
	if d.Kind == DecisionHoisted {
		attrs = append(attrs, attribute.String("component-form", string(d.Form)))
	}
	r.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
