package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opkit/opkit/operations"

// dispatchMetrics holds the instruments recorded around executor dispatch.
type dispatchMetrics struct {
	dispatches metric.Int64Counter
	duration   metric.Float64Histogram
}

// newDispatchMetrics creates the dispatch instruments from the provider's
// meter.
func newDispatchMetrics(provider metric.MeterProvider) (*dispatchMetrics, error) {
	meter := provider.Meter(instrumentationName)

	dispatches, err := meter.Int64Counter(
		"opkit.dispatch.count",
		metric.WithDescription("Number of operations dispatched through an executor"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create dispatch counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"opkit.dispatch.duration",
		metric.WithDescription("Handler execution time per dispatched operation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create dispatch histogram: %w", err)
	}

	return &dispatchMetrics{
		dispatches: dispatches,
		duration:   duration,
	}, nil
}

// record captures one dispatch outcome. Dispatch carries no call context, so
// instruments record against the background context.
func (m *dispatchMetrics) record(def Definition, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("operation.id", def.ID),
		attribute.String("operation.version", def.Version.String()),
		attribute.String("status", status),
	)

	m.dispatches.Add(context.Background(), 1, attrs)
	m.duration.Record(context.Background(), float64(elapsed.Milliseconds()), attrs)
}
