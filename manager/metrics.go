package manager

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// operationMetrics records tenant operation metrics on an OpenTelemetry
// meter.
type operationMetrics struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

func newOperationMetrics(meter metric.Meter) (*operationMetrics, error) {
	totalCount, err := meter.Int64Counter(
		"tenant.ops.total",
		metric.WithDescription("Total number of tenant operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"tenant.ops.errors",
		metric.WithDescription("Total number of failed tenant operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"tenant.ops.duration_ms",
		metric.WithDescription("Tenant operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &operationMetrics{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// record registers one completed operation.
func (m *operationMetrics) record(ctx context.Context, op string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("tenant.op", op))

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}
