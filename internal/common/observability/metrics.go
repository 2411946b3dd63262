// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exposes OpenTelemetry instruments through a Prometheus
// exporter. A zero value is usable and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	evalCounter   otelmetric.Int64Counter
	scoreValues   otelmetric.Int64Histogram
}

func New(serviceName string, opts ...otelprom.Option) (*Observability, error) {
	exporter, err := otelprom.New(opts...)
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	evalCounter, _ := meter.Int64Counter(
		"score.evaluations",
		otelmetric.WithDescription("Number of clinical score evaluations"),
	)

	scoreValues, _ := meter.Int64Histogram(
		"score.value",
		otelmetric.WithDescription("Distribution of computed scores"),
		otelmetric.WithExplicitBucketBoundaries(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 30, 42),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		evalCounter:   evalCounter,
		scoreValues:   scoreValues,
	}, nil
}

// RecordEvaluation counts one evaluation and the score it produced.
func (o *Observability) RecordEvaluation(ctx context.Context, instrument, tier string, score int) {
	attrs := otelmetric.WithAttributes(
		attribute.String("instrument", instrument),
		attribute.String("tier", tier),
	)
	if o.evalCounter != nil {
		o.evalCounter.Add(ctx, 1, attrs)
	}
	if o.scoreValues != nil {
		o.scoreValues.Record(ctx, int64(score), otelmetric.WithAttributes(
			attribute.String("instrument", instrument),
		))
	}
}

func (o *Observability) Shutdown() error {
	if o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
