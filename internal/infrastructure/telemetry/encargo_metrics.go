package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the meter encargos metrics are registered under
const MeterName = "storefront-gateway/encargos"

// Attribute keys shared by encargos metrics
var (
	AttrOperation     = attribute.Key("operation")
	AttrResult        = attribute.Key("result")
	AttrSource        = attribute.Key("source")
	AttrPaymentStatus = attribute.Key("payment_status")
)

// Result attribute values
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// OperationDurationBuckets covers backend round trips and Stripe calls (seconds)
var OperationDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// EncargoMetrics records capture, quote and checkout activity.
// A nil *EncargoMetrics is valid and records nothing.
type EncargoMetrics struct {
	operations *Counter
	duration   *Histogram
	captures   *Counter
	payments   *Counter
}

// NewEncargoMetrics registers the encargos instruments on meter
func NewEncargoMetrics(meter metric.Meter) (*EncargoMetrics, error) {
	operations, err := NewCounter(meter, "encargos_operations_total",
		"Encargos operations by name and result", "{operation}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "encargos_operation_duration_seconds",
		Description: "Encargos operation latency",
		Unit:        "s",
		Boundaries:  OperationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	captures, err := NewCounter(meter, "encargos_captures_total",
		"Captured items by source marketplace", "{item}")
	if err != nil {
		return nil, err
	}
	payments, err := NewCounter(meter, "encargos_payments_total",
		"Checkout confirmations by payment status", "{payment}")
	if err != nil {
		return nil, err
	}
	return &EncargoMetrics{
		operations: operations,
		duration:   duration,
		captures:   captures,
		payments:   payments,
	}, nil
}

// RecordOperation counts one operation and its latency since start
func (m *EncargoMetrics) RecordOperation(ctx context.Context, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrOperation.String(operation), AttrResult.String(resultOf(err))}
	m.operations.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, time.Since(start), attrs...)
}

// RecordCapture counts a capture attempt for source
func (m *EncargoMetrics) RecordCapture(ctx context.Context, source string, err error) {
	if m == nil {
		return
	}
	m.captures.Inc(ctx, AttrSource.String(source), AttrResult.String(resultOf(err)))
}

// RecordPayment counts a confirmed payment by its processor status
func (m *EncargoMetrics) RecordPayment(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.payments.Inc(ctx, AttrPaymentStatus.String(status))
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
