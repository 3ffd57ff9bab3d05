// MIT License
//
// Copyright (c) 2024-2026 Actorscope Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

const (
	monitorsCounterName      = "actor_monitors_count"
	failureCounterName       = "actor_failure_count"
	terminationCounterName   = "actor_termination_count"
	droppedCounterName        = "actor_dropped_messages_count"
	routerCleanupCounterName  = "actor_router_cleanup_count"
	queueLatencyHistogramName = "actor_queue_latency"
)

// Metrics define the metrics collected from monitored actors.
type Metrics struct {
	// Monitors captures the number of live monitors, one per actor cell.
	Monitors metric.Int64UpDownCounter
	// FailureCount captures the number of processing failures per actor.
	FailureCount metric.Int64Counter
	// TerminationCount captures the number of actors that started terminating.
	TerminationCount metric.Int64Counter
	// DroppedCount captures the number of messages discarded at termination.
	DroppedCount metric.Int64Counter
	// RouterCleanupCount captures the number of routing actors cleaned up.
	RouterCleanupCount metric.Int64Counter
	// QueueLatencyHistogram captures the time messages spend between send and
	// the start of processing.
	QueueLatencyHistogram metric.Float64Histogram
}

// NewMetrics creates an instance of Metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	metrics := new(Metrics)
	var err error

	if metrics.Monitors, err = meter.Int64UpDownCounter(
		monitorsCounterName,
		metric.WithDescription("The number of live actor monitors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create monitors count instrument, %w", err)
	}

	if metrics.FailureCount, err = meter.Int64Counter(
		failureCounterName,
		metric.WithDescription("The total number of failures raised while processing messages"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failure count instrument, %w", err)
	}

	if metrics.TerminationCount, err = meter.Int64Counter(
		terminationCounterName,
		metric.WithDescription("The total number of actors that started terminating"),
	); err != nil {
		return nil, fmt.Errorf("failed to create termination count instrument, %w", err)
	}

	if metrics.DroppedCount, err = meter.Int64Counter(
		droppedCounterName,
		metric.WithDescription("The total number of queued messages discarded at termination"),
	); err != nil {
		return nil, fmt.Errorf("failed to create dropped count instrument, %w", err)
	}

	if metrics.RouterCleanupCount, err = meter.Int64Counter(
		routerCleanupCounterName,
		metric.WithDescription("The total number of routing actors cleaned up at termination"),
	); err != nil {
		return nil, fmt.Errorf("failed to create router cleanup count instrument, %w", err)
	}

	if metrics.QueueLatencyHistogram, err = meter.Float64Histogram(
		queueLatencyHistogramName,
		metric.WithDescription("The time messages spend queued before processing in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queue latency instrument, %w", err)
	}

	return metrics, nil
}
