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
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/actorscope/actorscope/address"
	"github.com/actorscope/actorscope/instrument"
)

const (
	actorAttribute  = "actor_path"
	systemAttribute = "actor_system"
	kindAttribute   = "monitor_kind"
)

// Collector is the OpenTelemetry-backed implementation of
// instrument.Collector. Samples are attributed with the actor path and system
// so a backend can aggregate per actor or per system.
//
// All otel instruments are safe for concurrent use, which makes the collector
// safe to share between the monitors of many cells.
type Collector struct {
	metrics *Metrics
}

var _ instrument.Collector = (*Collector)(nil)

// NewCollector creates a Collector recording through the given Telemetry's
// meter.
func NewCollector(telemetry *Telemetry) (*Collector, error) {
	metrics, err := NewMetrics(telemetry.Meter())
	if err != nil {
		return nil, err
	}
	return &Collector{metrics: metrics}, nil
}

// MonitorCreated records a new live monitor.
func (c *Collector) MonitorCreated(actor, parent *address.Address) {
	c.metrics.Monitors.Add(context.Background(), 1, actorAttributes(actor))
}

// Failure records a processing failure.
func (c *Collector) Failure(actor *address.Address, err error) {
	c.metrics.FailureCount.Add(context.Background(), 1, actorAttributes(actor))
}

// TerminationStarted records the begin of an actor's termination.
func (c *Collector) TerminationStarted(actor *address.Address) {
	c.metrics.TerminationCount.Add(context.Background(), 1, actorAttributes(actor))
}

// MessagesDropped records the messages discarded at termination.
func (c *Collector) MessagesDropped(actor *address.Address, count int64) {
	c.metrics.DroppedCount.Add(context.Background(), count, actorAttributes(actor))
}

// QueueLatency records the time a message spent queued before processing.
func (c *Collector) QueueLatency(actor *address.Address, latency time.Duration) {
	millis := float64(latency) / float64(time.Millisecond)
	c.metrics.QueueLatencyHistogram.Record(context.Background(), millis, actorAttributes(actor))
}

// MonitorCleaned records that a monitor was released.
func (c *Collector) MonitorCleaned(actor *address.Address) {
	c.metrics.Monitors.Add(context.Background(), -1, actorAttributes(actor))
}

// RouterCleaned records that a router monitor was released.
func (c *Collector) RouterCleaned(actor *address.Address) {
	c.metrics.RouterCleanupCount.Add(context.Background(),
		1,
		metric.WithAttributes(
			attribute.String(actorAttribute, actor.String()),
			attribute.String(systemAttribute, actor.System()),
			attribute.String(kindAttribute, "router"),
		))
}

func actorAttributes(actor *address.Address) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String(actorAttribute, actor.String()),
		attribute.String(systemAttribute, actor.System()),
	)
}
