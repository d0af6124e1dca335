package bridge

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/koscakluka/ema-espeak/core/bridge"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	eventsDispatched = newCounter("bridge.events.dispatched", "Synthesis events passed to the registered handler")
	batchesAborted   = newCounter("bridge.batches.aborted", "Event batches aborted by the handler")
	captureFailures  = newCounter("bridge.capture.failures", "Failed writes of captured audio")
	handlerPanics    = newCounter("bridge.handler.panics", "Handler invocations that panicked")
	stopDuration     = newHistogram("bridge.stop.duration", "Time spent waiting for a stop to complete", "s")
)

func newCounter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Warn("failed to create counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return counter
}

func newHistogram(name, description, unit string) metric.Float64Histogram {
	histogram, err := meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		logger.Warn("failed to create histogram", "name", name, "error", err)
		return noop.Float64Histogram{}
	}
	return histogram
}
