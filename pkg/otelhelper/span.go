package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const RunStatusKey = "flowgraph.run.status"

// SetError marks span as failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// RecordNodeResult tags a node span with the node's terminal status and, for failures, its
// error message.
func RecordNodeResult(span trace.Span, status string, errMsg string) {
	span.SetAttributes(attribute.String(NodeStatusKey, status))

	if errMsg == "" {
		span.SetStatus(codes.Ok, "")

		return
	}

	span.SetStatus(codes.Error, errMsg)
	span.AddEvent("node_failed", trace.WithAttributes(
		attribute.String(NodeStatusKey, status),
		attribute.String("error.message", errMsg),
	))
}

// RecordRunStatus tags a run span with the run's final status.
func RecordRunStatus(span trace.Span, status string, errMsg string) {
	span.SetAttributes(attribute.String(RunStatusKey, status))

	if errMsg != "" {
		span.SetStatus(codes.Error, errMsg)
	}
}
