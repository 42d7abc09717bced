package otelhelper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpanAndSetError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, "node.execute", attribute.String(NodeIDKey, "a"))
	SetError(span, errors.New("boom"), attribute.String(NodeTypeKey, "loop"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "node.execute", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(NodeIDKey, "a"))
	require.NotEmpty(t, ended[0].Events())
}

func TestNoopTracer(t *testing.T) {
	_, span := StartSpan(context.Background(), NoopTracer(), "run")
	defer span.End()

	assert.False(t, span.SpanContext().IsValid())
}

func TestRecordNodeResult(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	_, ok := StartSpan(context.Background(), tracer, "workflow.node")
	RecordNodeResult(ok, "completed", "")
	ok.End()

	_, failed := StartSpan(context.Background(), tracer, "workflow.node")
	RecordNodeResult(failed, "error", "tool 'crm' failed")
	failed.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(NodeStatusKey, "completed"))

	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "tool 'crm' failed", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
	assert.Equal(t, "node_failed", ended[1].Events()[0].Name)
}

func TestRecordRunStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	_, span := StartSpan(context.Background(), tracer, "workflow.run")
	RecordRunStatus(span, "failed", "1 node(s) failed")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(RunStatusKey, "failed"))
}
