// Package mocks provides tracers for tests: one that records nothing and one that keeps ended spans.
package mocks

import (
	"context"

	"rolloff/infras/otel"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type noopOtel struct{}

type noopScope struct{}

func NewOtel() otel.Otel {
	return noopOtel{}
}

func NewScope() otel.Scope {
	return noopScope{}
}

// NewRecorder returns a tracer whose spans land in the returned recorder once they end.
func NewRecorder() (otel.Otel, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()

	return otel.NewWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))), recorder
}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, noopScope{}
}

func (noopScope) End() {}
func (noopScope) TraceError(error) {}
func (noopScope) TraceIfError(error) {}
func (noopScope) AddEvent(string) {}
func (noopScope) SetAttribute(string, any) {}
func (noopScope) SetAttributes(map[string]any) {}
