package otel

import (
	"errors"
	"fmt"
	"time"

	"rolloff/shared/failure"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Scope wraps a single span. Callers defer End right after opening it, and report a named error
// return through a deferred closure so the final value is seen.
type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type span struct {
	inner oteltrace.Span
}

func NewScope(s oteltrace.Span) Scope {
	return &span{inner: s}
}

func (s *span) End() {
	s.inner.End()
}

// TraceError records err on the span. Client errors (4xx) are recorded as events without marking
// the span failed, so dashboards only count server side failures.
func (s *span) TraceError(err error) {
	var f *failure.Failure
	if errors.As(err, &f) && f.Code < 500 {
		s.inner.AddEvent("client error", oteltrace.WithAttributes(
			attribute.Int("http.status_code", f.Code),
			attribute.String("error.message", f.Message),
		))

		return
	}

	s.inner.RecordError(err)
	s.inner.SetStatus(codes.Error, err.Error())
}

func (s *span) TraceIfError(err error) {
	if err == nil {
		return
	}

	s.TraceError(err)
}

func (s *span) AddEvent(name string) {
	s.inner.AddEvent(name)
}

func (s *span) SetAttribute(key string, value any) {
	s.inner.SetAttributes(toAttribute(key, value))
}

func (s *span) SetAttributes(attributes map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, toAttribute(key, value))
	}

	s.inner.SetAttributes(kvs...)
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case decimal.Decimal:
		return attribute.String(key, v.StringFixed(2))
	case time.Time:
		return attribute.String(key, v.Format(time.RFC3339))
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
