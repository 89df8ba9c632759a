package otel

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Scope wraps one span. Callers End it exactly once, usually via defer.
type Scope interface {
	End()
	TraceError(err error)
	// TraceIfError records *err when the deferred call runs, so pass the named result.
	TraceIfError(err *error)
	AddEvent(name string, attributes map[string]any)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

func (s *scopeImpl) TraceError(err error) {
	if err == nil {
		return
	}

	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err *error) {
	if err != nil {
		s.TraceError(*err)
	}
}

func (s *scopeImpl) AddEvent(name string, attributes map[string]any) {
	s.span.AddEvent(name, oteltrace.WithAttributes(toAttributes(attributes)...))
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	s.span.SetAttributes(toAttributes(attributes)...)
}

func toAttributes(attributes map[string]any) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attributes))

	for key, value := range attributes {
		kvs = append(kvs, toAttribute(key, value))
	}

	return kvs
}

// toAttribute maps common Go values onto typed span attributes. Prices (decimal.Decimal)
// and other Stringers are recorded by their string form.
func toAttribute(key string, value any) attribute.KeyValue {
	switch val := value.(type) {
	case bool:
		return attribute.Bool(key, val)
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case time.Time:
		return attribute.String(key, val.Format(time.RFC3339))
	case time.Duration:
		return attribute.Int64(key, val.Milliseconds())
	case fmt.Stringer:
		return attribute.String(key, val.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", val))
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
