package otel

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "int", value: 3, want: attribute.IntValue(3)},
		{name: "int64", value: int64(7), want: attribute.Int64Value(7)},
		{name: "float", value: 1.5, want: attribute.Float64Value(1.5)},
		{name: "strings", value: []string{"admin", "user"}, want: attribute.StringSliceValue([]string{"admin", "user"})},
		{name: "time", value: time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC), want: attribute.StringValue("2030-03-01T00:00:00Z")},
		{name: "duration", value: 1500 * time.Millisecond, want: attribute.Int64Value(1500)},
		{name: "price", value: decimal.RequireFromString("300.00"), want: attribute.StringValue("300")},
		{name: "fallback", value: struct{ A int }{A: 1}, want: attribute.StringValue("{1}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toAttribute("k", tt.value).Value)
		})
	}
}

func TestScopeRecordsOnSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	o := &otelImpl{TracerProvider: provider}

	_, scope := o.NewScope(t.Context(), "service", "service.reservation.Create")
	scope.SetAttribute("reservation.days", 3)
	scope.AddEvent("reservation created", map[string]any{"reservation.id": "r-1"})
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("dates overlap"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "service.reservation.Create", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "dates overlap", span.Status().Description)
	assert.Contains(t, span.Attributes(), attribute.Int("reservation.days", 3))

	var names []string
	for _, event := range span.Events() {
		names = append(names, event.Name)
	}

	assert.Contains(t, names, "reservation created")
}

func TestTraceIfErrorSeesLateAssignment(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	o := &otelImpl{TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))}

	lookup := func() (err error) {
		_, scope := o.NewScope(t.Context(), "repository", "repository.listing.get")
		defer scope.End()
		defer scope.TraceIfError(&err)

		err = errors.New("connection reset")

		return err
	}

	require.Error(t, lookup())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "connection reset", spans[0].Status().Description)
}
