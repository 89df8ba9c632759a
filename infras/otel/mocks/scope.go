package mocks

import "rental/infras/otel"

// scopeImpl discards everything recorded on it.
type scopeImpl struct{}

func (s *scopeImpl) AddEvent(_ string, _ map[string]any) {}

func (s *scopeImpl) End() {}

func (s *scopeImpl) SetAttribute(_ string, _ any) {}

func (s *scopeImpl) SetAttributes(_ map[string]any) {}

func (s *scopeImpl) TraceError(_ error) {}

func (s *scopeImpl) TraceIfError(_ *error) {}

func NewScope() otel.Scope {
	return &scopeImpl{}
}
