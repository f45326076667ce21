// Package trace provides the optional, zero-cost-by-default tracing hook
// used by package parser. Real implementations sit on top of zap; the
// default is a no-op so normal Parse calls pay nothing for it.
package trace

import "go.uber.org/zap"

// Span is a single traced region. End must be called exactly once.
type Span interface {
	End()
}

// Tracer starts Spans. Start must never return nil.
type Tracer interface {
	Start(name string) Span
}

type noopTracer struct{}
type noopSpan struct{}

func (noopSpan) End() {}

func (noopTracer) Start(string) Span { return noopSpan{} }

// NoOp returns a Tracer whose spans do nothing.
func NoOp() Tracer { return noopTracer{} }

// Zap returns a Tracer that logs span start/end at debug level through
// logger, suitable for wiring into parser.WithTracer during development
// or incident diagnosis.
func Zap(logger *zap.Logger) Tracer {
	return zapTracer{logger: logger}
}

type zapTracer struct {
	logger *zap.Logger
}

type zapSpan struct {
	logger *zap.Logger
	name   string
}

func (t zapTracer) Start(name string) Span {
	t.logger.Debug("span start", zap.String("span", name))
	return zapSpan{logger: t.logger, name: name}
}

func (s zapSpan) End() {
	s.logger.Debug("span end", zap.String("span", s.name))
}
