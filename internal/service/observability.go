package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// UseCaseEvent captures lightweight execution telemetry for a governance use
// case. StartedAt and Duration are wall-clock measurements of the call
// itself, unrelated to the ledger time the operation was evaluated at.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs,
			"error", event.Err.Error(),
			"error_class", string(domain.ClassOf(event.Err)),
		)
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

type traceUseCaseObserver struct {
	tracer trace.Tracer
}

// NewTraceUseCaseObserver records each use case as a span on tracer, backdated
// to the moment the use case started.
func NewTraceUseCaseObserver(tracer trace.Tracer) UseCaseObserver {
	if tracer == nil {
		return NoopUseCaseObserver{}
	}
	return &traceUseCaseObserver{tracer: tracer}
}

func (o *traceUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]attribute.KeyValue, 0, 2+len(event.Fields))
	attrs = append(attrs,
		attribute.String("agora.use_case", event.Name),
		attribute.Bool("agora.success", event.Success),
	)
	for k, v := range event.Fields {
		attrs = append(attrs, fieldAttribute("agora."+k, v))
	}

	_, span := o.tracer.Start(ctx, "agora."+event.Name,
		trace.WithTimestamp(event.StartedAt),
		trace.WithAttributes(attrs...),
	)
	if event.Err != nil {
		span.RecordError(event.Err)
		span.SetAttributes(attribute.String("agora.error_class", string(domain.ClassOf(event.Err))))
		span.SetStatus(codes.Error, event.Err.Error())
	}
	span.End(trace.WithTimestamp(event.StartedAt.Add(event.Duration)))
}

func fieldAttribute(key string, v any) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(key, val)
	case bool:
		return attribute.Bool(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case uint64:
		return attribute.Int64(key, int64(val))
	case fmt.Stringer:
		return attribute.String(key, val.String())
	default:
		return attribute.String(key, fmt.Sprint(val))
	}
}

// MultiUseCaseObserver fans each event out to every observer in order.
type MultiUseCaseObserver []UseCaseObserver

func (m MultiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		if obs != nil {
			obs.ObserveUseCase(ctx, event)
		}
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live MultiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

// observeUseCase reports one finished use case. It is meant to be deferred
// with a pointer to the named error result.
func observeUseCase(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err *error) {
	var e error
	if err != nil {
		e = *err
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   e == nil,
		Err:       e,
		Fields:    fields,
	})
}
