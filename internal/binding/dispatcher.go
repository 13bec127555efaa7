package binding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"launchdash/internal/dataset"
	"launchdash/internal/infrastructure"
	"launchdash/pkg/contracts/domain"
)

// TriggerInitial marks updates produced by the initial render.
const TriggerInitial = "initial"

// Dispatcher runs bound recompute functions for control changes.
type Dispatcher struct {
	graph   *Graph
	ds      *dataset.Dataset
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
	tracer  trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records recompute counts and latencies.
func WithMetrics(m *infrastructure.DashboardMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithTracer wraps each recompute in a span.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// NewDispatcher creates a dispatcher over graph and the read-only dataset ds.
func NewDispatcher(graph *Graph, ds *dataset.Dataset, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		graph:  graph,
		ds:     ds,
		logger: logger.With(slog.String("component", "binding_dispatcher")),
		tracer: otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Graph returns the subscription graph.
func (d *Dispatcher) Graph() *Graph { return d.graph }

// Dataset returns the dataset bindings are evaluated against.
func (d *Dispatcher) Dataset() *dataset.Dataset { return d.ds }

// NewSession creates a session starting from the default selection.
func (d *Dispatcher) NewSession(id string) *Session {
	return NewSession(id, d.graph, DefaultSelection(d.ds))
}

// Dispatch applies change to s and returns one update per output bound to
// the changed control. The session stays locked until every update is
// computed, so a client's changes never interleave. When ctx ends before
// the updates are computed the session keeps its previous selection.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, change domain.ControlChange) ([]domain.OutputUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sel
	bindings, sel, err := s.applyLocked(change)
	if err != nil {
		d.metrics.RecordDispatchError(ctx, change.Control, err)
		d.logger.WarnContext(ctx, "Control change rejected",
			slog.String("session_id", s.id),
			slog.String("control", change.Control),
			slog.String("error", err.Error()))
		return nil, err
	}

	d.logger.DebugContext(ctx, "Control change applied",
		slog.String("session_id", s.id),
		slog.String("control", change.Control),
		slog.String("site", sel.NormalizedSite()),
		slog.Float64("payload_low", sel.Payload.Low),
		slog.Float64("payload_high", sel.Payload.High),
		slog.Int("outputs", len(bindings)))

	updates, err := d.run(ctx, bindings, sel, change.Control)
	if err != nil {
		s.sel = prev
		return nil, err
	}
	return updates, nil
}

// Evaluate computes the outputs bound to changed for an explicit selection,
// without session state.
func (d *Dispatcher) Evaluate(ctx context.Context, sel domain.Selection, changed string) ([]domain.OutputUpdate, error) {
	if !d.graph.Knows(changed) {
		err := fmt.Errorf("%w: %q", ErrUnknownControl, changed)
		d.metrics.RecordDispatchError(ctx, changed, err)
		return nil, err
	}
	return d.run(ctx, d.graph.Subscribers(changed), sel, changed)
}

// Initial computes every output once for the session's current state.
func (d *Dispatcher) Initial(ctx context.Context, s *Session) ([]domain.OutputUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return d.run(ctx, d.graph.Bindings(), s.sel, TriggerInitial)
}

func (d *Dispatcher) run(ctx context.Context, bindings []Binding, sel domain.Selection, trigger string) ([]domain.OutputUpdate, error) {
	updates := make([]domain.OutputUpdate, 0, len(bindings))
	for _, b := range bindings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		updates = append(updates, d.recompute(ctx, b, sel, trigger))
	}
	return updates, nil
}

func (d *Dispatcher) recompute(ctx context.Context, b Binding, sel domain.Selection, trigger string) domain.OutputUpdate {
	ctx, span := d.tracer.Start(ctx, "binding.recompute", trace.WithAttributes(
		attribute.String("output", b.Output),
		attribute.String("trigger", trigger),
		attribute.String("site", sel.NormalizedSite()),
	))
	defer span.End()

	start := time.Now()
	figure := b.Recompute(d.ds, sel)
	elapsed := time.Since(start)

	d.metrics.RecordRecompute(ctx, b.Output, trigger, elapsed)
	span.SetStatus(codes.Ok, "")

	return domain.OutputUpdate{Output: b.Output, Trigger: trigger, Figure: figure}
}
