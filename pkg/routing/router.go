package routing

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/telemetry/logging"
)

// Span attribute keys.
const (
	attrProvider        = attribute.Key("hlyr.provider")
	attrFailover        = attribute.Key("hlyr.failover.provider")
	attrFailoverOutcome = attribute.Key("hlyr.failover.outcome")
	attrFragments       = attribute.Key("hlyr.stream.fragments")
)

// binding is an adapter committed as active together with its identifier.
type binding struct {
	id       providers.ProviderID
	provider providers.Provider
}

func (b *binding) name() string {
	return b.provider.GetName()
}

// Router holds the active provider adapter and issues requests through it.
// When the active adapter fails, the Router retries the call exactly once on
// the failover provider named by its ConfigSource.
//
// Request and RequestStream may be called concurrently. A call racing with
// SetActiveProvider observes either the old or the new adapter.
//
// Example usage:
//
//	router := routing.NewRouter(providerfactory.NewRegistry(), source,
//	    routing.WithLogger(logger),
//	)
//	if err := router.SetActiveProvider(providers.ProviderOllama, cfg); err != nil {
//	    return err
//	}
//
//	resp, err := router.Request(ctx, providers.NewConversation(
//	    providers.Message{Role: providers.RoleUser, Content: "Hello!"},
//	))
type Router struct {
	registry Registry
	source   ConfigSource

	active atomic.Pointer[binding]

	logger        *slog.Logger
	recorder      Recorder
	tracer        trace.Tracer
	bufferStreams bool

	stats atomicStats
}

// NewRouter creates a Router with no active provider.
func NewRouter(registry Registry, source ConfigSource, opts ...Option) *Router {
	r := &Router{
		registry: registry,
		source:   source,
		logger:   slog.Default(),
		recorder: nopRecorder{},
		tracer:   noop.NewTracerProvider().Tracer("hlyr/routing"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetActiveProvider looks up the adapter for id, initializes it with cfg and
// commits it as active. On any failure the previous adapter stays active.
func (r *Router) SetActiveProvider(id providers.ProviderID, cfg providers.ProviderConfig) error {
	provider, err := r.registry.Lookup(id)
	if err != nil {
		return err
	}
	if err := provider.Initialize(cfg); err != nil {
		return err
	}

	r.active.Store(&binding{id: id, provider: provider})

	r.logger.Info("active provider set",
		"provider_id", id,
		"provider", provider.GetName(),
		"model", cfg.Model,
	)
	return nil
}

// SetActiveProviderByName is SetActiveProvider for an unparsed identifier.
func (r *Router) SetActiveProviderByName(name string, cfg providers.ProviderConfig) error {
	return r.SetActiveProvider(providers.ProviderID(name), cfg)
}

// GetActiveProvider returns the active adapter, or false if none is set.
func (r *Router) GetActiveProvider() (providers.Provider, bool) {
	b := r.active.Load()
	if b == nil {
		return nil, false
	}
	return b.provider, true
}

// ActiveProviderID returns the identifier of the active adapter.
func (r *Router) ActiveProviderID() (providers.ProviderID, bool) {
	b := r.active.Load()
	if b == nil {
		return "", false
	}
	return b.id, true
}

// Stats returns a snapshot of the router counters.
func (r *Router) Stats() Stats {
	return r.stats.snapshot()
}

// Request sends req to the active adapter. If that call fails, it is retried
// once on the failover provider; the failover's result or error is then the
// outcome. When no failover can be used, or ctx is done, the active
// adapter's error is returned unchanged.
func (r *Router) Request(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	active := r.active.Load()
	if active == nil {
		return nil, ErrNoActiveProvider
	}

	ctx, logger := r.startCall(ctx)
	ctx, span := r.tracer.Start(ctx, "hlyr.request",
		trace.WithAttributes(attrProvider.String(active.name())),
	)
	defer span.End()

	r.stats.requests.Add(1)

	resp, err := r.send(ctx, active, req)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		failSpan(span, err)
		return nil, err
	}

	r.stats.primaryFailures.Add(1)
	logger.Warn("active provider failed, checking for failover",
		"provider", active.name(),
		"error", err,
	)

	failover, ok := r.resolveFailover(logger, active, false)
	if !ok {
		span.SetAttributes(attrFailoverOutcome.String(OutcomeUnavailable))
		failSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attrFailover.String(failover.name()))
	r.stats.failoversAttempted.Add(1)

	resp, foErr := r.send(ctx, failover, req)
	if foErr != nil {
		r.recorder.RecordFailover(active.name(), failover.name(), OutcomeError)
		span.SetAttributes(attrFailoverOutcome.String(OutcomeError))
		logger.Error("failover provider failed",
			"provider", failover.name(),
			"error", foErr,
		)
		failSpan(span, foErr)
		return nil, foErr
	}

	r.stats.failoversSucceeded.Add(1)
	r.recorder.RecordFailover(active.name(), failover.name(), OutcomeSuccess)
	span.SetAttributes(attrFailoverOutcome.String(OutcomeSuccess))
	logger.Info("failover succeeded", "provider", failover.name())
	return resp, nil
}

// send performs one adapter call and records its outcome.
func (r *Router) send(ctx context.Context, b *binding, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	start := time.Now()
	resp, err := b.provider.SendCompletion(ctx, req)
	r.recordRequest(b.name(), start, err)
	return resp, err
}

func (r *Router) recordRequest(provider string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	r.recorder.RecordRequest(provider, outcome, time.Since(start))
}

// startCall stamps ctx and the returned logger with a fresh request ID.
func (r *Router) startCall(ctx context.Context) (context.Context, *slog.Logger) {
	requestID := uuid.NewString()
	return logging.WithRequestID(ctx, requestID), r.logger.With("request_id", requestID)
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
