package routing

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"humanlayer/hlyr/pkg/providers"
)

// Registry resolves provider identifiers to adapter instances.
// providerfactory.Registry implements it.
type Registry interface {
	Lookup(id providers.ProviderID) (providers.Provider, error)
}

// ConfigSource is the read-only view of configuration the Router consults
// when deciding on failover. It is read on every failure, so changes take
// effect on the next failed request. config.Source implements it.
type ConfigSource interface {
	// ActiveProvider returns the configured active provider identifier.
	ActiveProvider() providers.ProviderID

	// FailoverProvider returns the configured failover identifier, if any.
	FailoverProvider() (providers.ProviderID, bool)

	// ProviderConfig returns the configuration block for id, if present.
	ProviderConfig(id providers.ProviderID) (providers.ProviderConfig, bool)
}

// Outcome labels reported to a Recorder.
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
)

// Recorder receives per-call measurements. metrics.ProviderMetrics
// implements it.
type Recorder interface {
	// RecordRequest is called once per adapter call with its outcome.
	RecordRequest(provider, outcome string, duration time.Duration)

	// RecordFailover is called once per primary failure with the failover outcome.
	// to is empty when no failover provider could be used.
	RecordFailover(from, to, outcome string)

	// RecordFragment is called for every fragment delivered to the caller.
	RecordFragment(provider string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, string, time.Duration) {}
func (nopRecorder) RecordFailover(string, string, string)       {}
func (nopRecorder) RecordFragment(string)                       {}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(r *Router) {
		if recorder != nil {
			r.recorder = recorder
		}
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithStreamBuffering makes RequestStream hold back the active provider's
// fragments until its stream completes. If the stream fails, the held
// fragments are discarded and the caller sees only the failover's output.
// Off by default: fragments are forwarded as they arrive and are not
// retracted when failover follows.
func WithStreamBuffering(enabled bool) Option {
	return func(r *Router) {
		r.bufferStreams = enabled
	}
}

// Stats is a point-in-time snapshot of router counters.
type Stats struct {
	// Requests counts Request calls that reached an active adapter
	Requests int64

	// StreamRequests counts RequestStream calls that reached an active adapter
	StreamRequests int64

	// PrimaryFailures counts failures of the active adapter
	PrimaryFailures int64

	// FailoversAttempted counts calls handed to a failover adapter
	FailoversAttempted int64

	// FailoversSucceeded counts failover calls that succeeded
	FailoversSucceeded int64

	// FailoversUnavailable counts primary failures with no usable failover
	FailoversUnavailable int64
}
