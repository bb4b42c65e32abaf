package routing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"humanlayer/hlyr/pkg/providers"
)

// RequestStream streams req from the active adapter. Fragments are forwarded
// as they arrive. If the active stream fails, before or after yielding
// fragments, the failover provider's stream follows on the same channel when
// it can stream; otherwise the original error is delivered as the final chunk.
//
// Fragments already delivered by a failed active stream are not retracted, so
// the concatenated output may hold a partial reply followed by the failover's
// full reply. WithStreamBuffering changes this.
//
// ErrNoActiveProvider and *StreamingUnsupportedError are returned directly
// and never trigger failover. Cancelling ctx stops forwarding; fragments not
// yet received are dropped and the channel ends with a chunk carrying
// ctx.Err() before it closes.
func (r *Router) RequestStream(ctx context.Context, req *providers.ChatRequest) (<-chan *providers.StreamChunk, error) {
	active := r.active.Load()
	if active == nil {
		return nil, ErrNoActiveProvider
	}
	streamer, ok := providers.AsStreamer(active.provider)
	if !ok {
		return nil, &StreamingUnsupportedError{Provider: active.name()}
	}

	ctx, logger := r.startCall(ctx)
	ctx, span := r.tracer.Start(ctx, "hlyr.request_stream",
		trace.WithAttributes(attrProvider.String(active.name())),
	)

	r.stats.streamRequests.Add(1)

	// One slot so the cancellation chunk below never blocks the relay.
	out := make(chan *providers.StreamChunk, 1)
	go func() {
		defer close(out)
		defer span.End()
		r.runStream(ctx, logger, span, active, streamer, req, out)
		if err := ctx.Err(); err != nil {
			select {
			case <-out:
			default:
			}
			out <- &providers.StreamChunk{Error: err}
		}
	}()

	return out, nil
}

func (r *Router) runStream(
	ctx context.Context,
	logger *slog.Logger,
	span trace.Span,
	active *binding,
	streamer providers.Streamer,
	req *providers.ChatRequest,
	out chan<- *providers.StreamChunk,
) {
	start := time.Now()
	n, err := r.forward(ctx, active.name(), streamer, req, out, r.bufferStreams)
	if ctx.Err() != nil {
		return
	}
	r.recordRequest(active.name(), start, err)
	if err == nil {
		span.SetAttributes(attrFragments.Int(n))
		return
	}

	r.stats.primaryFailures.Add(1)
	logger.Warn("active provider failed, checking for failover",
		"provider", active.name(),
		"fragments_delivered", n,
		"error", err,
	)

	failover, ok := r.resolveFailover(logger, active, true)
	if !ok {
		span.SetAttributes(attrFailoverOutcome.String(OutcomeUnavailable))
		failSpan(span, err)
		emit(ctx, out, &providers.StreamChunk{Error: err})
		return
	}

	span.SetAttributes(attrFailover.String(failover.name()))
	r.stats.failoversAttempted.Add(1)

	foStreamer, _ := providers.AsStreamer(failover.provider)
	start = time.Now()
	foN, foErr := r.forward(ctx, failover.name(), foStreamer, req, out, false)
	if ctx.Err() != nil {
		return
	}
	r.recordRequest(failover.name(), start, foErr)
	span.SetAttributes(attrFragments.Int(n + foN))

	if foErr != nil {
		r.recorder.RecordFailover(active.name(), failover.name(), OutcomeError)
		span.SetAttributes(attrFailoverOutcome.String(OutcomeError))
		logger.Error("failover provider failed",
			"provider", failover.name(),
			"error", foErr,
		)
		failSpan(span, foErr)
		emit(ctx, out, &providers.StreamChunk{Error: foErr})
		return
	}

	r.stats.failoversSucceeded.Add(1)
	r.recorder.RecordFailover(active.name(), failover.name(), OutcomeSuccess)
	span.SetAttributes(attrFailoverOutcome.String(OutcomeSuccess))
	logger.Info("failover succeeded", "provider", failover.name())
}

// forward opens a stream on s and copies its fragments to out. With buffer
// set, fragments are held until the stream completes and dropped if it fails.
// It returns the number of fragments delivered and the stream error, if any.
func (r *Router) forward(
	ctx context.Context,
	name string,
	s providers.Streamer,
	req *providers.ChatRequest,
	out chan<- *providers.StreamChunk,
	buffer bool,
) (int, error) {
	chunks, err := s.StreamCompletion(ctx, req)
	if err != nil {
		return 0, err
	}

	var held []string
	delivered := 0
	for {
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				for _, delta := range held {
					if !r.deliver(ctx, out, name, delta) {
						return delivered, ctx.Err()
					}
					delivered++
				}
				return delivered, nil
			}
			if chunk == nil {
				continue
			}
			if chunk.Error != nil {
				return delivered, chunk.Error
			}
			if buffer {
				held = append(held, chunk.Delta)
				continue
			}
			if !r.deliver(ctx, out, name, chunk.Delta) {
				return delivered, ctx.Err()
			}
			delivered++
		}
	}
}

func (r *Router) deliver(ctx context.Context, out chan<- *providers.StreamChunk, name, delta string) bool {
	if !emit(ctx, out, &providers.StreamChunk{Delta: delta}) {
		return false
	}
	r.recorder.RecordFragment(name)
	return true
}

// emit sends chunk unless ctx is done first.
func emit(ctx context.Context, out chan<- *providers.StreamChunk, chunk *providers.StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
