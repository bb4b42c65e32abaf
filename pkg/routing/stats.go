package routing

import (
	"sync/atomic"
)

// atomicStats holds router counters updated lock-free.
type atomicStats struct {
	requests             atomic.Int64
	streamRequests       atomic.Int64
	primaryFailures      atomic.Int64
	failoversAttempted   atomic.Int64
	failoversSucceeded   atomic.Int64
	failoversUnavailable atomic.Int64
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		Requests:             s.requests.Load(),
		StreamRequests:       s.streamRequests.Load(),
		PrimaryFailures:      s.primaryFailures.Load(),
		FailoversAttempted:   s.failoversAttempted.Load(),
		FailoversSucceeded:   s.failoversSucceeded.Load(),
		FailoversUnavailable: s.failoversUnavailable.Load(),
	}
}
