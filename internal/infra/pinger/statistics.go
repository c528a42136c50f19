package pinger

import (
	"slices"
	"sync"
	"time"
)

// latencyWindow is how many recent ping latencies feed the percentiles.
const latencyWindow = 64

// Statistics is a point-in-time view of one pinger.
type Statistics struct {
	IsReady             bool          `json:"ready"`
	IsHealthy           bool          `json:"healthy"`
	LastRun             time.Time     `json:"lastRun"`
	LastError           string        `json:"lastError,omitempty"`
	LastErrorAt         time.Time     `json:"lastErrorAt,omitzero"`
	Successes           uint64        `json:"successes"`
	Failures            uint64        `json:"failures"`
	ConsecutiveFailures uint64        `json:"consecutiveFailures"`
	LatencyP50          time.Duration `json:"latencyP50"`
	LatencyP99          time.Duration `json:"latencyP99"`
}

// tracker accumulates results for one pinger.
type tracker struct {
	mu             sync.Mutex
	readyCritical  bool
	healthCritical bool
	timeout        time.Duration

	lastRun     time.Time
	lastErr     error
	lastErrAt   time.Time
	successes   uint64
	failures    uint64
	consecutive uint64
	latencies   []time.Duration
	next        int
}

func newTracker(readyCritical, healthCritical bool, timeout time.Duration) *tracker {
	return &tracker{
		readyCritical:  readyCritical,
		healthCritical: healthCritical,
		timeout:        timeout,
		latencies:      make([]time.Duration, 0, latencyWindow),
	}
}

func (t *tracker) record(at time.Time, latency time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastRun = at

	if len(t.latencies) < latencyWindow {
		t.latencies = append(t.latencies, latency)
	} else {
		t.latencies[t.next] = latency
		t.next = (t.next + 1) % latencyWindow
	}

	if err != nil {
		t.lastErr = err
		t.lastErrAt = at
		t.failures++
		t.consecutive++

		return
	}

	t.lastErr = nil
	t.successes++
	t.consecutive = 0
}

// snapshot reports a pinger that has never run as neither ready nor healthy
// unless it is non-critical for that check.
func (t *tracker) snapshot() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	passing := !t.lastRun.IsZero() && t.lastErr == nil

	out := Statistics{
		IsReady:             !t.readyCritical || passing,
		IsHealthy:           !t.healthCritical || passing,
		LastRun:             t.lastRun,
		LastErrorAt:         t.lastErrAt,
		Successes:           t.successes,
		Failures:            t.failures,
		ConsecutiveFailures: t.consecutive,
	}

	if t.lastErr != nil {
		out.LastError = t.lastErr.Error()
	}

	sorted := slices.Clone(t.latencies)
	slices.Sort(sorted)

	out.LatencyP50 = percentile(sorted, 50)
	out.LatencyP99 = percentile(sorted, 99)

	return out
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}

	return sorted[rank-1]
}
