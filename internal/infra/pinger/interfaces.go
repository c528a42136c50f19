package pinger

import (
	"context"
	"time"
)

// Pinger is a component whose health is probed periodically.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// A pinger may implement any of the following to change how its result is
// interpreted. Both criticality flags default to true.
type (
	readyCriticalPinger interface {
		PingerReadyCritical() bool
	}

	healthCriticalPinger interface {
		PingerCritical() bool
	}

	timeoutPinger interface {
		PingerTimeout() time.Duration
	}
)
