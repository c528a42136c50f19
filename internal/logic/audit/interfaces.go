package audit

import (
	"context"
	"time"
)

// Repository is the port interface for K8s operations.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	ListWorkloadsQuery(
		ctx context.Context,
		labelSelector string,
	) ([]Workload, error)

	// SetAnnotationCommand sets key to value on the workload; an empty value removes the key.
	SetAnnotationCommand(
		ctx context.Context,
		namespace,
		name,
		key,
		value string,
	) error
}

// Scheduler computes cron occurrences.
type Scheduler interface {
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}
