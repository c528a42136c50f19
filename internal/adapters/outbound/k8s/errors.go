package k8s

// TooManyRequestsError represents an API server throttling response.
type TooManyRequestsError struct{}

func (e *TooManyRequestsError) Error() string {
	return "too many requests"
}

func (e *TooManyRequestsError) IsTooManyRequests() {}

var errTooManyRequests = &TooManyRequestsError{}

// WorkloadNotFoundError represents a workload deleted between list and patch.
type WorkloadNotFoundError struct{}

func (e *WorkloadNotFoundError) Error() string {
	return "workload not found"
}

func (e *WorkloadNotFoundError) IsNotFound() {}

var errWorkloadNotFound = &WorkloadNotFoundError{}
