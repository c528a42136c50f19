package audit

import "errors"

var (
	ErrInvalidSchedule = errors.New("invalid audit schedule")
	ErrListWorkloads   = errors.New("list workloads")
	ErrSetAnnotation   = errors.New("set violation annotation")
)
