package pinger

import "errors"

var (
	ErrPingerNotFound          = errors.New("pinger not found")
	ErrPingerAlreadyRegistered = errors.New("pinger already registered")
	ErrNilPinger               = errors.New("nil pinger")
)
