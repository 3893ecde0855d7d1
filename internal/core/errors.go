package core

import "errors"

var (
	ErrNotifyFailed       = errors.New("scrape notification failed")
	ErrSinkWriteFailed    = errors.New("sink write failed")
	ErrMissingCallbackURL = errors.New("scrape callback url is not set")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
