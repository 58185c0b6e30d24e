package domain

import "errors"

// Error taxonomy for the forecast engine.
//
// ErrInsufficientData and ErrInvalidArgument are fatal to the caller of the
// specific computation. ErrUpstreamUnavailable is recovered locally: components
// that can degrade (holiday lookups, AOV lookups) fall back to neutral values
// and attach a warning string instead of propagating it.
var (
	// ErrInsufficientData - not enough history for a mathematically meaningful
	// result (fewer than 3 historical months, or zero days of actuals).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUpstreamUnavailable - a boundary lookup failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidArgument - caller contract violation (out-of-range weekday
	// index, negative day counts).
	ErrInvalidArgument = errors.New("invalid argument")
)
