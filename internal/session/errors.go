package session

import "errors"

var (
	// ErrConfiguration covers missing credentials and channels that cannot
	// be resolved by name.
	ErrConfiguration = errors.New("configuration error")

	// ErrPlatformRequest wraps any failed call to Discord.
	ErrPlatformRequest = errors.New("platform request failed")

	// ErrInvariant is returned when an event does not have the shape the
	// workflow relies on, e.g. a summary message without its tags field.
	ErrInvariant = errors.New("logic invariant violated")

	ErrInvalidTransition = errors.New("invalid session state transition")
)
