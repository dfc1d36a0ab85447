package coursebot

import "errors"

var (
	// ErrIndexNotReady is returned by query operations before the first
	// successful index build.
	ErrIndexNotReady = errors.New("course index not built yet")

	// ErrNoSource indicates a rebuild was requested without a
	// configured course source.
	ErrNoSource = errors.New("no course source configured")
)
