package engine

import "errors"

var (
	// ErrInvalidToken is returned for a layout cell that is not a known token
	ErrInvalidToken = errors.New("unrecognized map item")
	// ErrInvalidRenderable is returned for a renderable without image paths
	ErrInvalidRenderable = errors.New("invalid renderable: no paths")
	// ErrInvalidDirection is returned for input that does not name a direction
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInputQueueFull is returned when more than MaxPendingInputs are waiting
	ErrInputQueueFull = errors.New("input queue full")
	// ErrStateMismatch is returned when a snapshot does not fit the loaded level
	ErrStateMismatch = errors.New("state does not match level")
)
