package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgRecipeNotFound   = "recipe not found"
	ErrMsgItemNotFound     = "item not found"
	ErrMsgJobNotFound      = "job not found"
	ErrMsgSnapshotNotFound = "snapshot not found"
	ErrMsgFetchFailed      = "remote fetch failed"
	ErrMsgEngineStopped    = "resolution engine stopped"
	ErrMsgInvalidInput     = "invalid input"
)

// Common domain errors.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrRecipeNotFound   = errors.New(ErrMsgRecipeNotFound)
	ErrItemNotFound     = errors.New(ErrMsgItemNotFound)
	ErrJobNotFound      = errors.New(ErrMsgJobNotFound)
	ErrSnapshotNotFound = errors.New(ErrMsgSnapshotNotFound)
	ErrFetchFailed      = errors.New(ErrMsgFetchFailed)
	ErrEngineStopped    = errors.New(ErrMsgEngineStopped)
	ErrInvalidInput     = errors.New(ErrMsgInvalidInput)
)
