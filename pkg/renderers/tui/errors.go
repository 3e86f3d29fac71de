package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoStep is returned when the view points outside its template.
	ErrNoStep = errors.New("tui: step out of range")
)
