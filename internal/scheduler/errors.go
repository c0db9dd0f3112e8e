package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrStartTimeInPast indicates a caller-supplied start time before now.
	ErrStartTimeInPast = errors.New("start time is in the past")

	// ErrBadStartTime indicates a start time string that could not be
	// parsed as "agora" or "DD/MM/AAAA HH:MM".
	ErrBadStartTime = errors.New("unparsable start time")
)

// EditError reports a failed mutation of a single event, carrying the
// underlying cause (missing event, backend failure).
type EditError struct {
	EventID string
	Err     error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("editing event %s: %v", e.EventID, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}
