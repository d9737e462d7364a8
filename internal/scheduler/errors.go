package scheduler

import (
	"errors"
	"fmt"
)

// ErrNoValidItems reports that a non-empty batch produced zero scheduled
// items. Callers must distinguish this from "some items skipped", which is
// reported through warnings only.
var ErrNoValidItems = errors.New("scheduler: no valid items scheduled")

// ParseError reports a timestamp string that cannot be interpreted. The
// overlay is skipped and a warning recorded; the value is never silently
// defaulted.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scheduler: cannot parse timestamp %q", e.Input)
}

// OutOfRangeError reports an overlay that would start at or after the end
// of the media, or whose clamped duration is not positive.
type OutOfRangeError struct {
	Start         float64
	MediaDuration float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("scheduler: overlay at %.3fs is outside media of %.3fs", e.Start, e.MediaDuration)
}

// TrackConflictError reports an overlay rejected by the "reject" conflict
// policy because its interval intersects an existing item on the same
// track.
type TrackConflictError struct {
	TrackIndex int
	Start      float64
	End        float64
}

func (e *TrackConflictError) Error() string {
	return fmt.Sprintf("scheduler: overlay [%.3f, %.3f) conflicts with an existing item on track %d",
		e.Start, e.End, e.TrackIndex)
}

// Warning couples a skipped request with the reason it was skipped.
type Warning struct {
	Index int
	Ref   string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("request %d (%s): %v", w.Index, w.Ref, w.Err)
}
