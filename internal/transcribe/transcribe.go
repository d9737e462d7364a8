// Package transcribe turns a clip's audio into timed caption segments.
// The only implementation shells out to the whisper CLI; the interface
// exists so the pipeline and its tests do not depend on the binary.
package transcribe

import (
	"context"
	"sync"

	"clipforge/internal/captions"
)

// Status reports how a transcription run ended.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Result carries the outcome and, on completion, the recognized segments
// with per-word timings when the backend provides them.
type Result struct {
	Status   Status
	Language string
	Segments []captions.Segment
}

// Transcriber produces caption segments for a media file. A cancelled
// token yields StatusCancelled with a nil error; failures of the backend
// itself return StatusFailed and the error.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, tok *Token) (Result, error)
}

// Token is a cooperative cancellation handle. A long transcription polls
// it at a bounded interval, so cancellation takes effect within one poll
// even while the backend process is running. The zero value is not usable;
// call NewToken.
type Token struct {
	once sync.Once
	done chan struct{}
}

func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel requests cancellation. Safe to call from any goroutine, any
// number of times.
func (t *Token) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
