// Package captions turns transcribed segments into word-level display
// windows and wraps caption text for on-screen display.
package captions

import "fmt"

// WordTiming is a per-word timestamp pair from the transcription
// collaborator. When present, word timings must lie inside the segment and
// be non-decreasing in sequence order.
type WordTiming struct {
	Word  string  `yaml:"word" json:"word"`
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// Segment is one transcribed span of speech. Words is optional; without it
// the distributor falls back to an equal split of the segment window.
type Segment struct {
	Text  string       `yaml:"text" json:"text"`
	Start float64      `yaml:"start" json:"start"`
	End   float64      `yaml:"end" json:"end"`
	Words []WordTiming `yaml:"words,omitempty" json:"words,omitempty"`
}

// Duration is End - Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// InvalidSegmentError reports a segment whose end precedes its start. The
// segment is dropped from captioning; the batch continues.
type InvalidSegmentError struct {
	Start float64
	End   float64
}

func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("captions: segment end %.3f precedes start %.3f", e.End, e.Start)
}
