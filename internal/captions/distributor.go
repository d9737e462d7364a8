package captions

import "strings"

// WordWindow is one word-level display window produced by Distribute.
type WordWindow struct {
	Word     string
	Start    float64
	Duration float64
}

// Distribute expands one segment into word-level display windows.
//
// When the segment carries word timings, each timing maps to a window (the
// precise path). Timings are clamped into the segment and forced
// non-decreasing; entries left without any span after clamping are dropped.
// Otherwise the segment window is split equally across the
// whitespace-separated words of the text; the equal split is a known
// approximation of speech rhythm, not a defect. Empty text yields an empty
// result.
func Distribute(seg Segment) ([]WordWindow, error) {
	if seg.End < seg.Start {
		return nil, &InvalidSegmentError{Start: seg.Start, End: seg.End}
	}

	if len(seg.Words) > 0 {
		out := make([]WordWindow, 0, len(seg.Words))
		cursor := seg.Start
		for _, w := range seg.Words {
			word := strings.TrimSpace(w.Word)
			if word == "" {
				continue
			}
			start, end := w.Start, w.End
			if start < cursor {
				start = cursor
			}
			if end > seg.End {
				end = seg.End
			}
			if end <= start {
				continue
			}
			out = append(out, WordWindow{Word: word, Start: start, Duration: end - start})
			cursor = end
		}
		return out, nil
	}

	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil, nil
	}
	wordDuration := seg.Duration() / float64(len(words))
	out := make([]WordWindow, len(words))
	for i, word := range words {
		out[i] = WordWindow{
			Word:     word,
			Start:    seg.Start + float64(i)*wordDuration,
			Duration: wordDuration,
		}
	}
	return out, nil
}
