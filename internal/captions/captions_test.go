package captions

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDistributeEqualSplit(t *testing.T) {
	seg := Segment{Text: "one two three", Start: 2.5, End: 4.5}

	windows, err := Distribute(seg)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("Expected 3 windows, got %d", len(windows))
	}

	tolerance := 1e-9
	for i, w := range windows {
		if abs(w.Duration-2.0/3.0) > tolerance {
			t.Errorf("Window %d: expected duration ~0.6667, got %.4f", i, w.Duration)
		}
	}
	if abs(windows[1].Start-3.1666666667) > 1e-6 {
		t.Errorf("Expected second word at ~3.1667, got %.4f", windows[1].Start)
	}

	// Windows must tile the segment: adjacent, summing to its duration.
	var total float64
	for i, w := range windows {
		total += w.Duration
		if i > 0 {
			prevEnd := windows[i-1].Start + windows[i-1].Duration
			if abs(w.Start-prevEnd) > tolerance {
				t.Errorf("Window %d starts at %.6f, previous ends at %.6f", i, w.Start, prevEnd)
			}
		}
	}
	if abs(total-seg.Duration()) > tolerance {
		t.Errorf("Window durations sum to %.6f, segment lasts %.6f", total, seg.Duration())
	}
}

func TestDistributePreciseTimings(t *testing.T) {
	seg := Segment{
		Text:  "hello world",
		Start: 1.0,
		End:   2.0,
		Words: []WordTiming{
			{Word: "hello", Start: 1.0, End: 1.4},
			{Word: " ", Start: 1.4, End: 1.5},
			{Word: "world", Start: 1.5, End: 2.0},
		},
	}

	windows, err := Distribute(seg)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("Expected whitespace timing dropped, got %d windows", len(windows))
	}
	if windows[0].Word != "hello" || windows[1].Word != "world" {
		t.Errorf("Unexpected words: %q, %q", windows[0].Word, windows[1].Word)
	}
	if abs(windows[1].Duration-0.5) > 1e-9 {
		t.Errorf("Expected duration 0.5, got %.4f", windows[1].Duration)
	}
}

func TestDistributeClampsWordTimings(t *testing.T) {
	seg := Segment{
		Text:  "a b c d",
		Start: 1.0,
		End:   3.0,
		Words: []WordTiming{
			{Word: "a", Start: 0.5, End: 1.4}, // starts before the segment
			{Word: "b", Start: 1.2, End: 1.8}, // overlaps the previous word
			{Word: "c", Start: 1.9, End: 1.9}, // no span at all
			{Word: "d", Start: 2.5, End: 3.5}, // runs past the segment
		},
	}

	windows, err := Distribute(seg)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("Expected 3 windows after clamping, got %d: %+v", len(windows), windows)
	}

	expected := []WordWindow{
		{Word: "a", Start: 1.0, Duration: 0.4},
		{Word: "b", Start: 1.4, Duration: 0.4},
		{Word: "d", Start: 2.5, Duration: 0.5},
	}
	tolerance := 1e-9
	for i, w := range windows {
		if w.Word != expected[i].Word {
			t.Errorf("Window %d: expected word %q, got %q", i, expected[i].Word, w.Word)
		}
		if abs(w.Start-expected[i].Start) > tolerance || abs(w.Duration-expected[i].Duration) > tolerance {
			t.Errorf("Window %d: expected [%.3f, %.3f], got [%.3f, %.3f]",
				i, expected[i].Start, expected[i].Duration, w.Start, w.Duration)
		}
		if w.Start < seg.Start || w.Start+w.Duration > seg.End+tolerance {
			t.Errorf("Window %d escapes the segment: %+v", i, w)
		}
	}
}

func TestDistributeInvalidSegment(t *testing.T) {
	_, err := Distribute(Segment{Text: "x", Start: 5.0, End: 4.0})
	var invalid *InvalidSegmentError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidSegmentError, got %v", err)
	}

	// Zero-length segments are fine: one word, zero duration.
	windows, err := Distribute(Segment{Text: "x", Start: 4.0, End: 4.0})
	if err != nil {
		t.Fatalf("Zero-length segment failed: %v", err)
	}
	if len(windows) != 1 || windows[0].Duration != 0 {
		t.Errorf("Expected one zero-length window, got %+v", windows)
	}
}

func TestDistributeEmptyText(t *testing.T) {
	windows, err := Distribute(Segment{Text: "   ", Start: 0, End: 1})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("Expected no windows for blank text, got %d", len(windows))
	}
}

func TestWrapLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		maxLines int
		expected []string
	}{
		{"fits on one line", "short text", 30, 2, []string{"short text"}},
		{"greedy fill", "alpha beta gamma", 10, 3, []string{"alpha beta", "gamma"}},
		{"truncated with ellipsis", "alpha beta gamma", 10, 1, []string{"alpha b..."}},
		{"hard split long word", "abcdefghijkl", 5, 3, []string{"abcde", "fghij", "kl"}},
		{"devanagari greedy fill", "नमस्ते दुनिया", 10, 2, []string{"नमस्ते", "दुनिया"}},
		{"devanagari truncated", "नमस्ते दुनिया", 10, 1, []string{"नमस्ते..."}},
		{"cjk hard split", "一二三四五六七八九十百千", 5, 3, []string{"一二三四五", "六七八九十", "百千"}},
		{"empty", "", 10, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := WrapLines(tt.text, tt.maxChars, tt.maxLines)
			if len(lines) != len(tt.expected) {
				t.Fatalf("Expected %d lines, got %d: %v", len(tt.expected), len(lines), lines)
			}
			for i := range lines {
				if lines[i] != tt.expected[i] {
					t.Errorf("Line %d: expected %q, got %q", i, tt.expected[i], lines[i])
				}
				if !utf8.ValidString(lines[i]) {
					t.Errorf("Line %d is not valid UTF-8: %q", i, lines[i])
				}
				if utf8.RuneCountInString(lines[i]) > tt.maxChars {
					t.Errorf("Line %d exceeds %d chars: %q", i, tt.maxChars, lines[i])
				}
			}
		})
	}
}

func TestFormatAndParseSRT(t *testing.T) {
	segs := []Segment{
		{Text: "first line", Start: 0.5, End: 2.0},
		{Text: "second", Start: 2.0, End: 4.25},
	}

	srt := FormatSRT(segs, 30, 2)
	if !strings.Contains(srt, "00:00:00,500 --> 00:00:02,000") {
		t.Errorf("Missing first timing line:\n%s", srt)
	}

	parsed := ParseSRT(srt)
	if len(parsed) != 2 {
		t.Fatalf("Expected 2 segments back, got %d", len(parsed))
	}
	for i := range segs {
		if parsed[i].Text != segs[i].Text {
			t.Errorf("Segment %d: expected text %q, got %q", i, segs[i].Text, parsed[i].Text)
		}
		if abs(parsed[i].Start-segs[i].Start) > 0.001 || abs(parsed[i].End-segs[i].End) > 0.001 {
			t.Errorf("Segment %d: timing drifted: %+v", i, parsed[i])
		}
	}
}

func TestParseSRTForgiving(t *testing.T) {
	// No index lines, CRLF endings, one malformed block.
	srt := "00:00:01,000 --> 00:00:02,000\r\nhello\r\n\r\ngarbage\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nworld\r\n"

	segs := ParseSRT(srt)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != "hello" || segs[1].Text != "world" {
		t.Errorf("Unexpected texts: %q, %q", segs[0].Text, segs[1].Text)
	}
	if segs[1].Start != 3.0 {
		t.Errorf("Expected second start 3.0, got %.3f", segs[1].Start)
	}
}

func TestFormatVTT(t *testing.T) {
	vtt := FormatVTT([]Segment{{Text: "hi", Start: 0, End: 1.5}}, 30, 2)
	if !strings.HasPrefix(vtt, "WEBVTT\n") {
		t.Error("VTT output must start with WEBVTT header")
	}
	if !strings.Contains(vtt, "00:00:00.000 --> 00:00:01.500") {
		t.Errorf("Missing timing line:\n%s", vtt)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
