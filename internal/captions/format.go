package captions

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSRT renders segments as an SRT document. Segment text is wrapped
// with the given line limits before rendering.
func FormatSRT(segs []Segment, maxChars, maxLines int) string {
	var b strings.Builder
	for i, seg := range segs {
		lines := WrapLines(seg.Text, maxChars, maxLines)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTTime(seg.Start), formatSRTTime(seg.End))
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatVTT renders segments as a WebVTT document.
func FormatVTT(segs []Segment, maxChars, maxLines int) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range segs {
		lines := WrapLines(seg.Text, maxChars, maxLines)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s --> %s\n", formatVTTTime(seg.Start), formatVTTTime(seg.End))
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

// ParseSRT parses an SRT document into segments. Malformed blocks are
// skipped; parsing is forgiving because subtitle files in the wild rarely
// follow the format exactly.
func ParseSRT(data string) []Segment {
	var segs []Segment
	blocks := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		// The numeric index line is optional in practice.
		timing := lines[0]
		textStart := 1
		if !strings.Contains(timing, "-->") && len(lines) >= 3 {
			timing = lines[1]
			textStart = 2
		}
		parts := strings.SplitN(timing, "-->", 2)
		if len(parts) != 2 {
			continue
		}
		start, okStart := parseSRTTime(strings.TrimSpace(parts[0]))
		end, okEnd := parseSRTTime(strings.TrimSpace(parts[1]))
		if !okStart || !okEnd {
			continue
		}
		text := strings.TrimSpace(strings.Join(lines[textStart:], " "))
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Text: text, Start: start, End: end})
	}
	return segs
}

// formatSRTTime converts seconds to the SRT form HH:MM:SS,mmm.
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	millis := int((seconds - float64(total)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total%3600)/60, total%60, millis)
}

// formatVTTTime converts seconds to the WebVTT form HH:MM:SS.mmm.
func formatVTTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	millis := int((seconds - float64(total)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", total/3600, (total%3600)/60, total%60, millis)
}

// parseSRTTime parses HH:MM:SS,mmm (or a dot separator) into seconds.
func parseSRTTime(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + sec, true
}
