package captions

import "strings"

const ellipsis = "..."

// WrapLines splits caption text into display lines using greedy fill:
// words are appended to the current line while they fit within maxChars
// (counting the joining space). Widths are measured in runes, not bytes,
// so multi-byte scripts wrap at the intended width and are never split
// mid-character. A single word longer than maxChars is hard-split. When
// the wrapped text exceeds maxLines, the result is truncated and the
// final line ends in "...", never exceeding maxChars.
func WrapLines(text string, maxChars, maxLines int) []string {
	if maxChars <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	var current []rune

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		switch {
		case len(current) == 0 && len(runes) <= maxChars:
			current = append(current, runes...)
		case len(current) > 0 && len(current)+1+len(runes) <= maxChars:
			current = append(current, ' ')
			current = append(current, runes...)
		default:
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = current[:0]
			}
			// Hard-split a word that cannot fit on a line of its own.
			for len(runes) > maxChars {
				lines = append(lines, string(runes[:maxChars]))
				runes = runes[maxChars:]
			}
			current = append(current[:0], runes...)
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		cut := maxChars - len(ellipsis)
		if cut < 0 {
			cut = 0
		}
		if len(last) > cut {
			last = last[:cut]
		}
		lines[maxLines-1] = string(last) + ellipsis
	}
	return lines
}
