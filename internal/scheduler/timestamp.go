package scheduler

import (
	"math"
	"strconv"
	"strings"
)

// notSpecified is the sentinel UI surfaces for an empty timestamp field.
const notSpecified = "not specified"

// ParseTimestamp parses a free-form timestamp such as "5.5s", "1.1" or
// "Not specified". A trailing unit suffix is stripped before the numeric
// parse. Failures return a *ParseError; negative and non-finite values are
// failures too, since item start times are never negative.
func ParseTimestamp(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, notSpecified) {
		return 0, &ParseError{Input: input}
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "s"), "S")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, &ParseError{Input: input}
	}
	return v, nil
}
