// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package decoder

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// extractNumber pulls the first numeric literal out of a sensor line.
// If the line contains a colon, only the text after the first colon is
// searched, so "SpO2 (%): 97.1" yields 97.1 and not 2.
func extractNumber(s string) (float64, bool) {
	if _, rest, found := strings.Cut(s, ":"); found {
		s = rest
	}
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// optionalNumber is extractNumber for fields that degrade to absent
// rather than zero.
func optionalNumber(s string) *float64 {
	if value, ok := extractNumber(s); ok {
		return &value
	}
	return nil
}

// normalize prepares a raw line for keyword matching: invalid UTF-8 is
// substituted, the firmware's unicode spellings are folded to ASCII, and
// surrounding whitespace is trimmed.
func normalize(raw string) string {
	s := strings.ToValidUTF8(raw, "�")
	s = strings.ReplaceAll(s, "SpO₂", "SpO2")
	s = strings.ReplaceAll(s, "º", "")
	return strings.TrimSpace(s)
}

// affirmative reports whether a flag line answers YES.
func affirmative(line string) bool {
	return strings.Contains(strings.ToUpper(line), "YES")
}
