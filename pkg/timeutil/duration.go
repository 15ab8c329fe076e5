// Package timeutil converts between rest-period seconds and the compact
// human notation ("90s", "1m30s") used on the command line and in printed
// tables.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]*)`)
	unitMap        = map[string]time.Duration{
		"":        time.Second,
		"s":       time.Second,
		"sec":     time.Second,
		"secs":    time.Second,
		"second":  time.Second,
		"seconds": time.Second,
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
	}
)

// ParseRest parses a rest period such as "90", "90s", "2m" or "1m30s" and
// returns the total seconds along with the canonical compact form. An empty
// input means no rest and parses to zero.
func ParseRest(input string) (int, string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return 0, "", nil
	}

	remaining := trimmed
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := segmentPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 || matches[0] == "" {
			return 0, "", fmt.Errorf("invalid rest segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid rest value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported rest unit %q", matches[2])
		}
		total += time.Duration(value) * base

		remaining = strings.TrimSpace(remaining[len(matches[0]):])
	}

	seconds := int(total / time.Second)
	return seconds, FormatRest(seconds), nil
}

// FormatRest renders seconds using minute/second tokens. Zero or negative
// rests render as the empty string.
func FormatRest(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	mins := seconds / 60
	secs := seconds % 60
	switch {
	case mins == 0:
		return fmt.Sprintf("%ds", secs)
	case secs == 0:
		return fmt.Sprintf("%dm", mins)
	default:
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
}
