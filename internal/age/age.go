// Package age turns the relative "N units ago" phrases shown on listing pages
// into absolute points in time.
package age

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var phrase = regexp.MustCompile(`(?i)^(\d+)\s+(minute|minutes|hour|hours|day|days)\s+ago$`)

// maxMinutes keeps now-minus-age representable as a time.Duration.
const maxMinutes = math.MaxInt64 / int64(time.Minute)

// Age is the normalized form of a relative-age phrase.
type Age struct {
	At         time.Time `json:"timestamp"`
	MinutesAgo int       `json:"minutesAgo"`
}

// Valid reports whether a has been computed.
func (a Age) Valid() bool {
	return !a.At.IsZero()
}

// Parse normalizes raw against now. Anything outside the grammar falls back to
// {now, 0}, so a MinutesAgo of zero means either "just posted" or "unparseable".
func Parse(raw string, now time.Time) Age {
	fallback := Age{At: now, MinutesAgo: 0}

	m := phrase.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return fallback
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return fallback
	}

	unit := int64(1)
	switch u := strings.ToLower(m[2]); {
	case strings.HasPrefix(u, "hour"):
		unit = 60
	case strings.HasPrefix(u, "day"):
		unit = 24 * 60
	}
	if n > maxMinutes/unit || n*unit > math.MaxInt {
		return fallback
	}

	minutes := n * unit
	return Age{
		At:         now.Add(-time.Duration(minutes) * time.Minute),
		MinutesAgo: int(minutes),
	}
}
