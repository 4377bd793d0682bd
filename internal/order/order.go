// Package order filters, sorts and trims a collected result set.
//
// Apply fixes the composition: filter by minimum age, sort oldest first,
// apply the requested direction, then cap. Capping any earlier would keep an
// arbitrary subset instead of the oldest or newest items.
package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matheuskafuri/hnsort/internal/listing"
)

var ErrInvalidDirection = errors.New("invalid order direction")

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q (want asc or desc)", ErrInvalidDirection, s)
}

type Options struct {
	MinAge    int // minutes
	Direction Direction
	Limit     int
}

// Apply runs filter, ascending sort, direction and cap in that order.
func Apply(items []listing.Item, opts Options, now time.Time) []listing.Item {
	out := FilterByMinAge(items, opts.MinAge, now)
	out = SortAscending(out, now)
	out = ApplyOrder(out, opts.Direction)
	return Cap(out, opts.Limit)
}

// FilterByMinAge keeps items at least minMinutes old. Unparseable ages count
// as zero minutes, so they are dropped by any positive minimum.
func FilterByMinAge(items []listing.Item, minMinutes int, now time.Time) []listing.Item {
	if minMinutes <= 0 {
		return items
	}
	var out []listing.Item
	for _, it := range listing.Enrich(items, now) {
		if it.Age.MinutesAgo >= minMinutes {
			out = append(out, it)
		}
	}
	return out
}

// SortAscending returns a new slice ordered oldest first. Ties keep their
// input order.
func SortAscending(items []listing.Item, now time.Time) []listing.Item {
	out := listing.Enrich(items, now)
	slices.SortStableFunc(out, func(a, b listing.Item) int {
		return a.Age.At.Compare(b.Age.At)
	})
	return out
}

func IsSortedAscending(items []listing.Item, now time.Time) bool {
	enriched := listing.Enrich(items, now)
	for i := 1; i < len(enriched); i++ {
		if enriched[i-1].Age.At.After(enriched[i].Age.At) {
			return false
		}
	}
	return true
}

// ApplyOrder returns items as given for Asc and a reversed copy for Desc.
func ApplyOrder(items []listing.Item, d Direction) []listing.Item {
	if d != Desc {
		return items
	}
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}

// Cap returns at most the first n items; n <= 0 means no cap.
func Cap(items []listing.Item, n int) []listing.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n:n]
}
