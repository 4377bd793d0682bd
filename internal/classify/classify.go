// Package classify tags stories by the title prefixes Hacker News uses for
// its own post types.
package classify

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/matheuskafuri/hnsort/internal/listing"
)

// Kind is a story's post type.
type Kind string

const (
	Ask    Kind = "Ask HN"
	Show   Kind = "Show HN"
	Launch Kind = "Launch HN"
	Tell   Kind = "Tell HN"
	Story  Kind = "Story"
)

// AllKinds returns every kind in canonical order.
func AllKinds() []Kind {
	return []Kind{Ask, Show, Launch, Tell, Story}
}

// Aliases maps short CLI values to kinds.
var Aliases = map[string]Kind{
	"ask":    Ask,
	"show":   Show,
	"launch": Launch,
	"tell":   Tell,
	"story":  Story,
}

// ResolveAlias maps a CLI alias or a full kind name to a Kind.
func ResolveAlias(alias string) (Kind, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if k, ok := Aliases[alias]; ok {
		return k, nil
	}
	for _, k := range AllKinds() {
		if strings.EqualFold(string(k), alias) {
			return k, nil
		}
	}
	valid := make([]string, 0, len(Aliases))
	for k := range Aliases {
		valid = append(valid, k)
	}
	slices.Sort(valid)
	return "", fmt.Errorf("unknown kind %q (valid: %s)", alias, strings.Join(valid, ", "))
}

// ResolveAll resolves every alias, failing on the first unknown one.
func ResolveAll(aliases []string) ([]Kind, error) {
	var kinds []Kind
	for _, a := range aliases {
		k, err := ResolveAlias(a)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// Classify reads the kind from the first two words of a title. "Show HN:",
// "show hn -" and "Show HN" followed by a space all count; anything else is
// a plain Story.
func Classify(title string) Kind {
	words := tokenize(title, 2)
	if len(words) < 2 || words[1] != "hn" {
		return Story
	}
	for _, k := range []Kind{Ask, Show, Launch, Tell} {
		if strings.EqualFold(strings.Fields(string(k))[0], words[0]) {
			return k
		}
	}
	return Story
}

// Filter keeps items whose kind is one of kinds. No kinds keeps everything.
func Filter(items []listing.Item, kinds ...Kind) []listing.Item {
	if len(kinds) == 0 {
		return items
	}
	out := make([]listing.Item, 0, len(items))
	for _, it := range items {
		if slices.Contains(kinds, Classify(it.Title)) {
			out = append(out, it)
		}
	}
	return out
}

func tokenize(s string, max int) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" {
			continue
		}
		tokens = append(tokens, word)
		if len(tokens) == max {
			break
		}
	}
	return tokens
}
