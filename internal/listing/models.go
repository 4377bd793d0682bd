// Package listing holds the story model shared by the crawler, the ordering
// step and the renderers.
package listing

import (
	"time"

	"github.com/matheuskafuri/hnsort/internal/age"
)

// Item is one row of a listing page. Every text field is transcribed verbatim
// and defaults to "" when the page did not carry it.
type Item struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	AgeText      string   `json:"ageText"`
	Score        string   `json:"score"`
	By           string   `json:"by"`
	CommentsText string   `json:"commentsText"`
	Age          *age.Age `json:"age,omitempty"`
}

// Enriched reports whether the item already carries a usable Age.
func (it Item) Enriched() bool {
	return it.Age != nil && it.Age.Valid()
}

// Enrich returns a new slice where every item has an Age. Items that are
// already enriched are copied through untouched.
func Enrich(items []Item, now time.Time) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if !it.Enriched() {
			a := age.Parse(it.AgeText, now)
			it.Age = &a
		}
		out[i] = it
	}
	return out
}
