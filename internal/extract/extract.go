// Package extract turns the rendered listing page into raw items.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/matheuskafuri/hnsort/internal/page"
)

// ErrExtractionTimeout is returned when the listing rows never appear.
var ErrExtractionTimeout = errors.New("extraction timed out")

// Selectors locate each field of a listing row.
type Selectors struct {
	Row      string `yaml:"row"`
	Title    string `yaml:"title"`
	Subtext  string `yaml:"subtext"`
	Age      string `yaml:"age"`
	Score    string `yaml:"score"`
	Author   string `yaml:"author"`
	Comments string `yaml:"comments"` // substring of the subtext link that counts comments
	More     string `yaml:"more"`
}

// DefaultSelectors matches the Hacker News listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Row:      "tr.athing",
		Title:    ".titleline a",
		Subtext:  ".subtext",
		Age:      ".age a",
		Score:    ".score",
		Author:   ".hnuser",
		Comments: "comment",
		More:     "a.morelink",
	}
}

type Extractor struct {
	sel Selectors
}

func New(sel Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Extract returns the page's rows top to bottom. Missing fields are left
// empty; nothing is deduplicated or normalized here.
func (e *Extractor) Extract(ctx context.Context, p page.Page) ([]listing.Item, error) {
	if err := p.WaitFor(ctx, e.sel.Row); err != nil {
		if errors.Is(err, page.ErrWaitTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrExtractionTimeout, err)
		}
		return nil, err
	}

	doc, err := p.Document(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return e.FromDocument(doc), nil
}

// FromDocument transcribes every row of an already loaded document.
func (e *Extractor) FromDocument(doc *goquery.Document) []listing.Item {
	rows := doc.Find(e.sel.Row)
	items := make([]listing.Item, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		items = append(items, e.row(row))
	})
	return items
}

func (e *Extractor) row(row *goquery.Selection) listing.Item {
	it := listing.Item{ID: strings.TrimSpace(row.AttrOr("id", ""))}

	title := row.Find(e.sel.Title).First()
	it.Title = strings.TrimSpace(title.Text())
	it.URL = title.AttrOr("href", "")

	sub := row.Next().Find(e.sel.Subtext).First()
	if sub.Length() == 0 {
		return it
	}
	it.AgeText = strings.TrimSpace(sub.Find(e.sel.Age).First().Text())
	it.Score = strings.TrimSpace(sub.Find(e.sel.Score).First().Text())
	it.By = strings.TrimSpace(sub.Find(e.sel.Author).First().Text())
	sub.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.TrimSpace(a.Text())
		if strings.Contains(text, e.sel.Comments) {
			it.CommentsText = text
			return false
		}
		return true
	})
	return it
}

// HasMore reports whether the page offers a control to the next page.
func (e *Extractor) HasMore(ctx context.Context, p page.Page) (bool, error) {
	return p.Exists(ctx, e.sel.More)
}

// Advance activates the "more" control and waits for the next page.
func (e *Extractor) Advance(ctx context.Context, p page.Page) error {
	if err := p.Click(ctx, e.sel.More); err != nil {
		return fmt.Errorf("advancing: %w", err)
	}
	return nil
}
