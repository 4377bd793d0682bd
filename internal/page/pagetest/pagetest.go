// Package pagetest provides an in-memory page.Launcher over canned listing
// pages, with hooks for injecting failures.
package pagetest

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/matheuskafuri/hnsort/internal/page"
)

// ErrInjected is the error produced by Fail hooks that want a generic failure.
var ErrInjected = errors.New("injected failure")

// ErrBlock makes the operation wait for its context to end instead of failing
// straight away.
var ErrBlock = errors.New("block until context done")

// Row is one story in a generated listing.
type Row struct {
	ID       string
	Title    string
	URL      string
	Age      string
	Score    string
	By       string
	Comments string
}

// Listing renders rows in Hacker News markup, with a "More" link when more is set.
func Listing(rows []Row, more bool) string {
	var b strings.Builder
	b.WriteString("<html><body><table class=\"itemlist\">\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr class=\"athing\" id=\"%s\"><td class=\"title\"><span class=\"titleline\"><a href=\"%s\">%s</a></span></td></tr>\n",
			html.EscapeString(r.ID), html.EscapeString(r.URL), html.EscapeString(r.Title))
		b.WriteString("<tr><td class=\"subtext\">")
		if r.Score != "" {
			fmt.Fprintf(&b, "<span class=\"score\">%s</span> by ", html.EscapeString(r.Score))
		}
		if r.By != "" {
			fmt.Fprintf(&b, "<a class=\"hnuser\" href=\"user?id=%[1]s\">%[1]s</a> ", html.EscapeString(r.By))
		}
		if r.Age != "" {
			fmt.Fprintf(&b, "<span class=\"age\"><a href=\"item?id=%s\">%s</a></span> | ", html.EscapeString(r.ID), html.EscapeString(r.Age))
		}
		b.WriteString("<a href=\"hide\">hide</a> | ")
		if r.Comments != "" {
			fmt.Fprintf(&b, "<a href=\"item?id=%s\">%s</a>", html.EscapeString(r.ID), html.EscapeString(r.Comments))
		} else {
			fmt.Fprintf(&b, "<a href=\"item?id=%s\">discuss</a>", html.EscapeString(r.ID))
		}
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</table>\n")
	if more {
		b.WriteString("<a class=\"morelink\" href=\"newest?next=1\" rel=\"next\">More</a>\n")
	}
	b.WriteString("</body></html>")
	return b.String()
}

// Site serves Pages in sequence: Navigate shows the first, each Click the next.
type Site struct {
	Pages []string

	// Fail is consulted before every operation with the operation name
	// ("launch", "navigate", "wait", "document", "exists", "click") and the
	// 1-based count of calls to it so far.
	Fail func(op string, call int) error

	mu       sync.Mutex
	calls    map[string]int
	launches int
	closed   int
}

func (s *Site) Launch(ctx context.Context) (page.Page, error) {
	if err := s.check(ctx, "launch"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.launches++
	s.mu.Unlock()
	return &fakePage{site: s, index: -1}, nil
}

// Calls returns how many times op was attempted.
func (s *Site) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Site) Launches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launches
}

func (s *Site) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Site) check(ctx context.Context, op string) error {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
	n := s.calls[op]
	fail := s.Fail
	s.mu.Unlock()

	if fail == nil {
		return ctx.Err()
	}
	err := fail(op, n)
	if errors.Is(err, ErrBlock) {
		<-ctx.Done()
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

type fakePage struct {
	site  *Site
	index int
	doc   *goquery.Document
}

func (p *fakePage) load(i int) error {
	if i >= len(p.site.Pages) {
		return fmt.Errorf("%w: no page %d", page.ErrNavigation, i)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.site.Pages[i]))
	if err != nil {
		return err
	}
	p.index, p.doc = i, doc
	return nil
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if err := p.site.check(ctx, "navigate"); err != nil {
		return fmt.Errorf("%w: %w", page.ErrNavigation, err)
	}
	return p.load(0)
}

func (p *fakePage) WaitFor(ctx context.Context, selector string) error {
	if err := p.site.check(ctx, "wait"); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", page.ErrWaitTimeout, selector)
		}
		return err
	}
	if p.doc == nil {
		return page.ErrNotLoaded
	}
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", page.ErrWaitTimeout, selector)
	}
	return nil
}

func (p *fakePage) Document(ctx context.Context) (*goquery.Document, error) {
	if err := p.site.check(ctx, "document"); err != nil {
		return nil, err
	}
	if p.doc == nil {
		return nil, page.ErrNotLoaded
	}
	return p.doc, nil
}

func (p *fakePage) Exists(ctx context.Context, selector string) (bool, error) {
	if err := p.site.check(ctx, "exists"); err != nil {
		return false, err
	}
	if p.doc == nil {
		return false, page.ErrNotLoaded
	}
	return p.doc.Find(selector).Length() > 0, nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	if err := p.site.check(ctx, "click"); err != nil {
		return fmt.Errorf("%w: %w", page.ErrNavigation, err)
	}
	if p.doc == nil {
		return page.ErrNotLoaded
	}
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", page.ErrNoElement, selector)
	}
	return p.load(p.index + 1)
}

func (p *fakePage) Close() error {
	p.site.mu.Lock()
	p.site.closed++
	p.site.mu.Unlock()
	p.doc = nil
	return nil
}
