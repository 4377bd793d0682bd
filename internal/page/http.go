package page

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// HTTPOptions configures the plain-HTTP engine.
type HTTPOptions struct {
	UserAgent     string
	RespectRobots bool
}

// HTTP fetches pages without rendering them. It suits listings whose markup
// is complete in the server response.
type HTTP struct {
	opts HTTPOptions
}

func NewHTTP(opts HTTPOptions) *HTTP {
	return &HTTP{opts: opts}
}

func (h *HTTP) Launch(ctx context.Context) (Page, error) {
	options := []colly.CollectorOption{colly.AllowURLRevisit()}
	if h.opts.UserAgent != "" {
		options = append(options, colly.UserAgent(h.opts.UserAgent))
	}
	c := colly.NewCollector(options...)
	c.IgnoreRobotsTxt = !h.opts.RespectRobots

	p := &httpPage{collector: c}
	c.OnResponse(func(r *colly.Response) {
		p.last = r
	})
	return p, nil
}

type httpPage struct {
	collector *colly.Collector
	last      *colly.Response
	doc       *goquery.Document
}

func (p *httpPage) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNavigation, rawURL, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		p.collector.SetRequestTimeout(time.Until(deadline))
	}

	p.last = nil
	if err := p.collector.Visit(rawURL); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNavigation, rawURL, err)
	}
	if p.last == nil {
		return fmt.Errorf("%w: %s: empty response", ErrNavigation, rawURL)
	}

	location := rawURL
	if p.last.Request != nil && p.last.Request.URL != nil {
		location = p.last.Request.URL.String()
	}
	doc, err := newDocument(bytes.NewReader(p.last.Body), p.last.Headers.Get("Content-Type"), location)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNavigation, rawURL, err)
	}
	p.doc = doc
	return nil
}

// WaitFor checks the fetched document once; a static response never changes.
func (p *httpPage) WaitFor(ctx context.Context, selector string) error {
	if p.doc == nil {
		return ErrNotLoaded
	}
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", ErrWaitTimeout, selector)
	}
	return nil
}

func (p *httpPage) Document(ctx context.Context) (*goquery.Document, error) {
	if p.doc == nil {
		return nil, ErrNotLoaded
	}
	return p.doc, nil
}

func (p *httpPage) Exists(ctx context.Context, selector string) (bool, error) {
	if p.doc == nil {
		return false, ErrNotLoaded
	}
	return p.doc.Find(selector).Length() > 0, nil
}

// Click follows the href of the first match, resolved against the current page.
func (p *httpPage) Click(ctx context.Context, selector string) error {
	if p.doc == nil {
		return ErrNotLoaded
	}
	href, ok := p.doc.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return fmt.Errorf("%w: %s", ErrNoElement, selector)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("%w: bad href %q: %w", ErrNavigation, href, err)
	}
	next := ref
	if p.doc.Url != nil {
		next = p.doc.Url.ResolveReference(ref)
	}
	return p.Navigate(ctx, next.String())
}

func (p *httpPage) Close() error {
	p.doc = nil
	p.last = nil
	return nil
}
