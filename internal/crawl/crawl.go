// Package crawl drives a page through a paginated listing until enough
// distinct stories are collected.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/matheuskafuri/hnsort/internal/page"
	"github.com/matheuskafuri/hnsort/internal/retry"
)

const (
	DefaultStartURL = "https://news.ycombinator.com/newest"
	DefaultTimeout  = 15 * time.Second
)

// StopReason says why a crawl ended.
type StopReason string

const (
	ReasonTargetReached StopReason = "target-reached"
	ReasonPageLimit     StopReason = "page-limit"
	ReasonNoMorePages   StopReason = "no-more-pages"
)

// Result is a finished crawl. Items are deduplicated, enriched with their
// age and kept in the order they were first seen.
type Result struct {
	Items      []listing.Item
	Pages      int
	Reason     StopReason
	Dropped    int
	Duplicates int
}

// Extractor reads the current page and moves to the next one.
type Extractor interface {
	Extract(ctx context.Context, p page.Page) ([]listing.Item, error)
	HasMore(ctx context.Context, p page.Page) (bool, error)
	Advance(ctx context.Context, p page.Page) error
}

type Options struct {
	StartURL string
	// Timeout bounds each single try of navigation, extraction, probing
	// and advancing.
	Timeout time.Duration
	Retry   retry.Policy
	Now     func() time.Time
	Logger  *slog.Logger
}

type state int

const (
	stateNavigating state = iota
	stateExtracting
	stateAdvancing
	stateDone
)

func (s state) String() string {
	switch s {
	case stateNavigating:
		return "navigating"
	case stateExtracting:
		return "extracting"
	case stateAdvancing:
		return "advancing"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Controller struct {
	launcher  page.Launcher
	extractor Extractor
	opts      Options
}

func New(launcher page.Launcher, extractor Extractor, opts Options) *Controller {
	if opts.StartURL == "" {
		opts.StartURL = DefaultStartURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retry.Attempts == 0 && opts.Retry.Delay == 0 {
		opts.Retry = retry.DefaultPolicy()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{launcher: launcher, extractor: extractor, opts: opts}
}

// Crawl collects stories until target distinct items are held, maxPages pages
// were read, or the listing has no next page. The first page is always read.
// If any step still fails after its retries the crawl is abandoned and no
// partial result is returned.
func (c *Controller) Crawl(ctx context.Context, target, maxPages int) (*Result, error) {
	log := c.opts.Logger

	p, err := c.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launching page: %w", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn("closing page", "err", err)
		}
	}()

	set := listing.NewSet()
	pages := 0
	var reason StopReason

	for st := stateNavigating; st != stateDone; {
		log.Debug("crawl", "state", st, "pages", pages, "items", set.Len())

		switch st {
		case stateNavigating:
			err := retry.Do(ctx, c.policy("navigate"), func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
				defer cancel()
				return p.Navigate(ctx, c.opts.StartURL)
			})
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", c.opts.StartURL, err)
			}
			st = stateExtracting

		case stateExtracting:
			batch, err := retry.Value(ctx, c.policy("extract"), func(ctx context.Context) ([]listing.Item, error) {
				ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
				defer cancel()
				return c.extractor.Extract(ctx, p)
			})
			if err != nil {
				return nil, fmt.Errorf("extracting page %d: %w", pages+1, err)
			}
			pages++
			added := set.Merge(batch)
			log.Info("page extracted", "page", pages, "rows", len(batch), "new", added, "total", set.Len())

			switch {
			case set.Len() >= target:
				reason, st = ReasonTargetReached, stateDone
			case pages >= maxPages:
				reason, st = ReasonPageLimit, stateDone
			default:
				more, err := retry.Value(ctx, c.policy("probe"), func(ctx context.Context) (bool, error) {
					ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
					defer cancel()
					return c.extractor.HasMore(ctx, p)
				})
				if err != nil {
					return nil, fmt.Errorf("looking for next page: %w", err)
				}
				if more {
					st = stateAdvancing
				} else {
					reason, st = ReasonNoMorePages, stateDone
				}
			}

		case stateAdvancing:
			err := retry.Do(ctx, c.policy("advance"), func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
				defer cancel()
				return c.extractor.Advance(ctx, p)
			})
			if err != nil {
				return nil, fmt.Errorf("moving to page %d: %w", pages+1, err)
			}
			st = stateExtracting
		}
	}

	log.Info("crawl finished", "reason", reason, "pages", pages, "items", set.Len(),
		"duplicates", set.Duplicates(), "dropped", set.Dropped())

	return &Result{
		Items:      listing.Enrich(set.Items(), c.opts.Now()),
		Pages:      pages,
		Reason:     reason,
		Dropped:    set.Dropped(),
		Duplicates: set.Duplicates(),
	}, nil
}

func (c *Controller) policy(op string) retry.Policy {
	p := c.opts.Retry
	log := c.opts.Logger
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		log.Warn("retrying", "op", op, "attempt", attempt, "wait", wait, "err", err)
	}
	return p
}
