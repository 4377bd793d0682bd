package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const locationPoll = 100 * time.Millisecond

// BrowserOptions configures the headless Chrome engine.
type BrowserOptions struct {
	Headful   bool
	UserAgent string
	// ExecPath overrides Chrome discovery; empty means chromedp's default lookup.
	ExecPath string
}

// Browser launches Chrome through chromedp.
type Browser struct {
	opts BrowserOptions
}

func NewBrowser(opts BrowserOptions) *Browser {
	return &Browser{opts: opts}
}

// Launch starts a browser process with a single tab.
func (b *Browser) Launch(ctx context.Context) (Page, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("headless", !b.opts.Headful))
	if b.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(b.opts.UserAgent))
	}
	if b.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.ExecPath))
	}
	if os.Geteuid() == 0 {
		// Chrome will not start as root with its sandbox enabled.
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	// The browser outlives individual calls, so it hangs off a detached context
	// and is torn down by Close.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	p := &browserPage{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}
	// The first Run allocates the browser and its tab on the context it is
	// given, so it must be the long-lived tab context itself. ctx can only
	// abort the start.
	stop := context.AfterFunc(ctx, p.cancel)
	err := chromedp.Run(tabCtx)
	if !stop() {
		return nil, fmt.Errorf("starting browser: %w", ctx.Err())
	}
	if err != nil {
		p.cancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	return p, nil
}

type browserPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions on the already started tab, bounded by both the tab
// and ctx.
func (p *browserPage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var dcancel context.CancelFunc
		runCtx, dcancel = context.WithDeadline(runCtx, deadline)
		defer dcancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (p *browserPage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNavigation, url, err)
	}
	return nil
}

func (p *browserPage) WaitFor(ctx context.Context, selector string) error {
	err := p.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrWaitTimeout, selector)
	}
	return fmt.Errorf("waiting for %s: %w", selector, err)
}

func (p *browserPage) Document(ctx context.Context) (*goquery.Document, error) {
	var html, location string
	if err := p.run(ctx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("reading page html: %w", err)
	}
	return newDocument(strings.NewReader(html), "", location)
}

func (p *browserPage) Exists(ctx context.Context, selector string) (bool, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return false, err
	}
	var n int
	script := fmt.Sprintf("document.querySelectorAll(%s).length", quoted)
	if err := p.run(ctx, chromedp.Evaluate(script, &n)); err != nil {
		return false, fmt.Errorf("querying %s: %w", selector, err)
	}
	return n > 0, nil
}

func (p *browserPage) Click(ctx context.Context, selector string) error {
	ok, err := p.Exists(ctx, selector)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoElement, selector)
	}

	var before string
	err = p.run(ctx,
		chromedp.Location(&before),
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return waitLocationChange(ctx, before)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: clicking %s: %w", ErrNavigation, selector, err)
	}
	return nil
}

func waitLocationChange(ctx context.Context, from string) error {
	ticker := time.NewTicker(locationPoll)
	defer ticker.Stop()
	for {
		var loc string
		if err := chromedp.Location(&loc).Do(ctx); err != nil {
			return err
		}
		if loc != from {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *browserPage) Close() error {
	// Cancelling the tab context closes the browser; chromedp.Cancel waits for it.
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}
