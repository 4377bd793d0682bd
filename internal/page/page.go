// Package page is the page-automation boundary: something that can load a
// listing page, wait for it to render, expose its DOM and follow a control to
// the next page.
package page

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNavigation is returned when loading a page or moving to the next one fails.
	ErrNavigation = errors.New("navigation failed")
	// ErrWaitTimeout is returned when an awaited element does not show up in time.
	ErrWaitTimeout = errors.New("timed out waiting for element")
	// ErrNoElement is returned when an action targets an element that is not on the page.
	ErrNoElement = errors.New("element not found")
	// ErrNotLoaded is returned when the page is read before anything was loaded.
	ErrNotLoaded = errors.New("no page loaded")
)

// Page is a single tab's view of the site. Calls are not safe for concurrent use.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string) error
	Document(ctx context.Context) (*goquery.Document, error)
	Exists(ctx context.Context, selector string) (bool, error)
	// Click activates the first element matching selector and waits for the
	// resulting page to load.
	Click(ctx context.Context, selector string) error
	Close() error
}

// Launcher opens a fresh Page. The caller owns the Page and must Close it.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context) (Page, error)

func (f LauncherFunc) Launch(ctx context.Context) (Page, error) {
	return f(ctx)
}
