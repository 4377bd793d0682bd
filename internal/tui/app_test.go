package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matheuskafuri/hnsort/internal/classify"
	"github.com/matheuskafuri/hnsort/internal/crawl"
	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/matheuskafuri/hnsort/internal/order"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testResult() *crawl.Result {
	items := listing.Enrich([]listing.Item{
		{ID: "1", Title: "Go 1.30 released", URL: "https://go.dev/blog", AgeText: "2 hours ago"},
		{ID: "2", Title: "Ask HN: Favorite Go libraries?", URL: "item?id=2", AgeText: "5 minutes ago"},
		{ID: "3", Title: "Rust in the kernel", URL: "https://lwn.net/x", AgeText: "1 day ago"},
		{ID: "4", Title: "Show HN: A Go TUI", URL: "https://example.com", AgeText: "30 minutes ago"},
	}, testNow)
	return &crawl.Result{Items: items, Pages: 1, Reason: crawl.ReasonNoMorePages}
}

func newTestApp(t *testing.T, opts RunOpts) *App {
	t.Helper()
	if opts.Crawl == nil {
		opts.Crawl = func(ctx context.Context) (*crawl.Result, error) { return testResult(), nil }
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://news.ycombinator.com/newest"
	}
	opts.Now = func() time.Time { return testNow }
	a := NewApp(opts)
	t.Cleanup(a.cancel)
	return a
}

// loaded runs the initial crawl synchronously.
func loaded(t *testing.T, a *App) *App {
	t.Helper()
	a.Init()
	msg := a.crawlCmd()()
	a.Update(msg)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ids(items []listing.Item) string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return strings.Join(out, ",")
}

func TestCrawlResultIsOrdered(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{}))
	if got := ids(a.items); got != "2,4,1,3" {
		t.Errorf("newest first = %s, want 2,4,1,3", got)
	}

	a.Update(keys("s"))
	if got := ids(a.items); got != "3,1,4,2" {
		t.Errorf("after s = %s, want 3,1,4,2", got)
	}
	if a.crawling {
		t.Error("crawling flag left set")
	}
}

func TestLimitAndMinAge(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{Order: order.Options{MinAge: 15, Direction: order.Asc, Limit: 2}}))
	if got := ids(a.items); got != "3,1" {
		t.Errorf("items = %s, want 3,1", got)
	}
}

func TestKindFilter(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{Kinds: []classify.Kind{classify.Show, classify.Ask}}))
	if got := ids(a.items); got != "2,4" {
		t.Errorf("items = %s, want 2,4", got)
	}
	if len(a.collected) != 4 {
		t.Errorf("collected = %d, want all 4 kept", len(a.collected))
	}
}

func TestSearchFiltersTitles(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{}))

	a.Update(keys("/"))
	if a.mode != modeSearch {
		t.Fatalf("expected search mode, got %v", a.mode)
	}
	for _, r := range "go " {
		a.Update(keys(string(r)))
	}
	if got := ids(a.items); got != "2,4,1" {
		t.Errorf("search 'go ' = %s, want 2,4,1", got)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.mode != modeNormal || a.searchInput.Value() != "go " {
		t.Errorf("enter should keep the query, got mode %v value %q", a.mode, a.searchInput.Value())
	}

	a.Update(keys("/"))
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := ids(a.items); got != "2,4,1,3" {
		t.Errorf("after esc = %s, want all items", got)
	}
}

func TestCursorBounds(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{}))

	a.Update(keys("k"))
	if a.cursor != 0 {
		t.Errorf("cursor moved above top: %d", a.cursor)
	}
	for i := 0; i < 10; i++ {
		a.Update(keys("j"))
	}
	if a.cursor != 3 {
		t.Errorf("cursor = %d, want 3 at bottom", a.cursor)
	}

	// Narrowing the list pulls the cursor back in range.
	a.Update(keys("/"))
	a.Update(keys("r"))
	a.Update(keys("u"))
	a.Update(keys("s"))
	a.Update(keys("t"))
	if len(a.items) != 1 || a.cursor != 0 {
		t.Errorf("items %s cursor %d, want one item and cursor 0", ids(a.items), a.cursor)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a.Update(keys("G"))
	if a.cursor != 0 {
		t.Errorf("G on one item: cursor = %d", a.cursor)
	}
}

func TestAgeFilterMode(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{}))

	a.Update(keys("f"))
	if a.mode != modeFilter {
		t.Fatalf("expected filter mode")
	}
	a.Update(keys("l")) // 15m+
	a.Update(keys("l")) // 1h+
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := ids(a.items); got != "1,3" {
		t.Errorf("1h+ = %s, want 1,3", got)
	}
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.mode != modeNormal {
		t.Errorf("esc should leave filter mode")
	}
}

func TestCrawlErrorShown(t *testing.T) {
	a := newTestApp(t, RunOpts{Crawl: func(ctx context.Context) (*crawl.Result, error) {
		return nil, errors.New("navigation failed: boom")
	}})
	a.Init()
	a.Update(a.crawlCmd()())
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if a.crawling {
		t.Error("crawling flag left set after error")
	}
	if !strings.Contains(a.View(), "boom") {
		t.Error("error not rendered in view")
	}
	a.Update(keys("j"))
	if a.err != nil {
		t.Error("keypress should clear the error")
	}
}

func TestOpenResolvesRelativeLinks(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{}))
	var opened string
	a.open = func(u string) error {
		opened = u
		return nil
	}

	_, cmd := a.Update(keys("o"))
	if cmd == nil {
		t.Fatal("expected an open command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("unexpected message %v", msg)
	}
	if opened != "https://news.ycombinator.com/item?id=2" {
		t.Errorf("opened %q, want resolved item link", opened)
	}

	a.open = func(string) error { return errors.New("no browser") }
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a.Update(cmd())
	if a.err == nil {
		t.Error("expected open error to be kept")
	}
}

func TestRecrawl(t *testing.T) {
	calls := 0
	a := loaded(t, newTestApp(t, RunOpts{Crawl: func(ctx context.Context) (*crawl.Result, error) {
		calls++
		return testResult(), nil
	}}))

	_, cmd := a.Update(keys("r"))
	if cmd == nil || !a.crawling {
		t.Fatal("r should start a crawl")
	}
	if _, again := a.Update(keys("r")); again != nil {
		t.Error("r while crawling should be ignored")
	}
	a.Update(a.crawlCmd()())
	if calls != 2 || a.crawling {
		t.Errorf("calls = %d crawling = %v", calls, a.crawling)
	}
}

func TestViewModes(t *testing.T) {
	a := newTestApp(t, RunOpts{})
	if !strings.Contains(a.View(), "hnsort") {
		t.Error("expected splash before first resize")
	}
	a = loaded(t, a)

	view := a.View()
	for _, want := range []string{"hnsort", "1 pages", "4 stories", "Ask HN"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	a.Update(keys("?"))
	if !strings.Contains(a.View(), "Toggle this help") {
		t.Error("help not rendered")
	}
	a.Update(keys("?"))
	if a.mode != modeNormal {
		t.Error("? should close help")
	}
}

func TestQuitCancelsCrawl(t *testing.T) {
	a := loaded(t, newTestApp(t, RunOpts{}))
	_, cmd := a.Update(keys("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if a.ctx.Err() == nil {
		t.Error("quitting should cancel in-flight crawls")
	}
}
