package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/hnsort/internal/browser"
	"github.com/matheuskafuri/hnsort/internal/classify"
	"github.com/matheuskafuri/hnsort/internal/crawl"
	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/matheuskafuri/hnsort/internal/order"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
)

// CrawlFunc runs one crawl. It is called off the UI loop.
type CrawlFunc func(ctx context.Context) (*crawl.Result, error)

type App struct {
	crawl   CrawlFunc
	baseURL string
	limit   int
	kinds   []classify.Kind
	now     func() time.Time

	collected []listing.Item
	items     []listing.Item
	result    *crawl.Result
	cursor    int
	focus     focusPane
	mode      mode
	direction order.Direction

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	ageBar      ageBar

	crawling      bool
	previewScroll int
	err           error

	ctx    context.Context
	cancel context.CancelFunc
	open   func(string) error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Crawl CrawlFunc
	// BaseURL resolves relative story links.
	BaseURL string
	Order   order.Options
	// Kinds, when set, hides every other post type.
	Kinds []classify.Kind
	Now   func() time.Time
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dir := opts.Order.Direction
	if dir == "" {
		dir = order.Desc
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		crawl:       opts.Crawl,
		baseURL:     opts.BaseURL,
		limit:       opts.Order.Limit,
		kinds:       opts.Kinds,
		now:         now,
		direction:   dir,
		ageBar:      newAgeBar(opts.Order.MinAge),
		searchInput: ti,
		spinner:     sp,
		ctx:         ctx,
		cancel:      cancel,
		open:        browser.Open,
	}
}

func (a *App) Init() tea.Cmd {
	a.crawling = true
	return tea.Batch(a.crawlCmd(), a.spinner.Tick)
}

func (a *App) crawlCmd() tea.Cmd {
	run := a.crawl
	ctx := a.ctx
	return func() tea.Msg {
		res, err := run(ctx)
		if err != nil {
			return crawlErrMsg{err: err}
		}
		return crawlDoneMsg{result: res}
	}
}

func (a *App) openCmd(href string) tea.Cmd {
	open := a.open
	base := a.baseURL
	return func() tea.Msg {
		link, err := browser.Resolve(base, href)
		if err == nil {
			err = open(link)
		}
		if err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

// refresh recomputes the visible list from the collected set.
func (a *App) refresh() {
	items := order.Apply(classify.Filter(a.collected, a.kinds...), order.Options{
		MinAge:    a.ageBar.minutes(),
		Direction: a.direction,
		Limit:     a.limit,
	}, a.now())

	if q := strings.ToLower(strings.TrimSpace(a.searchInput.Value())); q != "" {
		var matched []listing.Item
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Title), q) {
				matched = append(matched, it)
			}
		}
		items = matched
	}

	a.items = items
	if a.cursor >= len(a.items) {
		a.cursor = max(0, len(a.items)-1)
	}
}

func (a *App) selected() *listing.Item {
	if a.cursor < len(a.items) {
		return &a.items[a.cursor]
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case crawlDoneMsg:
		a.crawling = false
		a.result = msg.result
		a.collected = msg.result.Items
		a.refresh()
		return a, nil

	case crawlErrMsg:
		a.crawling = false
		a.err = msg.err
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.crawling {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	return a, tea.Quit
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a.quit()
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.items)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "g", "home":
		a.cursor = 0
		return a, nil
	case "G", "end":
		a.cursor = max(0, len(a.items)-1)
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if it := a.selected(); it != nil {
			return a, a.openCmd(it.URL)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.ageBar.filterMode = true
		a.ageBar.cursor = a.ageBar.selected
		return a, nil
	case "s":
		if a.direction == order.Desc {
			a.direction = order.Asc
		} else {
			a.direction = order.Desc
		}
		a.cursor = 0
		a.refresh()
		return a, nil
	case "r":
		if !a.crawling {
			a.crawling = true
			return a, tea.Batch(a.crawlCmd(), a.spinner.Tick)
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.refresh()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-filter on actual value changes, not cursor moves etc.
	if a.searchInput.Value() != before {
		a.cursor = 0
		a.refresh()
	}
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.ageBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.ageBar.cursor > 0 {
			a.ageBar.cursor--
		}
		return a, nil
	case "right", "l":
		if a.ageBar.cursor < len(a.ageBar.presets)-1 {
			a.ageBar.cursor++
		}
		return a, nil
	case " ", "enter":
		a.ageBar.selectCurrent()
		a.cursor = 0
		a.refresh()
		return a, nil
	}
	return a, nil
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) headerInfo() string {
	switch {
	case a.crawling && a.result == nil:
		return "crawling..."
	case a.result == nil:
		return ""
	default:
		return fmt.Sprintf("%d pages · %s", a.result.Pages, a.result.Reason)
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorPrimary).Render("  hnsort")
	}

	if a.mode == modeHelp {
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	if contentHeight < 3 {
		contentHeight = 3
	}

	headerLeft := headerStyle.Render("hnsort")
	headerRight := headerInfoStyle.Render(a.headerInfo())
	headerGap := max(0, a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight))
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	filter := a.ageBar.render(a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	now := a.now()
	listContent := renderList(a.items, a.cursor, contentHeight, listWidth-4, now)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	sel := a.selected()
	var link string
	if sel != nil {
		link, _ = browser.Resolve(a.baseURL, sel.URL)
	}
	previewContent := renderPreview(sel, link, previewWidth-4, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(
		len(a.items),
		len(a.collected),
		a.ageBar.activeLabel(),
		a.direction,
		a.width,
		a.mode == modeSearch,
		a.crawling,
	)

	if a.crawling {
		status = a.spinner.View() + " " + status
	}

	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("hnsort")
	dim := helpDimStyle

	help := title + dim.Render(" · keys") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through stories\n" +
		"  g/G           First / last story\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open story link in browser\n" +
		"  /             Search titles\n" +
		"  f             Pick a minimum age\n" +
		"  s             Flip newest/oldest first\n" +
		"  r             Crawl again\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application and blocks until it exits.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	defer app.cancel()
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
