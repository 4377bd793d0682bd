package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/hnsort/internal/classify"
	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/mattn/go-runewidth"
)

func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(it listing.Item, selected bool, width int, now time.Time) string {
	if width < 10 {
		width = 30
	}

	title := it.Title
	if title == "" {
		title = "(untitled)"
	}
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(title, width-2))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(title, width-2))
	}

	meta := "  "
	if k := classify.Classify(it.Title); k != classify.Story {
		meta += itemKindStyle.Render(string(k)) + " "
	}
	meta += itemScoreStyle.Render(orDefault(it.Score, "0 points"))
	if it.By != "" {
		meta += " " + itemAuthorStyle.Render(it.By)
	}
	if it.Age != nil {
		meta += " " + itemTimeStyle.Render("· "+relativeTime(it.Age.At, now))
	}

	return title + "\n" + meta
}

// truncateStr cuts s to n terminal cells, marking the cut with "...".
func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return runewidth.Truncate(s, n, "")
	}
	return runewidth.Truncate(s, n, "...")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func renderList(items []listing.Item, cursor int, height int, width int, now time.Time) string {
	if len(items) == 0 {
		return lipglossCenter("No stories", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
		start = max(0, end-visible)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(items[i], i == cursor, width, now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := max(0, (width-runewidth.StringWidth(s))/2)
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
