package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/hnsort/internal/order"
)

func renderStatusBar(shown, collected int, ageLabel string, dir order.Direction, width int, searching bool, crawling bool) string {
	left := fmt.Sprintf(" %d stories", shown)
	if shown != collected {
		left += fmt.Sprintf(" of %d", collected)
	}
	if ageLabel != "All" {
		left += " · " + ageLabel
	}
	if dir == order.Asc {
		left += " · oldest first"
	} else {
		left += " · newest first"
	}
	if crawling {
		left += " (crawling...)"
	}

	right := " / search  f age  s sort  r recrawl  ? help  q quit "
	if searching {
		right = " esc clear  enter done "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "
	gap := max(0, width-lipgloss.Width(right))
	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + right)
}
