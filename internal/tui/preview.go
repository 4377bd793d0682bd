package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/mattn/go-runewidth"
)

func renderPreview(it *listing.Item, link string, width, height, scroll int) string {
	if it == nil {
		return lipglossCenter("Select a story", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(orDefault(it.Title, "(untitled)"))
	byline := previewSourceStyle.Render(
		fmt.Sprintf("%s · %s · %s", orDefault(it.Score, "0 points"), "by "+orDefault(it.By, "unknown"), orDefault(it.CommentsText, "0 comments")),
	)

	var when string
	switch {
	case it.Age == nil:
		when = it.AgeText
	case it.AgeText == "":
		when = "age unknown"
	default:
		when = fmt.Sprintf("%s (%s)", it.AgeText, it.Age.At.Local().Format(time.DateTime))
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(when, contentWidth))

	footer := "Story " + it.ID
	if link != "" {
		footer = "Link: " + link + "\n" + footer
	}
	linkLine := previewLinkStyle.Width(contentWidth).Render(footer)

	content := lipgloss.JoinVertical(lipgloss.Left, title, byline, body, linkLine)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
