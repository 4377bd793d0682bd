// Package format renders a result set as pretty text, JSON or CSV.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/matheuskafuri/hnsort/internal/listing"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPretty, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want pretty, json or csv)", ErrUnknownFormat, s)
}

func Render(f Format, items []listing.Item) (string, error) {
	switch f {
	case FormatPretty:
		return Pretty(items), nil
	case FormatJSON:
		return JSON(items)
	case FormatCSV:
		return CSV(items), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Pretty lists items as numbered three-line blocks under a count header.
func Pretty(items []listing.Item) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("Collected %d post(s). Oldest → newest:\n", len(items)))
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("%3d. %s\n     url: %s\n     age: %s | score: %s | by: %s | %s",
			i+1, it.Title, it.URL, it.AgeText,
			or(it.Score, "0 points"), or(it.By, "unknown"), or(it.CommentsText, "0 comments")))
	}
	return strings.Join(lines, "\n") + "\n"
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// JSON is a 2-space indented array with a trailing newline.
func JSON(items []listing.Item) (string, error) {
	if items == nil {
		items = []listing.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return string(b) + "\n", nil
}

var csvColumns = []string{"title", "url", "ageText", "score", "by", "commentsText"}

func CSV(items []listing.Item) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, strings.Join(csvColumns, ","))
	for _, it := range items {
		fields := []string{it.Title, it.URL, it.AgeText, it.Score, it.By, it.CommentsText}
		for i, f := range fields {
			fields[i] = csvEscape(f)
		}
		rows = append(rows, strings.Join(fields, ","))
	}
	return strings.Join(rows, "\n") + "\n"
}

// csvEscape quotes a field only when it holds a comma, quote or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
