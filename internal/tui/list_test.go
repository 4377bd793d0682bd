package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/hnsort/internal/age"
	"github.com/matheuskafuri/hnsort/internal/listing"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrWide(t *testing.T) {
	// Each of these runes takes two cells.
	got := truncateStr("日本語テスト", 7)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 7) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
		{time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), "Jun 15"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t, now)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRenderListItem(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	it := listing.Item{Title: "A story", By: "dang", Age: &age.Age{At: now.Add(-2 * time.Hour), MinutesAgo: 120}}

	out := renderListItem(it, true, 40, now)
	for _, want := range []string{"> A story", "0 points", "dang", "2h"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderListItem() missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "HN") {
		t.Errorf("plain story should have no kind badge: %q", out)
	}
	show := renderListItem(listing.Item{Title: "Show HN: thing"}, false, 40, now)
	if !strings.Contains(show, "Show HN 0 points") {
		t.Errorf("expected kind badge, got %q", show)
	}
	if out := renderListItem(listing.Item{}, false, 40, now); !strings.Contains(out, "(untitled)") {
		t.Errorf("expected placeholder title, got %q", out)
	}
}

func TestRenderListScrollsToCursor(t *testing.T) {
	now := time.Now()
	var items []listing.Item
	for _, title := range []string{"one", "two", "three", "four", "five"} {
		items = append(items, listing.Item{Title: title})
	}

	// Height 6 fits two items; cursor on the last one.
	out := renderList(items, 4, 6, 40, now)
	if !strings.Contains(out, "five") || strings.Contains(out, "one") {
		t.Errorf("expected window around cursor, got %q", out)
	}
	if out := renderList(nil, 0, 6, 40, now); !strings.Contains(out, "No stories") {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrapText() = %q, want %q", got, want)
	}
}

func TestPresetLabel(t *testing.T) {
	tests := []struct {
		m    int
		want string
	}{
		{0, "All"},
		{15, "15m+"},
		{60, "1h+"},
		{360, "6h+"},
		{1440, "1d+"},
		{90, "90m+"},
	}
	for _, tt := range tests {
		if got := presetLabel(tt.m); got != tt.want {
			t.Errorf("presetLabel(%d) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestNewAgeBarAddsCustomPreset(t *testing.T) {
	bar := newAgeBar(45)
	if bar.minutes() != 45 {
		t.Errorf("minutes() = %d, want 45", bar.minutes())
	}
	if len(bar.presets) != len(defaultAgePresets)+1 {
		t.Errorf("expected custom preset appended, got %v", bar.presets)
	}
	if bar := newAgeBar(60); bar.minutes() != 60 || len(bar.presets) != len(defaultAgePresets) {
		t.Errorf("newAgeBar(60) = %+v, want existing preset selected", bar)
	}
}
