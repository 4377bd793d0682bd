package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ageBar picks the minimum story age shown in the list.
type ageBar struct {
	presets    []int // minutes; 0 means no minimum
	selected   int
	filterMode bool
	cursor     int
}

var defaultAgePresets = []int{0, 15, 60, 6 * 60, 24 * 60}

// newAgeBar selects the preset equal to initial, adding it when it is not
// one of the defaults.
func newAgeBar(initial int) ageBar {
	presets := append([]int(nil), defaultAgePresets...)
	sel := -1
	for i, p := range presets {
		if p == initial {
			sel = i
		}
	}
	if sel < 0 {
		presets = append(presets, initial)
		sel = len(presets) - 1
	}
	return ageBar{presets: presets, selected: sel, cursor: sel}
}

func (f *ageBar) minutes() int {
	return f.presets[f.selected]
}

func (f *ageBar) selectCurrent() {
	if f.cursor >= 0 && f.cursor < len(f.presets) {
		f.selected = f.cursor
	}
}

func (f *ageBar) activeLabel() string {
	return presetLabel(f.minutes())
}

func presetLabel(m int) string {
	switch {
	case m <= 0:
		return "All"
	case m%(24*60) == 0:
		return fmt.Sprintf("%dd+", m/(24*60))
	case m%60 == 0:
		return fmt.Sprintf("%dh+", m/60)
	default:
		return fmt.Sprintf("%dm+", m)
	}
}

func (f *ageBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	var row string
	for i, p := range f.presets {
		style := tabInactiveStyle
		if i == f.selected {
			style = tabActiveStyle
		}
		label := presetLabel(p)
		if f.filterMode && i == f.cursor {
			label = "[" + label + "]"
		}
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += style.Render(label)
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
