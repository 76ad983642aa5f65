package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chosenMsg struct{ value string }

type cancelledMsg struct{}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func threeOptions() []Option {
	return []Option{
		{Label: "One", Value: "one"},
		{Label: "Two", Value: "two"},
		{Label: "Three", Value: "three"},
	}
}

func TestNewWithConfig_SelectedIndex(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		expected int
	}{
		{name: "default first", selected: 0, expected: 0},
		{name: "explicit index", selected: 2, expected: 2},
		{name: "out of range falls back", selected: 9, expected: 0},
		{name: "negative falls back", selected: -1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWithConfig(Config{Options: threeOptions(), Selected: tt.selected})
			assert.Equal(t, tt.expected, m.SelectedIndex())
		})
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m := NewWithConfig(Config{Options: threeOptions()})

	m, _ = m.Update(keyRune('j'))
	assert.Equal(t, "two", m.Selected().Value)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "three", m.Selected().Value)

	m, _ = m.Update(keyRune('j'))
	assert.Equal(t, "three", m.Selected().Value, "cursor must stop at the last option")

	m, _ = m.Update(keyRune('k'))
	assert.Equal(t, "two", m.Selected().Value)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "one", m.Selected().Value)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "one", m.Selected().Value, "cursor must stop at the first option")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "two", m.Selected().Value)
}

func TestUpdate_EnterProducesSelection(t *testing.T) {
	m := NewWithConfig(Config{
		Options: threeOptions(),
		OnSelect: func(opt Option) tea.Msg {
			return chosenMsg{value: opt.Value}
		},
	})

	m, _ = m.Update(keyRune('j'))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, chosenMsg{value: "two"}, cmd())
}

func TestUpdate_EnterWithoutOptions(t *testing.T) {
	m := NewWithConfig(Config{
		OnSelect: func(opt Option) tea.Msg { return chosenMsg{} },
	})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestUpdate_EnterWithoutCallback(t *testing.T) {
	m := NewWithConfig(Config{Options: threeOptions()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestUpdate_EscProducesCancel(t *testing.T) {
	m := NewWithConfig(Config{
		Options:  threeOptions(),
		OnCancel: func() tea.Msg { return cancelledMsg{} },
	})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, cancelledMsg{}, cmd())
}

func TestUpdate_EscDefaultsToCancelMsg(t *testing.T) {
	m := NewWithConfig(Config{Options: threeOptions()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
}

func TestView_CursorMarksSelection(t *testing.T) {
	m := NewWithConfig(Config{Title: "Pick one", Options: threeOptions()})

	view := m.View()

	assert.Contains(t, view, "Pick one")
	assert.Contains(t, view, "> One")
	assert.Contains(t, view, "  Two")
	assert.Contains(t, view, "─", "divider should separate title from options")
}

func TestView_CustomCursor(t *testing.T) {
	m := NewWithConfig(Config{Options: threeOptions(), Cursor: "➤ "})

	assert.Contains(t, m.View(), "➤ One")
}

func TestOverlay_CentersOverBackground(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 60)+"\n", 20), "\n")
	m := NewWithConfig(Config{Title: "Menu", Options: threeOptions()}).SetSize(60, 20)

	result := m.Overlay(bg)

	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, result, "Menu")
	assert.True(t, strings.HasPrefix(lines[0], "."), "background should remain around the overlay")
}

func TestOverlay_EmptyBackground(t *testing.T) {
	m := NewWithConfig(Config{Title: "Menu", Options: threeOptions()}).SetSize(60, 20)

	result := m.Overlay("")

	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, result, "Menu")
}

func TestFindIndexByValue(t *testing.T) {
	opts := threeOptions()

	assert.Equal(t, 1, FindIndexByValue(opts, "two"))
	assert.Equal(t, 0, FindIndexByValue(opts, "missing"))
}

func TestView_ZonePrefixMarksOptions(t *testing.T) {
	zone.NewGlobal()

	plain := NewWithConfig(Config{Title: "Menu", Options: threeOptions()})
	marked := NewWithConfig(Config{Title: "Menu", Options: threeOptions(), ZonePrefix: "opt-"})

	markedView := marked.View()
	assert.Contains(t, markedView, "One")
	assert.Greater(t, len(markedView), len(plain.View()),
		"zone markers should be embedded in the output")
}
