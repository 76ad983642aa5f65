package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

// snapshotTheme captures the mutable theme globals so tests can restore them.
func snapshotTheme(t *testing.T) {
	t.Helper()
	origHighlight := BorderHighlightFocusColor
	origIndicator := SelectionIndicatorColor
	origIndicatorStyle := SelectionIndicatorStyle
	origMuted := TextMutedColor
	origBorder := BorderDefaultColor
	origError := StatusErrorColor
	origToastError := ToastBorderErrorColor
	origSuccess := StatusSuccessColor
	origToastSuccess := ToastBorderSuccessColor
	origKindLocal := KindLocalColor
	t.Cleanup(func() {
		BorderHighlightFocusColor = origHighlight
		SelectionIndicatorColor = origIndicator
		SelectionIndicatorStyle = origIndicatorStyle
		TextMutedColor = origMuted
		BorderDefaultColor = origBorder
		StatusErrorColor = origError
		ToastBorderErrorColor = origToastError
		StatusSuccessColor = origSuccess
		ToastBorderSuccessColor = origToastSuccess
		KindLocalColor = origKindLocal
	})
}

func TestApplyTheme_Highlight(t *testing.T) {
	snapshotTheme(t)

	ApplyTheme("#FF00FF", "", "", "")

	expected := lipgloss.AdaptiveColor{Light: "#FF00FF", Dark: "#FF00FF"}
	assert.Equal(t, expected, BorderHighlightFocusColor)
	assert.Equal(t, expected, SelectionIndicatorColor)
}

func TestApplyTheme_Subtle(t *testing.T) {
	snapshotTheme(t)

	ApplyTheme("", "#112233", "", "")

	expected := lipgloss.AdaptiveColor{Light: "#112233", Dark: "#112233"}
	assert.Equal(t, expected, TextMutedColor)
	assert.Equal(t, expected, BorderDefaultColor)
}

func TestApplyTheme_Error(t *testing.T) {
	snapshotTheme(t)

	ApplyTheme("", "", "#AA0000", "")

	expected := lipgloss.AdaptiveColor{Light: "#AA0000", Dark: "#AA0000"}
	assert.Equal(t, expected, StatusErrorColor)
	assert.Equal(t, expected, ToastBorderErrorColor)
}

func TestApplyTheme_Success(t *testing.T) {
	snapshotTheme(t)

	ApplyTheme("", "", "", "#00AA00")

	expected := lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#00AA00"}
	assert.Equal(t, expected, StatusSuccessColor)
	assert.Equal(t, expected, ToastBorderSuccessColor)
	assert.Equal(t, expected, KindLocalColor)
}

func TestApplyTheme_EmptyKeepsDefaults(t *testing.T) {
	snapshotTheme(t)

	before := BorderHighlightFocusColor
	beforeMuted := TextMutedColor
	beforeError := StatusErrorColor
	beforeSuccess := StatusSuccessColor

	ApplyTheme("", "", "", "")

	assert.Equal(t, before, BorderHighlightFocusColor)
	assert.Equal(t, beforeMuted, TextMutedColor)
	assert.Equal(t, beforeError, StatusErrorColor)
	assert.Equal(t, beforeSuccess, StatusSuccessColor)
}

func TestApplyTheme_DoesNotTouchUnrelatedColors(t *testing.T) {
	snapshotTheme(t)

	beforeBrowser := KindBrowserColor
	beforeWarn := StatusWarningColor

	ApplyTheme("#FF00FF", "#112233", "#AA0000", "#00AA00")

	assert.Equal(t, beforeBrowser, KindBrowserColor)
	assert.Equal(t, beforeWarn, StatusWarningColor)
}
