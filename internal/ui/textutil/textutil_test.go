package textutil

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "", Truncate("hello", 0))
	// Wide runes take two columns.
	assert.Equal(t, "日…", Truncate("日本語", 4))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "   ab", PadLeft("ab", 5))
	assert.Equal(t, "abc…", PadRight("abcdef", 4))
	assert.Equal(t, 6, Width(PadRight("日本", 6)))
}

func TestFit_Styled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("status")
	got := Fit(styled, 10)
	assert.Equal(t, 10, Width(got))

	got = Fit(styled, 4)
	assert.Equal(t, 4, Width(got))
	assert.Equal(t, "", Fit(styled, 0))
}
