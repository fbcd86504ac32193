package style

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestPlainThemeLeavesTextAlone(t *testing.T) {
	theme := Plain()
	assert.True(t, theme.IsPlain())
	assert.Equal(t, "ops/", theme.Paint(theme.ForType(listing.TypeFolder), "ops/"))

	var nilTheme *Theme
	assert.Equal(t, "x", nilTheme.Paint(theme.Title, "x"))
}

func TestForcedThemeStyles(t *testing.T) {
	theme := NewTheme(&bytes.Buffer{}, true)
	assert.False(t, theme.IsPlain())

	out := theme.Paint(theme.Error, "boom")
	assert.Contains(t, out, "boom")
	assert.NotEqual(t, "boom", out)
}

func TestForTypeFallsBackToMuted(t *testing.T) {
	theme := NewTheme(&bytes.Buffer{}, true)
	assert.Equal(t, theme.Muted.Render("x"), theme.ForType(listing.TypeOther).Render("x"))
}

func TestIndicator(t *testing.T) {
	assert.Equal(t, "✗", Indicator(types.NoticeError))
	assert.Equal(t, "!", Indicator(types.NoticeWarning))
	assert.Equal(t, "•", Indicator(types.NoticeInfo))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "a", Indent("a", 0))
	assert.Equal(t, "    a", Indent("a", 2))
}
