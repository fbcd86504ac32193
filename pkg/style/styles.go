// Package style holds the lipgloss styles used by the terminal renderer.
package style

import (
	"io"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is a set of styles bound to one output.
type Theme struct {
	plain bool

	Title   lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
	Marker  lipgloss.Style
	Dirty   lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	types map[listing.FileType]lipgloss.Style
}

// NewTheme builds styles for w. When force is set the ANSI profile is used
// even if w is not a terminal.
func NewTheme(w io.Writer, force bool) *Theme {
	r := lipgloss.NewRenderer(w)
	if force && r.ColorProfile() == termenv.Ascii {
		r.SetColorProfile(termenv.ANSI256)
	}

	s := r.NewStyle
	return &Theme{
		Title:   s().Foreground(HeadingColor).Bold(true),
		Muted:   s().Foreground(MutedColor),
		Path:    s().Foreground(PrimaryColor).Italic(true),
		Marker:  s().Foreground(InfoColor),
		Dirty:   s().Foreground(WarningColor).Bold(true),
		Success: s().Foreground(SuccessColor).Bold(true),
		Info:    s().Foreground(InfoColor),
		Warning: s().Foreground(WarningColor).Bold(true),
		Error:   s().Foreground(ErrorColor).Bold(true),
		types: map[listing.FileType]lipgloss.Style{
			listing.TypeFolder: s().Foreground(FolderColor).Bold(true),
			listing.TypeScript: s().Foreground(ScriptColor),
			listing.TypeText:   s().Foreground(TextColor),
			listing.TypeImage:  s().Foreground(ImageColor),
			listing.TypeModel:  s().Foreground(ModelColor),
			listing.TypeFont:   s().Foreground(MutedColor),
			listing.TypeBlend:  s().Foreground(BlendColor),
		},
	}
}

// Plain returns a theme that never styles.
func Plain() *Theme {
	return &Theme{plain: true}
}

// IsPlain reports whether the theme emits raw text.
func (t *Theme) IsPlain() bool {
	return t == nil || t.plain
}

// Paint renders text with st unless the theme is plain.
func (t *Theme) Paint(st lipgloss.Style, text string) string {
	if t.IsPlain() {
		return text
	}
	return st.Render(text)
}

// ForType returns the style for a file type label.
func (t *Theme) ForType(ft listing.FileType) lipgloss.Style {
	if st, ok := t.types[ft]; ok {
		return st
	}
	return t.Muted
}

// ForLevel returns the style for a notice level.
func (t *Theme) ForLevel(level types.NoticeLevel) lipgloss.Style {
	switch level {
	case types.NoticeError:
		return t.Error
	case types.NoticeWarning:
		return t.Warning
	default:
		return t.Info
	}
}

// Indicator is the one-character prefix for a notice level.
func Indicator(level types.NoticeLevel) string {
	switch level {
	case types.NoticeError:
		return "✗"
	case types.NoticeWarning:
		return "!"
	default:
		return "•"
	}
}

// Indent prefixes s with two spaces per level.
func Indent(s string, level int) string {
	if level <= 0 {
		return s
	}
	return strings.Repeat("  ", level) + s
}
