package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
)

// Format selects how results reach the user.
type Format int

const (
	// FormatAuto resolves to FormatTerminal or FormatText once the output is known
	FormatAuto Format = iota
	// FormatTerminal is text with colors
	FormatTerminal
	// FormatText is uncolored text, safe for pipes
	FormatText
	// FormatJSON writes one JSON document per result
	FormatJSON
	// FormatYAML writes one YAML document per result
	FormatYAML
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// aliases accepted by ParseFormat besides the canonical names.
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
	"yml":      FormatYAML,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Structured reports whether the format is meant for programs.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s)
}

// DetectFormat resolves FormatAuto for output. Color is used only on a
// terminal that supports it and when NO_COLOR is unset.
func DetectFormat(output *os.File) Format {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
