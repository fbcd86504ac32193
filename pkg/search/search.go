// Package search filters listings by a query string.
//
// Filter is the default substring match. Fuzzy ranking and recursive
// search over a subtree are opt-in.
package search

import (
	"iter"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/sahilm/fuzzy"
)

// Mode selects the matching algorithm.
type Mode string

const (
	// ModeSubstring keeps entries whose name contains the query,
	// case-insensitively, in their original order.
	ModeSubstring Mode = "substring"
	// ModeFuzzy keeps fuzzy matches ranked by score.
	ModeFuzzy Mode = "fuzzy"
)

// ParseMode validates a mode name. Empty means substring.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeSubstring:
		return ModeSubstring, nil
	case ModeFuzzy:
		return ModeFuzzy, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown search mode %q", s)
}

// Filter returns the entries whose name contains query, ignoring case,
// in their original relative order. An empty query yields every entry.
// The sequence is single-use: ranging over it again yields nothing.
func Filter(entries []types.Entry, query string) iter.Seq[types.Entry] {
	return FilterMode(entries, query, ModeSubstring)
}

// FilterMode is Filter with an explicit mode.
func FilterMode(entries []types.Entry, query string, mode Mode) iter.Seq[types.Entry] {
	if query == "" {
		return once(all(entries))
	}
	if mode == ModeFuzzy {
		return once(fuzzyMatches(entries, query))
	}
	return once(substringMatches(entries, query))
}

func all(entries []types.Entry) iter.Seq[types.Entry] {
	return func(yield func(types.Entry) bool) {
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}
}

func substringMatches(entries []types.Entry, query string) iter.Seq[types.Entry] {
	needle := strings.ToLower(query)
	return func(yield func(types.Entry) bool) {
		for _, e := range entries {
			if !Matches(e.Name, needle) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Matches reports whether name contains the lower-cased needle.
func Matches(name, needle string) bool {
	return strings.Contains(strings.ToLower(name), needle)
}

// entrySource exposes entry names to the fuzzy matcher.
type entrySource []types.Entry

func (s entrySource) String(i int) string { return s[i].Name }
func (s entrySource) Len() int            { return len(s) }

func fuzzyMatches(entries []types.Entry, query string) iter.Seq[types.Entry] {
	return func(yield func(types.Entry) bool) {
		// FindFrom sorts stably by score, so equal scores keep listing order.
		for _, m := range fuzzy.FindFrom(query, entrySource(entries)) {
			if !yield(entries[m.Index]) {
				return
			}
		}
	}
}

// once wraps seq so that only the first range produces values.
func once(seq iter.Seq[types.Entry]) iter.Seq[types.Entry] {
	used := false
	return func(yield func(types.Entry) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}

// Collect drains seq into a slice, stopping after limit entries when
// limit is positive.
func Collect(seq iter.Seq[types.Entry], limit int) []types.Entry {
	out := []types.Entry{}
	for e := range seq {
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
