package search

import (
	"iter"

	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Options configure a search.
type Options struct {
	Mode Mode
	// Recursive searches the subtree of the directory instead of its
	// direct children.
	Recursive bool
	// MaxResults caps the result count, 0 for no cap.
	MaxResults int
}

// Searcher runs searches against a lister.
type Searcher struct {
	lister *listing.Lister
	opts   Options
}

// NewSearcher creates a searcher.
func NewSearcher(lister *listing.Lister, opts Options) *Searcher {
	if opts.Mode == "" {
		opts.Mode = ModeSubstring
	}
	return &Searcher{lister: lister, opts: opts}
}

// Options returns the options in effect.
func (s *Searcher) Options() Options {
	return s.opts
}

// Search filters the given listing of dir. In recursive mode with a
// non-empty query the subtree of dir is walked instead and every
// visited entry is a candidate; matches keep their Level.
func (s *Searcher) Search(dir string, listed []types.Entry, query string) ([]types.Entry, error) {
	candidates := listed
	if s.opts.Recursive && query != "" {
		var err error
		candidates, err = s.subtree(dir)
		if err != nil {
			return nil, err
		}
	}

	results := Collect(s.Seq(candidates, query), s.opts.MaxResults)
	logger := logging.GetLogger("search")
	logger.Debug().
		Str("dir", dir).
		Str("query", query).
		Bool("recursive", s.opts.Recursive).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Msg("Search completed")
	return results, nil
}

// Seq filters entries with the configured mode.
func (s *Searcher) Seq(entries []types.Entry, query string) iter.Seq[types.Entry] {
	return FilterMode(entries, query, s.opts.Mode)
}

func (s *Searcher) subtree(dir string) ([]types.Entry, error) {
	var entries []types.Entry
	err := s.lister.Walk(dir, func(e types.Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}
