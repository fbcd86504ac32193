package listing

import (
	"io/fs"

	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Tree lists dir with every folder whose path is in expanded opened in
// place below it. Children get Level+1. A folder that cannot be read is
// shown collapsed.
func (l *Lister) Tree(dir string, expanded map[string]bool) ([]types.Entry, error) {
	entries, err := l.List(dir)
	if err != nil {
		return nil, err
	}
	return l.expand(entries, expanded, 0), nil
}

func (l *Lister) expand(entries []types.Entry, expanded map[string]bool, level int) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		e.Level = level
		if !e.IsDir() || !expanded[e.Path] {
			out = append(out, e)
			continue
		}

		children, err := l.List(e.Path)
		if err != nil {
			logger := logging.GetLogger("listing")
			logger.Debug().Err(err).Str("dir", e.Path).Msg("Cannot expand folder")
			out = append(out, e)
			continue
		}
		e.Expanded = true
		out = append(out, e)
		out = append(out, l.expand(children, expanded, level+1)...)
	}
	return out
}

// WalkFunc is called for every entry Walk visits. Returning fs.SkipDir
// for a folder skips its contents; fs.SkipAll stops the walk without
// error; any other error stops the walk and is returned.
type WalkFunc func(entry types.Entry) error

// Walk visits the subtree of dir depth-first in listing order. Only dir
// itself must be readable; unreadable sub-folders are skipped. Symlinked
// folders are reported but not descended into.
func (l *Lister) Walk(dir string, fn WalkFunc) error {
	entries, err := l.List(dir)
	if err != nil {
		return err
	}
	err = l.walk(entries, 0, fn)
	if err == fs.SkipAll {
		return nil
	}
	return err
}

func (l *Lister) walk(entries []types.Entry, level int, fn WalkFunc) error {
	for _, e := range entries {
		e.Level = level
		err := fn(e)
		if err == fs.SkipDir {
			continue
		}
		if err != nil {
			return err
		}
		if !e.IsDir() || e.Symlink {
			continue
		}

		children, lerr := l.List(e.Path)
		if lerr != nil {
			logger := logging.GetLogger("listing")
			logger.Debug().Err(lerr).Str("dir", e.Path).Msg("Skipping unreadable folder")
			continue
		}
		if err := l.walk(children, level+1, fn); err != nil {
			return err
		}
	}
	return nil
}
