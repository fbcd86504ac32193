package browser

import (
	"maps"
	"path/filepath"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// list reads dir as the current view would show it.
func (c *Controller) list(dir string, expanded map[string]bool) ([]types.Entry, error) {
	if len(expanded) > 0 {
		return c.lister.Tree(dir, expanded)
	}
	return c.lister.List(dir)
}

// within resolves p against the viewed folder and checks it stays
// inside the root.
func (c *Controller) within(p string) (string, error) {
	if filepath.IsAbs(p) {
		return paths.JoinWithin(c.opts.FS, c.nav.Root, p)
	}
	return paths.JoinWithin(c.opts.FS, c.nav.Root, c.nav.Dir, p)
}

// Enter makes dir the viewed folder. dir may be relative to the viewed
// folder. The query is kept.
func (c *Controller) Enter(dir string) error {
	if err := c.requireBrowsing("enter"); err != nil {
		return err
	}
	target, err := c.within(dir)
	if err != nil {
		return c.fail("enter", err)
	}
	return c.navigate("enter", target)
}

// Up views the parent folder. Fails with CANNOT_NAVIGATE_ABOVE_ROOT at
// the root.
func (c *Controller) Up() error {
	if err := c.requireBrowsing("up"); err != nil {
		return err
	}
	if c.nav.AtRoot() {
		return c.fail("up", errors.New(errors.ErrCannotNavigateAboveRoot, "already at the browsing root").
			WithDetail("root", c.nav.Root))
	}
	return c.navigate("up", filepath.Dir(c.nav.Dir))
}

// GoRoot views the root folder.
func (c *Controller) GoRoot() error {
	if err := c.requireBrowsing("root"); err != nil {
		return err
	}
	return c.navigate("root", c.nav.Root)
}

func (c *Controller) navigate(op, dir string) error {
	listed, err := c.list(dir, c.expanded)
	if err != nil {
		return c.fail(op, err)
	}
	c.nav.Dir = dir
	c.generation++
	c.setListing(listed)
	logger := logging.GetLogger("browser")
	logger.Debug().Str("dir", dir).Msg("Navigated")
	return nil
}

// Select acts on an entry: folders are entered, files are opened in the
// host when auto-open is on. An entry that vanished fails with NOT_FOUND.
func (c *Controller) Select(entry types.Entry) error {
	if err := c.requireBrowsing("select"); err != nil {
		return err
	}
	if entry.IsDir() {
		return c.Enter(entry.Path)
	}

	path, err := c.within(entry.Path)
	if err != nil {
		return c.fail("select", err)
	}
	info, err := c.opts.FS.Stat(path)
	if err != nil {
		return c.fail("select", errors.FromFS(err, errors.ErrNotFound, path))
	}
	if info.IsDir() {
		return c.Enter(path)
	}
	if !c.opts.AutoOpen || c.opts.Host == nil {
		return nil
	}
	if _, err := c.opts.Host.OpenDocument(path); err != nil {
		return c.fail("select", err)
	}
	c.view = c.decorate(c.view)
	logger := logging.GetLogger("browser")
	logger.Info().Str("path", path).Msg("Opened document")
	return nil
}

// Lookup describes the node at p, relative to the viewed folder or
// absolute inside the root. Hidden and filtered names are found too.
func (c *Controller) Lookup(p string) (types.Entry, error) {
	if err := c.requireBrowsing("lookup"); err != nil {
		return types.Entry{}, err
	}
	path, err := c.within(p)
	if err != nil {
		return types.Entry{}, err
	}
	entry, err := listing.EntryFor(c.opts.FS, c.nav.Root, path)
	if err != nil {
		return types.Entry{}, err
	}
	return c.decorate([]types.Entry{entry})[0], nil
}

// SetQuery filters the view. A non-empty query moves to Searching, an
// empty one back to Browsing.
func (c *Controller) SetQuery(query string) error {
	if err := c.requireBrowsing("search"); err != nil {
		return err
	}
	c.nav.Query = query
	if query == "" {
		c.state = StateBrowsing
	} else {
		c.state = StateSearching
	}
	c.generation++
	c.setListing(c.listed)
	return nil
}

// ClearQuery is SetQuery("").
func (c *Controller) ClearQuery() error {
	return c.SetQuery("")
}

// Refresh lists the viewed folder again.
func (c *Controller) Refresh() error {
	if err := c.requireBrowsing("refresh"); err != nil {
		return err
	}
	listed, err := c.list(c.nav.Dir, c.expanded)
	if err != nil {
		return c.fail("refresh", err)
	}
	c.generation++
	c.setListing(listed)
	return nil
}

// ToggleExpand opens or closes a folder in place in the tree view.
// It returns whether the folder is now expanded.
func (c *Controller) ToggleExpand(entry types.Entry) (bool, error) {
	if err := c.requireBrowsing("expand"); err != nil {
		return false, err
	}
	if !entry.IsDir() {
		return false, c.fail("expand", errors.Newf(errors.ErrInvalidInput, "%s is not a folder", entry.Name))
	}

	expanded := maps.Clone(c.expanded)
	if expanded[entry.Path] {
		for p := range expanded {
			if paths.IsWithin(entry.Path, p) {
				delete(expanded, p)
			}
		}
	} else {
		expanded[entry.Path] = true
	}

	listed, err := c.list(c.nav.Dir, expanded)
	if err != nil {
		return false, c.fail("expand", err)
	}
	c.expanded = expanded
	c.generation++
	c.setListing(listed)
	return c.expanded[entry.Path], nil
}

// Expanded reports whether the folder at path is expanded.
func (c *Controller) Expanded(path string) bool {
	return c.expanded[path]
}

// HandleChange is fed by a directory watcher. It refreshes when dir is
// shown in the view and reports whether it did.
func (c *Controller) HandleChange(dir string) bool {
	if c.state == StateIdle {
		return false
	}
	dir = filepath.Clean(dir)
	shown := dir == c.nav.Dir || c.expanded[dir] ||
		(c.state == StateSearching && c.opts.Search.Recursive && paths.IsWithin(c.nav.Dir, dir))
	if !shown {
		return false
	}
	return c.Refresh() == nil
}

// WatchedDirs returns the folders whose changes affect the view.
func (c *Controller) WatchedDirs() []string {
	if c.state == StateIdle {
		return nil
	}
	dirs := []string{c.nav.Dir}
	for p := range c.expanded {
		if p != c.nav.Dir && paths.IsWithin(c.nav.Dir, p) {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

// RefreshRequest is a listing started with BeginRefresh.
type RefreshRequest struct {
	Generation uint64
	Dir        string
	expanded   map[string]bool
}

// BeginRefresh starts an asynchronous refresh. Fetch may run on another
// goroutine; CompleteRefresh must run on the controller's.
func (c *Controller) BeginRefresh() (RefreshRequest, error) {
	if err := c.requireBrowsing("refresh"); err != nil {
		return RefreshRequest{}, err
	}
	c.generation++
	return RefreshRequest{Generation: c.generation, Dir: c.nav.Dir, expanded: maps.Clone(c.expanded)}, nil
}

// Fetch performs the listing for req. It does not touch controller state.
func (c *Controller) Fetch(req RefreshRequest) ([]types.Entry, error) {
	if c.lister == nil {
		return nil, errors.New(errors.ErrNotBrowsing, "browser is not open")
	}
	return c.list(req.Dir, req.expanded)
}

// CompleteRefresh applies the result of req unless a newer navigation or
// refresh happened since. It reports whether the result was applied.
func (c *Controller) CompleteRefresh(req RefreshRequest, entries []types.Entry, err error) (bool, error) {
	if c.state == StateIdle || req.Generation != c.generation || req.Dir != c.nav.Dir {
		logger := logging.GetLogger("browser")
		logger.Debug().
			Uint64("generation", req.Generation).
			Uint64("current", c.generation).
			Msg("Discarding stale refresh")
		return false, nil
	}
	if err != nil {
		return true, c.fail("refresh", err)
	}
	c.setListing(entries)
	return true, nil
}
