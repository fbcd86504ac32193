package browser

import (
	"slices"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Roots returns the known roots in the order they were added.
func (c *Controller) Roots() []string {
	return slices.Clone(c.roots)
}

func (c *Controller) addRoot(root string) bool {
	if slices.Contains(c.roots, root) {
		return false
	}
	c.roots = append(c.roots, root)
	return true
}

// AddRoot makes path available to SwitchRoot. It must be an existing
// folder. The active root does not change.
func (c *Controller) AddRoot(path string) (string, error) {
	if err := c.requireBrowsing("add root"); err != nil {
		return "", err
	}
	root, err := c.canonicalDir(path)
	if err != nil {
		return "", c.fail("add root", err)
	}
	if c.addRoot(root) {
		c.notify(types.NewNotice("add root", "Added root %s", root))
	}
	return root, nil
}

// RemoveRoot forgets a root. Removing the active root switches to the
// first remaining one, or closes the browser when none is left.
func (c *Controller) RemoveRoot(path string) error {
	if err := c.requireBrowsing("remove root"); err != nil {
		return err
	}
	root, err := c.opts.Resolver.Canonical(path)
	if err != nil {
		root = path
	}
	i := slices.Index(c.roots, root)
	if i < 0 {
		return c.fail("remove root", errors.Newf(errors.ErrNotFound, "%s is not a known root", path).
			WithDetail("path", path))
	}
	c.roots = slices.Delete(c.roots, i, i+1)
	c.notify(types.NewNotice("remove root", "Removed root %s", root))

	if root != c.nav.Root {
		return nil
	}
	for _, next := range c.roots {
		if err := c.start(next); err == nil {
			return nil
		}
	}
	logger := logging.GetLogger("browser")
	logger.Info().Str("root", root).Msg("Last root removed, closing")
	c.Close()
	return nil
}

// SwitchRoot makes path the active root and resets navigation. Unknown
// roots are added.
func (c *Controller) SwitchRoot(path string) error {
	if err := c.requireBrowsing("switch root"); err != nil {
		return err
	}
	root, err := c.canonicalDir(path)
	if err != nil {
		return c.fail("switch root", err)
	}
	if err := c.start(root); err != nil {
		return c.fail("switch root", err)
	}
	logger := logging.GetLogger("browser")
	logger.Info().Str("root", root).Msg("Switched root")
	return nil
}

func (c *Controller) canonicalDir(path string) (string, error) {
	root, err := c.opts.Resolver.Canonical(path)
	if err != nil {
		return "", err
	}
	info, err := c.opts.FS.Stat(root)
	if err != nil {
		return "", errors.FromFS(err, errors.ErrDirectoryNotFound, root)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrDirectoryNotFound, "%s is not a directory", root).
			WithDetail("path", root)
	}
	return root, nil
}
