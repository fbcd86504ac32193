package paths

import (
	"path/filepath"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Fallback selects what happens when no root can be resolved.
type Fallback string

const (
	// FallbackLast reuses the last valid root, then the home directory.
	FallbackLast Fallback = "last"
	// FallbackHome goes straight to the home directory.
	FallbackHome Fallback = "home"
	// FallbackNone reports NO_ROOT_AVAILABLE.
	FallbackNone Fallback = "none"
)

// DefaultMarkers are the files that identify an add-on root.
var DefaultMarkers = []string{"blender_manifest.toml", "__init__.py"}

// ResolverOptions configures root resolution.
type ResolverOptions struct {
	// AutoDetect walks up from the document folder looking for Markers.
	AutoDetect bool
	Markers    []string
	Fallback   Fallback
	// Home overrides the home directory used by the fallbacks.
	Home string
}

// Resolver computes browsing roots. It holds no state besides its options.
type Resolver struct {
	fs   types.FS
	opts ResolverOptions
}

// NewResolver creates a resolver over fsys.
func NewResolver(fsys types.FS, opts ResolverOptions) *Resolver {
	if opts.Markers == nil {
		opts.Markers = DefaultMarkers
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackLast
	}
	if opts.Home == "" {
		opts.Home = ExpandHome("~")
	}
	return &Resolver{fs: fsys, opts: opts}
}

// Options returns the options in effect.
func (r *Resolver) Options() ResolverOptions {
	return r.opts
}

// Resolve returns the browsing root. An empty argument means "not set".
// A configured root that is an existing directory takes precedence, then
// the active document's folder (or the nearest marked ancestor when
// auto-detection is on). Fails with NO_ROOT_AVAILABLE otherwise.
func (r *Resolver) Resolve(activeDocumentPath, configuredRoot string) (string, error) {
	logger := logging.GetLogger("paths.resolver")

	var rejected []string
	if configuredRoot != "" {
		root, err := r.Canonical(configuredRoot)
		if err == nil && r.isDir(root) {
			logger.Debug().Str("root", root).Msg("Using configured root")
			return root, nil
		}
		logger.Debug().Str("configured", configuredRoot).Msg("Configured root is not a directory")
		rejected = append(rejected, configuredRoot)
	}

	if activeDocumentPath != "" {
		docPath, err := Normalize(activeDocumentPath)
		if err == nil {
			dir := filepath.Dir(docPath)
			if r.opts.AutoDetect {
				if marked, ok := r.findMarkedAncestor(dir); ok {
					dir = marked
				}
			}
			root, err := r.Canonical(dir)
			if err == nil && r.isDir(root) {
				logger.Debug().Str("root", root).Str("document", docPath).Msg("Using document root")
				return root, nil
			}
		}
		rejected = append(rejected, activeDocumentPath)
	}

	return "", errors.New(errors.ErrNoRootAvailable, "no browsing root available").
		WithDetail("rejected", rejected)
}

// ResolveWithFallback applies the fallback policy when Resolve fails.
// last is the previous valid root, empty if none. The returned bool
// reports whether a fallback was used.
func (r *Resolver) ResolveWithFallback(activeDocumentPath, configuredRoot, last string) (string, bool, error) {
	root, err := r.Resolve(activeDocumentPath, configuredRoot)
	if err == nil {
		return root, false, nil
	}

	candidates := []string{}
	switch r.opts.Fallback {
	case FallbackLast:
		candidates = append(candidates, last, r.opts.Home)
	case FallbackHome:
		candidates = append(candidates, r.opts.Home)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		root, cerr := r.Canonical(candidate)
		if cerr == nil && r.isDir(root) {
			logger := logging.GetLogger("paths.resolver")
			logger.Info().
				Str("root", root).
				Str("policy", string(r.opts.Fallback)).
				Msg("Falling back to alternative root")
			return root, true, nil
		}
	}
	return "", false, err
}

// Canonical expands ~, makes path absolute, cleans it and evaluates
// symlinks.
func (r *Resolver) Canonical(path string) (string, error) {
	abs, err := Normalize(path)
	if err != nil {
		return "", err
	}
	resolved, err := r.fs.EvalSymlinks(abs)
	if err != nil {
		return "", errors.FromFS(err, errors.ErrDirectoryNotFound, abs)
	}
	return resolved, nil
}

// JoinWithin joins elems onto base and fails with OUTSIDE_ROOT when the
// result leaves root.
func (r *Resolver) JoinWithin(root, base string, elems ...string) (string, error) {
	return JoinWithin(r.fs, root, base, elems...)
}

func (r *Resolver) isDir(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Resolver) findMarkedAncestor(dir string) (string, bool) {
	for {
		for _, marker := range r.opts.Markers {
			if _, err := r.fs.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// JoinWithin joins elems onto base and checks that the result stays inside
// root, first lexically and then after evaluating symlinks of the longest
// existing prefix, so paths that do not exist yet can be checked too.
// root must be canonical.
func JoinWithin(fsys types.FS, root, base string, elems ...string) (string, error) {
	root = filepath.Clean(root)
	joined := filepath.Join(append([]string{base}, elems...)...)
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(root, joined)
	}

	if !IsWithin(root, joined) {
		return "", outsideRoot(root, joined)
	}

	resolved, err := evalExistingPrefix(fsys, joined)
	if err != nil {
		return "", errors.FromFS(err, errors.ErrNotFound, joined)
	}
	if !IsWithin(root, resolved) {
		return "", outsideRoot(root, joined).WithDetail("resolved", resolved)
	}
	return joined, nil
}

func outsideRoot(root, path string) *errors.BrowserError {
	return errors.Newf(errors.ErrOutsideRoot, "%s is outside the browsing root", path).
		WithDetails(map[string]interface{}{"root": root, "path": path})
}

// evalExistingPrefix evaluates symlinks on the deepest existing ancestor of
// path and re-appends the missing tail.
func evalExistingPrefix(fsys types.FS, path string) (string, error) {
	var tail []string
	current := path
	for {
		if _, err := fsys.Lstat(current); err == nil {
			resolved, err := fsys.EvalSymlinks(current)
			if err != nil {
				return "", err
			}
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return path, nil
		}
		tail = append(tail, filepath.Base(current))
		current = parent
	}
}
