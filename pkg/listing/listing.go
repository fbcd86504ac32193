package listing

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Options filter the listing.
type Options struct {
	// Root is the browsing root RelPath is computed against. When empty
	// the listed directory is used.
	Root       string
	ShowHidden bool
	// Extensions restricts files, case-insensitively. Folders are never
	// filtered. ".py" and "py" are equivalent.
	Extensions []string
}

// Lister produces directory snapshots. It is safe to reuse; every call
// reads the filesystem again.
type Lister struct {
	fs         types.FS
	opts       Options
	extensions map[string]bool
}

// New creates a lister.
func New(fsys types.FS, opts Options) *Lister {
	l := &Lister{fs: fsys, opts: opts}
	if len(opts.Extensions) > 0 {
		l.extensions = make(map[string]bool, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			l.extensions[normalizeExt(ext)] = true
		}
	}
	return l
}

// Options returns the options in effect.
func (l *Lister) Options() Options {
	return l.opts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// List returns the entries of dir. Fails with DIRECTORY_NOT_FOUND when
// dir is missing or not a folder and PERMISSION_DENIED when it cannot be
// read.
func (l *Lister) List(dir string) ([]types.Entry, error) {
	logger := logging.GetLogger("listing")

	dir = filepath.Clean(dir)
	info, err := l.fs.Stat(dir)
	if err != nil {
		return nil, errors.FromFS(err, errors.ErrDirectoryNotFound, dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrDirectoryNotFound, "%s is not a directory", dir).
			WithDetail("path", dir)
	}

	dirEntries, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.FromFS(err, errors.ErrDirectoryNotFound, dir)
	}

	entries := make([]types.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry, ok := l.entry(dir, de.Name())
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	Sort(entries)

	logger.Trace().
		Str("dir", dir).
		Int("read", len(dirEntries)).
		Int("listed", len(entries)).
		Msg("Listed directory")
	return entries, nil
}

// entry builds the entry for name, reporting false when it is filtered
// out, dangling or gone.
func (l *Lister) entry(dir, name string) (types.Entry, bool) {
	path := filepath.Join(dir, name)

	linfo, err := l.fs.Lstat(path)
	if err != nil {
		// removed since ReadDir
		return types.Entry{}, false
	}

	if !l.opts.ShowHidden && (paths.IsHiddenName(name) || hasHiddenAttribute(linfo)) {
		return types.Entry{}, false
	}

	root := l.opts.Root
	if root == "" {
		root = dir
	}

	entry, err := build(l.fs, root, path, linfo)
	if err != nil {
		logger := logging.GetLogger("listing")
		logger.Trace().Str("path", path).Msg("Skipping dangling symlink")
		return types.Entry{}, false
	}

	if entry.IsFile() && l.extensions != nil && !l.extensions[strings.ToLower(filepath.Ext(name))] {
		return types.Entry{}, false
	}
	return entry, true
}

// EntryFor describes a single path, without any filtering. Used after
// file operations to report what was created.
func EntryFor(fsys types.FS, root, path string) (types.Entry, error) {
	path = filepath.Clean(path)
	linfo, err := fsys.Lstat(path)
	if err != nil {
		return types.Entry{}, errors.FromFS(err, errors.ErrNotFound, path)
	}
	entry, err := build(fsys, root, path, linfo)
	if err != nil {
		return types.Entry{}, errors.FromFS(err, errors.ErrNotFound, path)
	}
	entry.Level = paths.Depth(root, filepath.Dir(path))
	return entry, nil
}

// build follows symlinks for the kind and fails on dangling links.
func build(fsys types.FS, root, path string, linfo fs.FileInfo) (types.Entry, error) {
	info := linfo
	symlink := linfo.Mode()&fs.ModeSymlink != 0
	if symlink {
		var err error
		info, err = fsys.Stat(path)
		if err != nil {
			return types.Entry{}, err
		}
	}

	kind := types.KindFile
	if info.IsDir() {
		kind = types.KindFolder
	}

	entry := types.Entry{
		Name:    filepath.Base(path),
		Kind:    kind,
		Path:    path,
		RelPath: paths.RelativeTo(root, path),
		ModTime: info.ModTime(),
		Symlink: symlink,
	}
	if kind == types.KindFile {
		entry.Size = info.Size()
	}
	return entry, nil
}

// Sort orders entries folders first, then by case-insensitive name with
// the exact name breaking ties.
func Sort(entries []types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Less is the listing order.
func Less(a, b types.Entry) bool {
	if a.IsDir() != b.IsDir() {
		return a.IsDir()
	}
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}
