package fileops

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

const (
	filePerm   fs.FileMode = 0644
	folderPerm fs.FileMode = 0755
)

// Trasher moves a path to a trash can, returning the name it got there.
type Trasher interface {
	Trash(path string) (string, error)
}

// Options configure an Ops.
type Options struct {
	// UseTrash sends deletes to Trash unless DeleteOptions.Permanent.
	UseTrash bool
	Trash    Trasher
}

// Ops performs file operations confined to a root.
type Ops struct {
	fs   types.FS
	root string
	opts Options
}

// New binds file operations to root, which must be canonical.
func New(fsys types.FS, root string, opts Options) *Ops {
	if opts.Trash == nil {
		opts.UseTrash = false
	}
	return &Ops{fs: fsys, root: filepath.Clean(root), opts: opts}
}

// Root returns the root the operations are confined to.
func (o *Ops) Root() string {
	return o.root
}

// CreateFile creates an empty file named name in dir.
func (o *Ops) CreateFile(dir, name string) (types.Entry, error) {
	return o.CreateFileWithContent(dir, name, nil)
}

// CreateFileWithContent creates name in dir holding content. Fails with
// ALREADY_EXISTS if any entry of that name exists.
func (o *Ops) CreateFileWithContent(dir, name string, content []byte) (types.Entry, error) {
	target, err := o.newChild(dir, name)
	if err != nil {
		return types.Entry{}, err
	}
	if err := o.writeExclusive(target, content, filePerm); err != nil {
		return types.Entry{}, err
	}

	logger := logging.GetLogger("fileops")
	logger.Info().Str("path", target).Int("bytes", len(content)).Msg("Created file")
	return listing.EntryFor(o.fs, o.root, target)
}

// CreateFolder creates the folder name in dir.
func (o *Ops) CreateFolder(dir, name string) (types.Entry, error) {
	target, err := o.newChild(dir, name)
	if err != nil {
		return types.Entry{}, err
	}
	if err := o.fs.Mkdir(target, folderPerm); err != nil {
		return types.Entry{}, errors.FromFS(err, errors.ErrDirectoryNotFound, target)
	}

	logger := logging.GetLogger("fileops")
	logger.Info().Str("path", target).Msg("Created folder")
	return listing.EntryFor(o.fs, o.root, target)
}

// newChild validates name, checks that dir is an existing folder inside
// the root and returns the path of the new child.
func (o *Ops) newChild(dir, name string) (string, error) {
	if err := paths.ValidateName(name); err != nil {
		return "", err
	}
	parent, err := o.existingDir(dir)
	if err != nil {
		return "", err
	}
	target, err := paths.JoinWithin(o.fs, o.root, parent, name)
	if err != nil {
		return "", err
	}
	if _, err := o.fs.Lstat(target); err == nil {
		return "", errors.Newf(errors.ErrAlreadyExists, "%s already exists", name).
			WithDetail("path", target)
	}
	return target, nil
}

// existingDir checks that dir lies in the root and is a folder.
func (o *Ops) existingDir(dir string) (string, error) {
	dirPath, err := paths.JoinWithin(o.fs, o.root, dir)
	if err != nil {
		return "", err
	}
	info, err := o.fs.Stat(dirPath)
	if err != nil {
		return "", errors.FromFS(err, errors.ErrDirectoryNotFound, dirPath)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrDirectoryNotFound, "%s is not a directory", dirPath).
			WithDetail("path", dirPath)
	}
	return dirPath, nil
}

func (o *Ops) writeExclusive(target string, content []byte, perm fs.FileMode) error {
	f, err := o.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.FromFS(err, errors.ErrDirectoryNotFound, target)
	}
	_, werr := f.Write(content)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = o.fs.Remove(target)
		return errors.Wrapf(werr, errors.ErrFileCreate, "failed to write %s", target).
			WithDetail("path", target)
	}
	return nil
}

// existingEntry re-checks an entry the caller got from a listing.
func (o *Ops) existingEntry(entry types.Entry) (string, fs.FileInfo, error) {
	if entry.Path == "" {
		return "", nil, errors.New(errors.ErrInvalidInput, "entry has no path")
	}
	path := filepath.Clean(entry.Path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.root, path)
	}
	if path != o.root {
		// the entry itself may be a link leading anywhere; only its folder
		// has to resolve inside the root
		parent, err := paths.JoinWithin(o.fs, o.root, filepath.Dir(path))
		if err != nil {
			return "", nil, err
		}
		path = filepath.Join(parent, filepath.Base(path))
	}
	info, err := o.fs.Lstat(path)
	if err != nil {
		return "", nil, errors.FromFS(err, errors.ErrNotFound, path)
	}
	return path, info, nil
}

func (o *Ops) rejectRoot(path, op string) error {
	if path == o.root {
		return errors.Newf(errors.ErrInvalidInput, "cannot %s the browsing root", op).
			WithDetail("path", path)
	}
	return nil
}

// Rename gives entry a new name in the same folder.
func (o *Ops) Rename(entry types.Entry, newName string) (types.Entry, error) {
	if err := paths.ValidateName(newName); err != nil {
		return types.Entry{}, err
	}
	path, info, err := o.existingEntry(entry)
	if err != nil {
		return types.Entry{}, err
	}
	if err := o.rejectRoot(path, "rename"); err != nil {
		return types.Entry{}, err
	}

	target, err := paths.JoinWithin(o.fs, o.root, filepath.Dir(path), newName)
	if err != nil {
		return types.Entry{}, err
	}
	if target == path {
		return listing.EntryFor(o.fs, o.root, path)
	}
	if existing, err := o.fs.Lstat(target); err == nil && !os.SameFile(info, existing) {
		return types.Entry{}, errors.Newf(errors.ErrAlreadyExists, "%s already exists", newName).
			WithDetail("path", target)
	}

	if err := o.fs.Rename(path, target); err != nil {
		return types.Entry{}, errors.FromFS(err, errors.ErrNotFound, path)
	}

	logger := logging.GetLogger("fileops")
	logger.Info().Str("from", path).Str("to", target).Msg("Renamed entry")
	return listing.EntryFor(o.fs, o.root, target)
}

// Duplicate copies a file next to itself as stem_copy.ext, or
// stem_copy1.ext, stem_copy2.ext and so on when taken.
func (o *Ops) Duplicate(entry types.Entry) (types.Entry, error) {
	path, info, err := o.existingEntry(entry)
	if err != nil {
		return types.Entry{}, err
	}
	if info.IsDir() {
		return types.Entry{}, errors.New(errors.ErrInvalidInput, "cannot duplicate folders").
			WithDetail("path", path)
	}

	content, err := o.fs.ReadFile(path)
	if err != nil {
		return types.Entry{}, errors.FromFS(err, errors.ErrNotFound, path)
	}

	dir := filepath.Dir(path)
	for name := range CopyNames(filepath.Base(path)) {
		target := filepath.Join(dir, name)
		if _, err := o.fs.Lstat(target); err == nil {
			continue
		}
		err := o.writeExclusive(target, content, info.Mode().Perm())
		if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return types.Entry{}, err
		}
		logger := logging.GetLogger("fileops")
		logger.Info().Str("from", path).Str("to", target).Msg("Duplicated file")
		return listing.EntryFor(o.fs, o.root, target)
	}
	return types.Entry{}, errors.Newf(errors.ErrAlreadyExists, "too many copies of %s", filepath.Base(path))
}

// maxCopies bounds the candidate names CopyNames produces.
const maxCopies = 1000

// CopyNames yields the candidate names for duplicating name.
func CopyNames(name string) iter.Seq[string] {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	if stem == "" {
		// dotfile such as .env
		stem, ext = name, ""
	}

	return func(yield func(string) bool) {
		if !yield(stem + "_copy" + ext) {
			return
		}
		for i := 1; i < maxCopies; i++ {
			if !yield(stem + "_copy" + strconv.Itoa(i) + ext) {
				return
			}
		}
	}
}

// Move moves entry into destDir, keeping its name.
func (o *Ops) Move(entry types.Entry, destDir string) (types.Entry, error) {
	path, _, err := o.existingEntry(entry)
	if err != nil {
		return types.Entry{}, err
	}
	if err := o.rejectRoot(path, "move"); err != nil {
		return types.Entry{}, err
	}
	dest, err := o.existingDir(destDir)
	if err != nil {
		return types.Entry{}, err
	}
	if paths.IsWithin(path, dest) {
		return types.Entry{}, errors.Newf(errors.ErrInvalidInput, "cannot move %s into itself", filepath.Base(path)).
			WithDetails(map[string]interface{}{"path": path, "dest": dest})
	}

	target, err := paths.JoinWithin(o.fs, o.root, dest, filepath.Base(path))
	if err != nil {
		return types.Entry{}, err
	}
	if target == path {
		return listing.EntryFor(o.fs, o.root, path)
	}
	if _, err := o.fs.Lstat(target); err == nil {
		return types.Entry{}, errors.Newf(errors.ErrAlreadyExists, "%s already exists in %s",
			filepath.Base(path), paths.RelativeTo(o.root, dest)).WithDetail("path", target)
	}

	if err := o.fs.Rename(path, target); err != nil {
		return types.Entry{}, errors.FromFS(err, errors.ErrNotFound, path)
	}

	logger := logging.GetLogger("fileops")
	logger.Info().Str("from", path).Str("to", target).Msg("Moved entry")
	return listing.EntryFor(o.fs, o.root, target)
}
