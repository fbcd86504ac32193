package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem surface used by the lister, file operations and
// template catalog. Implementations live in pkg/filesystem.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// OpenFile with os.O_CREATE|os.O_EXCL is how new files are created
	// so that an existing entry is never clobbered.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	Mkdir(name string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	EvalSymlinks(path string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Lstat falls back to Stat on filesystems without symlinks
	Lstat(name string) (fs.FileInfo, error)
}

// File is the writable handle returned by FS.OpenFile.
type File interface {
	io.Writer
	io.Closer
	Name() string
}
