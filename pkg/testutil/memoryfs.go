package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/scriptbrowser/pkg/filesystem"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Operation names accepted by WithError.
const (
	OpAny          = ""
	OpStat         = "stat"
	OpLstat        = "lstat"
	OpReadDir      = "readdir"
	OpReadFile     = "readfile"
	OpWriteFile    = "writefile"
	OpOpenFile     = "openfile"
	OpMkdir        = "mkdir"
	OpRemove       = "remove"
	OpRemoveAll    = "removeall"
	OpRename       = "rename"
	OpEvalSymlinks = "evalsymlinks"
)

// MemoryFS is an in-memory types.FS with error injection.
type MemoryFS struct {
	types.FS

	mu         sync.RWMutex
	errorPaths map[string]map[string]error
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		FS:         filesystem.NewMemory(),
		errorPaths: make(map[string]map[string]error),
	}
}

// WithError makes op on path fail with err. OpAny matches every operation.
func (m *MemoryFS) WithError(op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if m.errorPaths[path] == nil {
		m.errorPaths[path] = make(map[string]error)
	}
	m.errorPaths[path][op] = err
	return m
}

// ClearErrors removes every injected error.
func (m *MemoryFS) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths = make(map[string]map[string]error)
}

func (m *MemoryFS) injected(op, path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ops, ok := m.errorPaths[filepath.Clean(path)]
	if !ok {
		return nil
	}
	if err, ok := ops[op]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	if err, ok := ops[OpAny]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	if err := m.injected(OpStat, name); err != nil {
		return nil, err
	}
	return m.FS.Stat(name)
}

func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	if err := m.injected(OpLstat, name); err != nil {
		return nil, err
	}
	return m.FS.Lstat(name)
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := m.injected(OpReadDir, name); err != nil {
		return nil, err
	}
	return m.FS.ReadDir(name)
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	if err := m.injected(OpReadFile, name); err != nil {
		return nil, err
	}
	return m.FS.ReadFile(name)
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := m.injected(OpWriteFile, name); err != nil {
		return err
	}
	return m.FS.WriteFile(name, data, perm)
}

func (m *MemoryFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	if err := m.injected(OpOpenFile, name); err != nil {
		return nil, err
	}
	return m.FS.OpenFile(name, flag, perm)
}

func (m *MemoryFS) Mkdir(name string, perm fs.FileMode) error {
	if err := m.injected(OpMkdir, name); err != nil {
		return err
	}
	return m.FS.Mkdir(name, perm)
}

func (m *MemoryFS) Remove(name string) error {
	if err := m.injected(OpRemove, name); err != nil {
		return err
	}
	return m.FS.Remove(name)
}

func (m *MemoryFS) RemoveAll(path string) error {
	if err := m.injected(OpRemoveAll, path); err != nil {
		return err
	}
	return m.FS.RemoveAll(path)
}

func (m *MemoryFS) Rename(oldpath, newpath string) error {
	if err := m.injected(OpRename, oldpath); err != nil {
		return err
	}
	return m.FS.Rename(oldpath, newpath)
}

func (m *MemoryFS) EvalSymlinks(path string) (string, error) {
	if err := m.injected(OpEvalSymlinks, path); err != nil {
		return "", err
	}
	return m.FS.EvalSymlinks(path)
}
