package filesystem_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scriptbrowser/pkg/filesystem"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implementations returns every FS under test rooted at a usable directory.
func implementations(t *testing.T) map[string]struct {
	fsys types.FS
	root string
} {
	t.Helper()
	return map[string]struct {
		fsys types.FS
		root string
	}{
		"os":     {filesystem.NewOS(), t.TempDir()},
		"memory": {filesystem.NewMemory(), "/work"},
	}
}

func TestExclusiveCreate(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, impl.fsys.MkdirAll(impl.root, 0755))
			path := filepath.Join(impl.root, "a.py")

			f, err := impl.fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
			require.NoError(t, err)
			_, err = f.Write([]byte("print(1)\n"))
			require.NoError(t, err)
			require.NoError(t, f.Close())

			_, err = impl.fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
			assert.ErrorIs(t, err, fs.ErrExist)

			data, err := impl.fsys.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "print(1)\n", string(data))
		})
	}
}

func TestMkdirAndReadDir(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, impl.fsys.MkdirAll(impl.root, 0755))
			require.NoError(t, impl.fsys.Mkdir(filepath.Join(impl.root, "ops"), 0755))
			require.NoError(t, impl.fsys.WriteFile(filepath.Join(impl.root, "b.py"), nil, 0644))

			err := impl.fsys.Mkdir(filepath.Join(impl.root, "ops"), 0755)
			assert.ErrorIs(t, err, fs.ErrExist)

			entries, err := impl.fsys.ReadDir(impl.root)
			require.NoError(t, err)
			names := map[string]bool{}
			for _, e := range entries {
				names[e.Name()] = e.IsDir()
			}
			assert.Equal(t, map[string]bool{"ops": true, "b.py": false}, names)
		})
	}
}

func TestRemoveRefusesNonEmptyFolder(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(impl.root, "full")
			require.NoError(t, impl.fsys.MkdirAll(dir, 0755))
			require.NoError(t, impl.fsys.WriteFile(filepath.Join(dir, "x.py"), nil, 0644))

			assert.Error(t, impl.fsys.Remove(dir))
			_, err := impl.fsys.Stat(filepath.Join(dir, "x.py"))
			assert.NoError(t, err, "child must survive a refused remove")

			require.NoError(t, impl.fsys.RemoveAll(dir))
			_, err = impl.fsys.Stat(dir)
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	}
}

func TestRename(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, impl.fsys.MkdirAll(impl.root, 0755))
			from := filepath.Join(impl.root, "old.py")
			to := filepath.Join(impl.root, "new.py")
			require.NoError(t, impl.fsys.WriteFile(from, []byte("x"), 0644))

			require.NoError(t, impl.fsys.Rename(from, to))

			_, err := impl.fsys.Stat(from)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			data, err := impl.fsys.ReadFile(to)
			require.NoError(t, err)
			assert.Equal(t, "x", string(data))
		})
	}
}

func TestReadFileOnFolder(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/work/ops", 0755))

	_, err := fsys.ReadFile("/work/ops")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestEvalSymlinksMemory(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/work/ops", 0755))

	got, err := fsys.EvalSymlinks("/work/./ops/")
	require.NoError(t, err)
	assert.Equal(t, "/work/ops", got)

	_, err = fsys.EvalSymlinks("/work/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSymlinkUnsupportedOnMemory(t *testing.T) {
	fsys := filesystem.NewMemory()
	err := fsys.Symlink("/a", "/b")
	assert.ErrorIs(t, err, afero.ErrNoSymlink)
}

func TestSymlinkOS(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()
	target := filepath.Join(dir, "target")
	require.NoError(t, fsys.Mkdir(target, 0755))
	link := filepath.Join(dir, "link")
	if err := fsys.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink)

	resolved, err := fsys.EvalSymlinks(link)
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)
}

func TestAferoOsFsBehavesLikeOS(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewAferoFS(afero.NewOsFs())
	target := filepath.Join(dir, "real")
	require.NoError(t, fsys.Mkdir(target, 0755))
	link := filepath.Join(dir, "alias")
	if err := fsys.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink)

	resolved, err := fsys.EvalSymlinks(link)
	require.NoError(t, err)
	expected, _ := filepath.EvalSymlinks(target)
	assert.Equal(t, expected, resolved)
}
