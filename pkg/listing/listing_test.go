package listing_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/testutil"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrdering(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.AddonTree())
	l := listing.New(env.FS, listing.Options{Root: env.Root})

	entries, err := l.List(env.Root)
	require.NoError(t, err)

	testutil.AssertNames(t, []string{
		"Assets", "ops",
		"__init__.py", "blender_manifest.toml", "Operators.py", "panel.py", "README.md",
	}, entries)

	assert.True(t, entries[0].IsDir())
	assert.Equal(t, "ops", entries[1].RelPath)
	assert.Equal(t, env.Path("panel.py"), entries[5].Path)
}

func TestListIsDeterministic(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{
		"b.py": "", "B.py": "", "a.py": "", "A.py": "", "Lib": testutil.FileTree{}, "lib2": testutil.FileTree{},
	})
	l := listing.New(env.FS, listing.Options{})

	first, err := l.List(env.Root)
	require.NoError(t, err)
	second, err := l.List(env.Root)
	require.NoError(t, err)

	testutil.AssertNames(t, []string{"Lib", "lib2", "A.py", "a.py", "B.py", "b.py"}, first)
	assert.Equal(t, first, second)
}

func TestListHiddenEntries(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.AddonTree())

	hidden, err := listing.New(env.FS, listing.Options{}).List(env.Root)
	require.NoError(t, err)
	testutil.AssertNotContainsName(t, hidden, ".git")
	testutil.AssertNotContainsName(t, hidden, ".hidden.py")

	shown, err := listing.New(env.FS, listing.Options{ShowHidden: true}).List(env.Root)
	require.NoError(t, err)
	testutil.AssertContainsName(t, shown, ".git")
	testutil.AssertContainsName(t, shown, ".hidden.py")
	assert.Equal(t, ".git", shown[0].Name, "hidden folders still sort with folders")
}

func TestListExtensionFilter(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{
		"a.py":    "",
		"b.PY":    "",
		"c.txt":   "",
		"noext":   "",
		"sub.txt": testutil.FileTree{},
	})

	for _, exts := range [][]string{{".py"}, {"py"}, {".Py"}} {
		entries, err := listing.New(env.FS, listing.Options{Extensions: exts}).List(env.Root)
		require.NoError(t, err)
		testutil.AssertNames(t, []string{"sub.txt", "a.py", "b.PY"}, entries, "extensions %v", exts)
	}
}

func TestListFileAttributes(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{
		"five.py": "12345",
		"dir":     testutil.FileTree{"x.py": ""},
	})

	entries, err := listing.New(env.FS, listing.Options{Root: env.Root}).List(env.Path("dir"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dir/x.py", entries[0].RelPath)
	assert.Equal(t, 0, entries[0].Level)

	entries, err = listing.New(env.FS, listing.Options{}).List(env.Root)
	require.NoError(t, err)
	assert.Equal(t, int64(5), entries[1].Size)
	assert.Equal(t, int64(0), entries[0].Size, "folders report no size")
	assert.False(t, entries[1].ModTime.IsZero())
}

func TestListErrors(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{
		"file.py": "",
		"locked":  testutil.FileTree{"a.py": ""},
	})
	env.Memory.WithError(testutil.OpReadDir, env.Path("locked"), fs.ErrPermission)
	l := listing.New(env.FS, listing.Options{})

	tests := []struct {
		name string
		dir  string
		code errors.ErrorCode
	}{
		{"missing", env.Path("missing"), errors.ErrDirectoryNotFound},
		{"file", env.Path("file.py"), errors.ErrDirectoryNotFound},
		{"unreadable", env.Path("locked"), errors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.List(tt.dir)
			testutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestListSkipsEntriesThatVanish(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{
		"stays.py": "", "gone.py": "",
	})
	env.Memory.WithError(testutil.OpLstat, env.Path("gone.py"), fs.ErrNotExist)

	entries, err := listing.New(env.FS, listing.Options{}).List(env.Root)
	require.NoError(t, err)
	testutil.AssertNames(t, []string{"stays.py"}, entries)
}

func TestListSymlinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated).WithFileTree(testutil.FileTree{
		"real":    testutil.FileTree{"x.py": ""},
		"file.py": "",
	})
	if err := os.Symlink(env.Path("real"), env.Path("link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(env.Path("file.py"), env.Path("alias.py")))
	require.NoError(t, os.Symlink(filepath.Join(env.Root, "nowhere"), env.Path("dangling.py")))

	entries, err := listing.New(env.FS, listing.Options{}).List(env.Root)
	require.NoError(t, err)

	testutil.AssertNames(t, []string{"link", "real", "alias.py", "file.py"}, entries)
	assert.Equal(t, types.KindFolder, entries[0].Kind, "link to folder lists as folder")
	assert.True(t, entries[0].Symlink)
	assert.True(t, entries[2].Symlink)
	assert.False(t, entries[3].Symlink)
}

func TestLess(t *testing.T) {
	folder := types.Entry{Name: "zz", Kind: types.KindFolder}
	file := types.Entry{Name: "aa", Kind: types.KindFile}
	assert.True(t, listing.Less(folder, file))
	assert.False(t, listing.Less(file, folder))
	assert.True(t, listing.Less(types.Entry{Name: "A"}, types.Entry{Name: "a"}))
	assert.True(t, listing.Less(types.Entry{Name: "a"}, types.Entry{Name: "B"}))
}

func TestEntryFor(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.AddonTree())

	e, err := listing.EntryFor(env.FS, env.Root, env.Path("ops", "util", "math_helpers.py"))
	require.NoError(t, err)
	assert.Equal(t, "math_helpers.py", e.Name)
	assert.Equal(t, "ops/util/math_helpers.py", e.RelPath)
	assert.Equal(t, 2, e.Level)
	assert.True(t, e.IsFile())

	hidden, err := listing.EntryFor(env.FS, env.Root, env.Path(".git"))
	require.NoError(t, err, "no filtering for explicit paths")
	assert.True(t, hidden.IsDir())
	assert.Equal(t, 0, hidden.Level)

	_, err = listing.EntryFor(env.FS, env.Root, env.Path("nope.py"))
	testutil.AssertErrorCode(t, err, errors.ErrNotFound)
}
