package trash_test

import (
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/testutil"
	"github.com/arthur-debert/scriptbrowser/pkg/trash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 5, 17, 9, 30, 0, 0, time.Local)

func newTrash(env *testutil.TestEnvironment) *trash.Trash {
	return trash.New(env.FS, "/xdg/Trash").WithClock(func() time.Time { return fixed })
}

func TestTrashMovesFileAndWritesInfo(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{
		"my script.py": "print(1)\n",
	})
	tr := newTrash(env)

	name, err := tr.Trash(env.Path("my script.py"))
	require.NoError(t, err)
	assert.Equal(t, "my script.py", name)

	assert.False(t, env.Exists("my script.py"))
	data, err := env.FS.ReadFile("/xdg/Trash/files/my script.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", string(data))

	info, err := env.FS.ReadFile("/xdg/Trash/info/my script.py.trashinfo")
	require.NoError(t, err)
	assert.Equal(t,
		"[Trash Info]\nPath=/work/my%20script.py\nDeletionDate=2024-05-17T09:30:00\n",
		string(info))
}

func TestTrashNameCollisions(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	tr := newTrash(env)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.FS.WriteFile(env.Path("a.py"), []byte{byte('0' + i)}, 0644))
		_, err := tr.Trash(env.Path("a.py"))
		require.NoError(t, err)
	}

	items, err := tr.Items()
	require.NoError(t, err)
	names := []string{}
	for _, it := range items {
		names = append(names, it.Name)
		assert.Equal(t, env.Path("a.py"), it.OriginalPath)
		assert.True(t, it.DeletionDate.Equal(fixed))
	}
	assert.ElementsMatch(t, []string{"a.py", "a.py.2", "a.py.3"}, names)
}

func TestTrashFolder(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated).WithFileTree(testutil.FileTree{
		"ops": testutil.FileTree{"move.py": "# move\n"},
	})
	trashDir := filepath.Join(t.TempDir(), "Trash")
	tr := trash.New(env.FS, trashDir)

	_, err := tr.Trash(env.Path("ops"))
	require.NoError(t, err)

	assert.False(t, env.Exists("ops"))
	data, err := env.FS.ReadFile(filepath.Join(trashDir, "files", "ops", "move.py"))
	require.NoError(t, err)
	assert.Equal(t, "# move\n", string(data))
}

func TestTrashMissingPath(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	_, err := newTrash(env).Trash(env.Path("ghost.py"))
	testutil.AssertErrorCode(t, err, errors.ErrNotFound)
}

func TestTrashRenameFailureLeavesOriginal(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).WithFileTree(testutil.FileTree{"a.py": "x"})
	env.Memory.WithError(testutil.OpRename, env.Path("a.py"), fs.ErrPermission)
	tr := newTrash(env)

	_, err := tr.Trash(env.Path("a.py"))
	testutil.AssertErrorCode(t, err, errors.ErrTrash)

	assert.True(t, env.Exists("a.py"))
	items, err := tr.Items()
	require.NoError(t, err)
	assert.Empty(t, items, "info file is rolled back")
}

func TestItemsOnEmptyTrash(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	items, err := newTrash(env).Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "Trash"), trash.DefaultDir())
}
