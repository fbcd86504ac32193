package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

// testEnv is an add-on folder plus isolated config, data, state and
// trash locations.
type testEnv struct {
	tmp    string
	root   string
	config string
	trash  string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		tmp:    tmp,
		root:   filepath.Join(tmp, "addon"),
		config: filepath.Join(tmp, "config"),
		trash:  filepath.Join(tmp, "xdg-data", "Trash"),
	}
	t.Setenv("SCRIPTBROWSER_CONFIG_DIR", env.config)
	t.Setenv("SCRIPTBROWSER_DATA_DIR", filepath.Join(tmp, "data"))
	t.Setenv("SCRIPTBROWSER_STATE_DIR", filepath.Join(tmp, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "xdg-data"))
	t.Setenv("SCRIPTBROWSER_DELETE__TRASH_DIR", env.trash)
	t.Setenv("SCRIPTBROWSER_ROOT__FALLBACK", "none")

	env.write(t, "__init__.py", "bl_info = {}\n")
	env.write(t, "README.md", "# addon\n")
	env.write(t, "ops/move.py", "import bpy\n")
	env.write(t, "ops/scale.py", "import bpy\n")
	env.write(t, "ui/panels/main.py", "import bpy\n")
	return env
}

func (e *testEnv) write(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(e.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.root, rel)
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandWithoutSubcommand(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLsText(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "ls", "--root", env.root)
	require.NoError(t, err)

	assert.Contains(t, out, env.root)
	assert.Contains(t, out, "▸ ops/")
	assert.Contains(t, out, "▸ ui/")
	assert.Contains(t, out, "__init__.py")
	assert.Contains(t, out, "README.md")
	assert.NotContains(t, out, "move.py")
}

func TestLsSubfolder(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "ls", "ops", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "› ops")
	assert.Contains(t, out, "move.py")
	assert.Contains(t, out, "scale.py")
}

func TestLsJSON(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "ls", "--root", env.root, "--format", "json")
	require.NoError(t, err)

	var listing views.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, env.root, listing.Root)
	assert.Equal(t, "browsing", listing.State)

	var names []string
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "ops")
	assert.Contains(t, names, "README.md")
}

func TestLsFromDocument(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "ls", "--doc", env.path("ops/move.py"))
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(env.root, "ops"))
	assert.Contains(t, out, "move.py")
	assert.Contains(t, out, "[open]")
}

func TestLsNoRoot(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "ls")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoRootAvailable))
	assert.Contains(t, err.Error(), "--root")
}

func TestLsRejectsOutsideRoot(t *testing.T) {
	env := setupEnv(t)

	_, err := run(t, "", "ls", "../..", "--root", env.path("ops"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutsideRoot))
}

func TestTree(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "tree", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "▾ ops/")
	assert.Contains(t, out, "▾ panels/")
	assert.Contains(t, out, "main.py")

	out, err = run(t, "", "tree", "--depth", "1", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "▾ ui/")
	assert.Contains(t, out, "▸ panels/")
	assert.NotContains(t, out, "main.py")
}

func TestSearch(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "search", "read", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, `search: "read"`)
	assert.Contains(t, out, "README.md")
	assert.NotContains(t, out, "__init__.py")

	out, err = run(t, "", "search", "move", "--recursive", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("ops", "move.py"))

	out, err = run(t, "", "search", "zzz", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "(no matches)")
}

func TestMkfileAndMkdir(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "mkfile", "rotate.py", "--in", "ops", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.FileExists(t, env.path("ops/rotate.py"))

	_, err = run(t, "", "mkdir", "utils", "--root", env.root)
	require.NoError(t, err)
	assert.DirExists(t, env.path("utils"))

	_, err = run(t, "", "mkfile", "move.py", "--in", "ops", "--root", env.root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, err = run(t, "", "mkdir", "a/b", "--root", env.root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidName))
}

func TestRmMovesToTrash(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "rm", "README.md", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "README.md moved to trash")
	assert.NoFileExists(t, env.path("README.md"))
	assert.FileExists(t, filepath.Join(env.trash, "files", "README.md"))
	assert.FileExists(t, filepath.Join(env.trash, "info", "README.md.trashinfo"))
}

func TestRmPermanent(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "rm", "--permanent", "README.md", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "README.md deleted")
	assert.NoFileExists(t, env.path("README.md"))
	assert.NoDirExists(t, env.trash)
}

func TestRmFolderNeedsConfirmation(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "n\n", "rm", "ops", "--permanent", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "Delete ops and everything in it?")
	assert.Contains(t, out, "ops (kept)")
	assert.DirExists(t, env.path("ops"))

	out, err = run(t, "y\n", "rm", "ops", "--permanent", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "ops deleted")
	assert.NoDirExists(t, env.path("ops"))
}

func TestRmYesSkipsPrompt(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "rm", "ui", "README.md", "--yes", "--permanent", "--root", env.root)
	require.NoError(t, err)
	assert.NotContains(t, out, "Continue?")
	assert.NoDirExists(t, env.path("ui"))
	assert.NoFileExists(t, env.path("README.md"))
}

func TestRmEmptyFolderWithoutConfirmation(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, os.Mkdir(env.path("empty"), 0755))

	out, err := run(t, "", "rm", "empty", "--permanent", "--root", env.root)
	require.NoError(t, err)
	assert.NotContains(t, out, "Continue?")
	assert.NoDirExists(t, env.path("empty"))
}

func TestRmMissingReportsFailure(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "rm", "nope.py", "README.md", "--permanent", "--root", env.root)
	require.Error(t, err)
	assert.Contains(t, out, "nope.py")
	assert.Contains(t, out, "README.md deleted")
	assert.NoFileExists(t, env.path("README.md"))
}

func TestRenameMoveDuplicate(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "rename", "ops/move.py", "translate.py", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed")
	assert.FileExists(t, env.path("ops/translate.py"))
	assert.NoFileExists(t, env.path("ops/move.py"))

	_, err = run(t, "", "mv", "ops/scale.py", "ui", "--root", env.root)
	require.NoError(t, err)
	assert.FileExists(t, env.path("ui/scale.py"))

	_, err = run(t, "", "dup", "ui/scale.py", "--root", env.root)
	require.NoError(t, err)
	assert.FileExists(t, env.path("ui/scale_copy.py"))

	_, err = run(t, "", "mv", "ops", "..", "--root", env.root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutsideRoot))
}

func TestNewFromTemplate(t *testing.T) {
	env := setupEnv(t)

	_, err := run(t, "", "new", "operator.py", "move_op.py", "--in", "ops",
		"--set", "class_name=OBJECT_OT_move", "--root", env.root)
	require.NoError(t, err)

	data, err := os.ReadFile(env.path("ops/move_op.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "class OBJECT_OT_move(bpy.types.Operator):")
	assert.Contains(t, string(data), `bl_label = "Custom Operator"`)

	_, err = run(t, "", "new", "blank.py", "--root", env.root)
	require.NoError(t, err)
	assert.FileExists(t, env.path("blank.py"))

	_, err = run(t, "", "new", "nope.py", "--root", env.root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))

	_, err = run(t, "", "new", "blank.py", "x.py", "--set", "broken", "--root", env.root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInsertIntoDocument(t *testing.T) {
	env := setupEnv(t)
	doc := env.path("ops/move.py")

	out, err := run(t, "", "insert", "blank.py", "--doc", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Inserted")

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "import bpy\n"))
	assert.Contains(t, string(data), "# New Python file")
}

func TestInsertAtCursor(t *testing.T) {
	env := setupEnv(t)
	doc := env.write(t, "cursor.py", "first\nsecond\n")

	_, err := run(t, "", "insert", "blank.py", "--doc", doc, "--at-cursor", "--line", "2", "--col", "1")
	require.NoError(t, err)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "first\n# New Python file"))
	assert.True(t, strings.HasSuffix(string(data), "second\n"))
}

func TestInsertRequiresDocument(t *testing.T) {
	env := setupEnv(t)

	_, err := run(t, "", "insert", "blank.py", "--root", env.root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoActiveDocument))
}

func TestTemplatesCommands(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "", "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "operator.py")
	assert.Contains(t, out, "builtin")

	out, err = run(t, "", "templates", "show", "operator.py")
	require.NoError(t, err)
	assert.Contains(t, out, "placeholders: ")
	assert.Contains(t, out, "class_name")
	assert.Contains(t, out, "import bpy")

	out, err = run(t, "# by {author}\n", "templates", "add", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "mine.py")
	assert.FileExists(t, filepath.Join(env.tmp, "data", "templates", "mine.py"))

	out, err = run(t, "", "templates", "render", "mine", "--set", "author=Ana")
	require.NoError(t, err)
	assert.Equal(t, "# by Ana\n", out)

	t.Setenv("SCRIPTBROWSER_TEMPLATES__STRICT", "true")
	_, err = run(t, "", "templates", "render", "mine", "--set", "autor=Ana")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "autor")

	out, err = run(t, "", "templates", "list", "--format", "json")
	require.NoError(t, err)
	var list views.TemplateList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	var user []string
	for _, tmpl := range list.Templates {
		if tmpl.Source == "user" {
			user = append(user, tmpl.Name)
		}
	}
	assert.Equal(t, []string{"mine.py"}, user)

	_, err = run(t, "", "templates", "rm", "mine.py")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(env.tmp, "data", "templates", "mine.py"))

	_, err = run(t, "", "templates", "rm", "operator.py")
	require.Error(t, err)
}

func TestRootsCommands(t *testing.T) {
	env := setupEnv(t)
	other := filepath.Join(env.tmp, "other")
	require.NoError(t, os.Mkdir(other, 0755))

	_, err := run(t, "", "roots", "add", other)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.config, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), other)

	out, err := run(t, "", "roots", "list", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "* "+env.root)
	assert.Contains(t, out, other)

	_, err = run(t, "", "roots", "rm", other)
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(env.config, "config.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), other)

	_, err = run(t, "", "roots", "rm", other)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = run(t, "", "roots", "add", filepath.Join(env.tmp, "missing"))
	require.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	env := setupEnv(t)
	path := filepath.Join(env.config, "config.toml")

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, err = run(t, "", "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run(t, "", "config", "init")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, err = run(t, "", "config", "init", "--force")
	require.NoError(t, err)

	out, err = run(t, "", "config", "show", "--show-hidden")
	require.NoError(t, err)
	assert.Contains(t, out, "show_hidden = true")
}

func TestShowHiddenFlag(t *testing.T) {
	env := setupEnv(t)
	env.write(t, ".secret.py", "")

	out, err := run(t, "", "ls", "--root", env.root)
	require.NoError(t, err)
	assert.NotContains(t, out, ".secret.py")

	out, err = run(t, "", "ls", "-a", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, ".secret.py")
}

func TestBrowseSession(t *testing.T) {
	env := setupEnv(t)

	script := strings.Join([]string{
		"cd ops",
		"mkfile rotate.py",
		"up",
		"find read",
		"clear",
		"bogus",
		"quit",
	}, "\n") + "\n"
	out, err := run(t, script, "browse", "--root", env.root)
	require.NoError(t, err)

	assert.FileExists(t, env.path("ops/rotate.py"))
	assert.Contains(t, out, "rotate.py")
	assert.Contains(t, out, `search: "read"`)
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, MsgBrowseBye)
}

func TestBrowseConfirmsThroughPrompt(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "rm -p ops\ny\nquit\n", "browse", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "Continue? [y/N]")
	assert.NoDirExists(t, env.path("ops"))
}

func TestBrowseFocus(t *testing.T) {
	env := setupEnv(t)

	script := "cd ops\nfocus move.py\nopen move.py\nopen scale.py\nfocus move.py\nquit\n"
	out, err := run(t, script, "browse", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "is not open")
	assert.Contains(t, out, env.path("ops/move.py"))
}

func TestBrowseStopsAtEndOfInput(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, "up\n", "browse", "--root", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "CANNOT_NAVIGATE_ABOVE_ROOT")
}

func TestParseSet(t *testing.T) {
	ctx, err := parseSet([]string{"a=1", "b=x=y", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "empty": ""}, ctx)

	_, err = parseSet([]string{"=1"})
	assert.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
}

func TestHelpTopics(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "roots")
	assert.Contains(t, out, "trash")

	out, err = run(t, "", "help", "trash")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}
