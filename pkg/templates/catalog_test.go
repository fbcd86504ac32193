package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/testutil"
)

var builtinNames = []string{"addon_init.py", "blank.py", "keymap.py", "operator.py", "panel.py"}

func newCatalog(t *testing.T, tree testutil.FileTree) (*testutil.TestEnvironment, *Catalog) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	if tree != nil {
		env.WithFileTree(testutil.FileTree{"templates": tree})
	}
	c, err := NewCatalog(env.FS, CatalogOptions{Dir: env.Path("templates")})
	require.NoError(t, err)
	require.NoError(t, c.Load())
	return env, c
}

func TestBuiltins(t *testing.T) {
	_, c := newCatalog(t, nil)

	assert.Equal(t, builtinNames, c.Names())
	for _, tmpl := range c.List() {
		assert.Equal(t, SourceBuiltin, tmpl.Source, tmpl.Name)
		assert.NotEmpty(t, tmpl.Description, tmpl.Name)
	}
}

func TestBuiltinsRenderWithDefaults(t *testing.T) {
	_, c := newCatalog(t, nil)
	engine := NewEngine(c, map[string]string{"author": ""})

	for _, name := range builtinNames {
		out, err := engine.Render(name, nil)
		require.NoError(t, err, name)
		assert.NotContains(t, out, "{class_name", name)
		assert.NotContains(t, out, "{label", name)
	}
}

func TestOperatorTemplate(t *testing.T) {
	_, c := newCatalog(t, nil)

	tmpl, err := c.Get("operator")
	require.NoError(t, err)
	out, err := Render(tmpl, map[string]string{"class_name": "MESH_OT_spin", "label": "Spin"})
	require.NoError(t, err)

	assert.Contains(t, out, "class MESH_OT_spin(bpy.types.Operator):")
	assert.Contains(t, out, "bpy.utils.register_class(MESH_OT_spin)")
	assert.Contains(t, out, `bl_label = "Spin"`)
	assert.Contains(t, out, "bl_options = {'REGISTER', 'UNDO'}")
}

func TestUserTemplates(t *testing.T) {
	_, c := newCatalog(t, testutil.FileTree{
		"tool.py":    "# {tool}\n",
		"blank.py":   "# my blank\n",
		"notes.txt":  "ignored",
		".hidden.py": "ignored",
		"nested":     testutil.FileTree{"deep.py": "ignored"},
		ManifestName: "[\"tool.py\"]\ndescription = \"Tool stub\"\n[\"tool.py\".defaults]\ntool = \"hammer\"\n",
	})

	assert.Equal(t, []string{"addon_init.py", "blank.py", "keymap.py", "operator.py", "panel.py", "tool.py"}, c.Names())

	tool, err := c.Get("tool.py")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, tool.Source)
	assert.Equal(t, "Tool stub", tool.Description)
	assert.Equal(t, map[string]string{"tool": "hammer"}, tool.Defaults)

	out, err := Render(tool, nil)
	require.NoError(t, err)
	assert.Equal(t, "# hammer\n", out)

	blank, err := c.Get("blank.py")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, blank.Source)
	assert.Equal(t, "# my blank\n", blank.Body)
	assert.Equal(t, "Empty script file", blank.Description)
}

func TestInvalidManifest(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly).
		WithFileTree(testutil.FileTree{"templates": testutil.FileTree{ManifestName: "not = [valid"}})
	c, err := NewCatalog(env.FS, CatalogOptions{Dir: env.Path("templates")})
	require.NoError(t, err)

	testutil.AssertErrorCode(t, c.Load(), errors.ErrTemplateInvalid)
}

func TestGetMissing(t *testing.T) {
	_, c := newCatalog(t, nil)
	_, err := c.Get("nope.py")
	testutil.AssertErrorCode(t, err, errors.ErrTemplateNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	_, c := newCatalog(t, nil)
	tmpl, err := c.Get("addon_init.py")
	require.NoError(t, err)
	tmpl.Defaults["category"] = "changed"
	tmpl.Body = ""

	again, err := c.Get("addon_init.py")
	require.NoError(t, err)
	assert.Equal(t, "Object", again.Defaults["category"])
	assert.NotEmpty(t, again.Body)
}

func TestAddAndRemove(t *testing.T) {
	env, c := newCatalog(t, nil)

	added, err := c.Add("snippet", "# {what}\n")
	require.NoError(t, err)
	assert.Equal(t, "snippet.py", added.Name)
	assert.Equal(t, "# {what}\n", env.ReadFile("templates", "snippet.py"))
	assert.Contains(t, c.Names(), "snippet.py")

	require.NoError(t, c.Remove("snippet.py"))
	assert.NotContains(t, c.Names(), "snippet.py")
	assert.False(t, env.Exists("templates", "snippet.py"))

	testutil.AssertErrorCode(t, c.Remove("snippet.py"), errors.ErrTemplateNotFound)
}

func TestRemoveBuiltin(t *testing.T) {
	_, c := newCatalog(t, nil)
	testutil.AssertErrorCode(t, c.Remove("panel.py"), errors.ErrInvalidInput)
}

func TestRemoveOverrideRestoresBuiltin(t *testing.T) {
	_, c := newCatalog(t, testutil.FileTree{"panel.py": "# mine\n"})

	require.NoError(t, c.Remove("panel.py"))
	panel, err := c.Get("panel.py")
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, panel.Source)
}

func TestAddRejects(t *testing.T) {
	_, c := newCatalog(t, nil)

	_, err := c.Add("bad/name.py", "")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidName)

	_, err = c.Add("notes.txt", "")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidName)

	_, err = c.Add(ManifestName, "")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidName)

	noDir, err := NewCatalog(testutil.NewMemoryFS(), CatalogOptions{})
	require.NoError(t, err)
	_, err = noDir.Add("x.py", "")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
}

func TestEngineVariables(t *testing.T) {
	_, c := newCatalog(t, nil)
	clock := func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	engine := NewEngine(c, map[string]string{"author": "Jo", "studio": "Acme"}).WithClock(clock)

	vars := engine.Variables()
	assert.Equal(t, "2024-03-09", vars["date"])
	assert.Equal(t, "2024", vars["year"])
	assert.Equal(t, "Jo", vars["author"])
	assert.Equal(t, "Acme", vars["studio"])

	out, err := engine.RenderTemplate(New("h", "# (c) {year} {author}, {studio}"), nil)
	require.NoError(t, err)
	assert.Equal(t, "# (c) 2024 Jo, Acme", out)

	out, err = engine.RenderTemplate(New("h", "{year}"), map[string]string{"year": "1999"})
	require.NoError(t, err)
	assert.Equal(t, "1999", out)
}

func TestEngineEmptyAuthorFallsBackToUser(t *testing.T) {
	_, c := newCatalog(t, nil)
	vars := NewEngine(c, map[string]string{"author": ""}).Variables()
	assert.Equal(t, vars["user"], vars["author"])
}

func TestEngineStrict(t *testing.T) {
	_, c := newCatalog(t, nil)
	engine := NewEngine(c, nil).WithStrict(true)

	_, err := engine.Render("panel.py", map[string]string{"bogus": "x"})
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
}
