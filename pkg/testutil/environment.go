// pkg/testutil/environment.go
// DEPENDENCIES: pkg/filesystem
// PURPOSE: Orchestrate test environments with a populated browsing root

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scriptbrowser/pkg/filesystem"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// MemoryRoot is the browsing root used by memory environments.
const MemoryRoot = "/work"

// TestEnvironment is a browsing root on a test filesystem.
type TestEnvironment struct {
	Root string
	FS   types.FS
	// Memory is set for EnvMemoryOnly and allows error injection.
	Memory *MemoryFS
	Type   EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment with an empty root.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}
	switch envType {
	case EnvMemoryOnly:
		env.Memory = NewMemoryFS()
		env.FS = env.Memory
		env.Root = MemoryRoot
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		root, err := filepath.EvalSymlinks(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to resolve temp dir: %v", err)
		}
		env.Root = root
	default:
		t.Fatalf("unknown environment type %d", envType)
	}

	if err := env.FS.MkdirAll(env.Root, 0755); err != nil {
		t.Fatalf("Failed to create root %s: %v", env.Root, err)
	}
	return env
}

// WithFileTree creates tree below the root.
func (env *TestEnvironment) WithFileTree(tree FileTree) *TestEnvironment {
	env.t.Helper()
	CreateFileTree(env.t, env.FS, env.Root, tree)
	return env
}

// Path joins elems onto the root.
func (env *TestEnvironment) Path(elems ...string) string {
	return filepath.Join(append([]string{env.Root}, elems...)...)
}

// Exists reports whether the path below the root exists.
func (env *TestEnvironment) Exists(elems ...string) bool {
	_, err := env.FS.Lstat(env.Path(elems...))
	return err == nil
}

// ReadFile returns the content of a file below the root.
func (env *TestEnvironment) ReadFile(elems ...string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(env.Path(elems...))
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", env.Path(elems...), err)
	}
	return string(data)
}

// FileTree represents a directory structure for testing: string values
// are file contents, FileTree values are folders.
type FileTree map[string]interface{}

// CreateFileTree recursively creates a file tree
func CreateFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	if err := fs.MkdirAll(basePath, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", basePath, err)
	}

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			CreateFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// AddonTree is a small add-on project used across packages.
func AddonTree() FileTree {
	return FileTree{
		"__init__.py":           "bl_info = {\"name\": \"demo\"}\n",
		"blender_manifest.toml": "id = \"demo\"\n",
		"README.md":             "# demo\n",
		"Operators.py":          "import bpy\n",
		"panel.py":              "import bpy\n",
		".hidden.py":            "secret = 1\n",
		"ops": FileTree{
			"move.py":  "# move\n",
			"scale.py": "# scale\n",
			"util": FileTree{
				"math_helpers.py": "# helpers\n",
			},
		},
		"Assets": FileTree{
			"icon.png": "PNG",
		},
		".git": FileTree{
			"HEAD": "ref: refs/heads/main\n",
		},
	}
}
