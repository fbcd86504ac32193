package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/filesystem"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memTree(t *testing.T, dirs []string, files []string) types.FS {
	t.Helper()
	fsys := filesystem.NewMemory()
	for _, d := range dirs {
		require.NoError(t, fsys.MkdirAll(d, 0755))
	}
	for _, f := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, fsys.WriteFile(f, []byte("# "+f+"\n"), 0644))
	}
	return fsys
}

func TestResolve(t *testing.T) {
	fsys := memTree(t,
		[]string{"/configured", "/home/user"},
		[]string{
			"/proj/addon/__init__.py",
			"/proj/addon/ops/move.py",
			"/proj/addon/ops/deep/x.py",
			"/loose/script.py",
		})

	tests := []struct {
		name       string
		autoDetect bool
		doc        string
		configured string
		want       string
		wantCode   errors.ErrorCode
	}{
		{
			name:       "configured root wins",
			doc:        "/loose/script.py",
			configured: "/configured",
			want:       "/configured",
		},
		{
			name:       "invalid configured root falls through to document",
			doc:        "/loose/script.py",
			configured: "/missing",
			want:       "/loose",
		},
		{
			name:       "configured root that is a file falls through",
			doc:        "/loose/script.py",
			configured: "/loose/script.py",
			want:       "/loose",
		},
		{
			name: "document folder",
			doc:  "/proj/addon/ops/move.py",
			want: "/proj/addon/ops",
		},
		{
			name:       "auto detect finds marked ancestor",
			autoDetect: true,
			doc:        "/proj/addon/ops/deep/x.py",
			want:       "/proj/addon",
		},
		{
			name:       "auto detect without marker keeps document folder",
			autoDetect: true,
			doc:        "/loose/script.py",
			want:       "/loose",
		},
		{
			name:     "nothing set",
			wantCode: errors.ErrNoRootAvailable,
		},
		{
			name:       "only invalid configured root",
			configured: "/missing",
			wantCode:   errors.ErrNoRootAvailable,
		},
		{
			name:     "document in missing folder",
			doc:      "/gone/file.py",
			wantCode: errors.ErrNoRootAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := paths.NewResolver(fsys, paths.ResolverOptions{AutoDetect: tt.autoDetect, Home: "/home/user"})
			got, err := r.Resolve(tt.doc, tt.configured)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	fsys := memTree(t, nil, []string{"/a/b.py"})
	r := paths.NewResolver(fsys, paths.ResolverOptions{})

	first, err := r.Resolve("/a/b.py", "")
	require.NoError(t, err)
	second, err := r.Resolve("/a/b.py", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveWithFallback(t *testing.T) {
	fsys := memTree(t, []string{"/home/user", "/previous"}, nil)

	tests := []struct {
		name         string
		policy       paths.Fallback
		last         string
		want         string
		wantFallback bool
		wantCode     errors.ErrorCode
	}{
		{"last valid root", paths.FallbackLast, "/previous", "/previous", true, ""},
		{"last invalid goes home", paths.FallbackLast, "/deleted", "/home/user", true, ""},
		{"home policy ignores last", paths.FallbackHome, "/previous", "/home/user", true, ""},
		{"none policy fails", paths.FallbackNone, "/previous", "", false, errors.ErrNoRootAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := paths.NewResolver(fsys, paths.ResolverOptions{Fallback: tt.policy, Home: "/home/user"})
			got, fellBack, err := r.ResolveWithFallback("", "/missing", tt.last)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFallback, fellBack)
		})
	}

	t.Run("no fallback when resolvable", func(t *testing.T) {
		r := paths.NewResolver(fsys, paths.ResolverOptions{Home: "/home/user"})
		got, fellBack, err := r.ResolveWithFallback("", "/previous", "")
		require.NoError(t, err)
		assert.Equal(t, "/previous", got)
		assert.False(t, fellBack)
	})
}

func TestJoinWithinLexical(t *testing.T) {
	fsys := memTree(t, []string{"/root/sub"}, nil)

	tests := []struct {
		name     string
		base     string
		elems    []string
		want     string
		wantCode errors.ErrorCode
	}{
		{"child", "/root", []string{"sub"}, "/root/sub", ""},
		{"new name below existing dir", "/root/sub", []string{"new.py"}, "/root/sub/new.py", ""},
		{"root itself", "/root/sub", []string{".."}, "/root", ""},
		{"escape with dotdot", "/root/sub", []string{"..", ".."}, "", errors.ErrOutsideRoot},
		{"sibling with shared prefix", "/root", []string{"..", "rootkit"}, "", errors.ErrOutsideRoot},
		{"absolute base outside", "/etc", []string{"passwd"}, "", errors.ErrOutsideRoot},
		{"relative base joins root", "sub", nil, "/root/sub", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paths.JoinWithin(fsys, "/root", tt.base, tt.elems...)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinWithinSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.MkdirAll(outside, 0755))
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	fsys := filesystem.NewOS()
	r := paths.NewResolver(fsys, paths.ResolverOptions{})
	canonicalRoot, err := r.Canonical(root)
	require.NoError(t, err)

	_, err = r.JoinWithin(canonicalRoot, canonicalRoot, "link")
	assert.Equal(t, errors.ErrOutsideRoot, errors.GetErrorCode(err))

	_, err = r.JoinWithin(canonicalRoot, canonicalRoot, "link", "new.py")
	assert.Equal(t, errors.ErrOutsideRoot, errors.GetErrorCode(err), "missing tail below an escaping link")

	got, err := r.JoinWithin(canonicalRoot, canonicalRoot, "plain.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(canonicalRoot, "plain.py"), got)
}

func TestCanonicalEvaluatesSymlinks(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	require.NoError(t, os.MkdirAll(real, 0755))
	link := filepath.Join(base, "alias")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r := paths.NewResolver(filesystem.NewOS(), paths.ResolverOptions{})
	got, err := r.Resolve("", link)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
