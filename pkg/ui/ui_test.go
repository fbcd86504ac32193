package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/fileops"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/arthur-debert/scriptbrowser/pkg/ui"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

func sampleListing() *views.Listing {
	return &views.Listing{
		Root:  "/addon",
		Dir:   ".",
		State: "browsing",
		Entries: []types.Entry{
			{Name: "ops", Kind: types.KindFolder, Path: "/addon/ops", RelPath: "ops"},
			{Name: "panel.py", Kind: types.KindFile, Path: "/addon/panel.py", RelPath: "panel.py", Open: true, Dirty: true},
			{Name: "icon.png", Kind: types.KindFile, Path: "/addon/ops/icon.png", RelPath: "ops/icon.png", Level: 1},
		},
		Notices: []types.Notice{types.NewNotice("create", "Created %s", "panel.py")},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{name: "terminal", format: ui.FormatTerminal},
		{name: "text", format: ui.FormatText},
		{name: "json", format: ui.FormatJSON},
		{name: "yaml", format: ui.FormatYAML},
		{name: "auto with buffer", format: ui.FormatAuto},
		{name: "invalid format", format: ui.Format(999), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}
}

func TestAutoWithBufferIsPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatAuto, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(sampleListing()))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRendererInterface(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatTerminal, ui.FormatText, ui.FormatJSON, ui.FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			renderer, err := ui.NewRenderer(format, buf)
			require.NoError(t, err)

			assert.NoError(t, renderer.RenderMessage("test message"))
			assert.NoError(t, renderer.RenderError(assert.AnError))
			assert.NoError(t, renderer.RenderResult(sampleListing()))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	t.Run("listing", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleListing()))

		var got struct {
			Root    string `json:"root"`
			Entries []struct {
				Name  string `json:"name"`
				Kind  string `json:"kind"`
				Dirty bool   `json:"dirty"`
			} `json:"entries"`
			Notices []struct {
				Level string `json:"level"`
			} `json:"notices"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "/addon", got.Root)
		require.Len(t, got.Entries, 3)
		assert.Equal(t, "folder", got.Entries[0].Kind)
		assert.True(t, got.Entries[1].Dirty)
		assert.Equal(t, "info", got.Notices[0].Level)
	})

	t.Run("coded error", func(t *testing.T) {
		buf.Reset()
		err := errors.New(errors.ErrNotFound, "gone").WithDetail("path", "/addon/x.py")
		require.NoError(t, renderer.RenderError(err))

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "gone", got["error"])
		assert.Equal(t, "NOT_FOUND", got["code"])
		assert.Equal(t, map[string]interface{}{"path": "/addon/x.py"}, got["details"])
	})

	t.Run("plain error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))

		var got map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, assert.AnError.Error(), got["error"])
	})
}

func TestYAMLRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatYAML, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(&views.Roots{Active: "/a", Roots: []string{"/a", "/b"}}))
	require.NoError(t, renderer.RenderMessage("done"))

	docs := strings.Split(buf.String(), "---\n")
	require.Len(t, docs, 2)

	var roots views.Roots
	require.NoError(t, yaml.Unmarshal([]byte(docs[0]), &roots))
	assert.Equal(t, []string{"/a", "/b"}, roots.Roots)
	assert.Equal(t, "/a", roots.Active)

	var msg map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(docs[1]), &msg))
	assert.Equal(t, "done", msg["message"])
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	t.Run("message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))
		assert.Equal(t, "hello world\n", buf.String())
	})

	t.Run("plain error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))
		assert.Equal(t, "Error: assert.AnError general error for testing\n", buf.String())
	})

	t.Run("coded error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(errors.New(errors.ErrAlreadyExists, "a.py already exists")))
		assert.Equal(t, "Error [ALREADY_EXISTS]: a.py already exists\n", buf.String())
	})

	t.Run("listing", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleListing()))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "/addon\n"))
		assert.Contains(t, out, "▸ ops/")
		assert.Contains(t, out, "\n  panel.py    script [open] [modified]\n")
		assert.Contains(t, out, "\n    icon.png  image\n")
		assert.Contains(t, out, "• Created panel.py\n")
	})

	t.Run("search listing", func(t *testing.T) {
		buf.Reset()
		l := &views.Listing{Root: "/addon", Dir: "ops", Query: "zzz", State: "searching"}
		require.NoError(t, renderer.RenderResult(l))
		assert.Equal(t, "/addon › ops  search: \"zzz\"\n(no matches)\n", buf.String())
	})

	t.Run("deletion", func(t *testing.T) {
		buf.Reset()
		d := views.NewDeletion([]fileops.DeleteResult{
			{Entry: types.Entry{Name: "a.py"}, Disposition: fileops.Disposition{Method: fileops.MethodTrashed}},
			{Entry: types.Entry{Name: "b.py"}, Disposition: fileops.Disposition{Method: fileops.MethodRemoved, TrashFailed: true}},
			{Entry: types.Entry{Name: "ops"}, Err: errors.New(errors.ErrConfirmationRequired, "ops is not empty")},
		}, true)
		require.NoError(t, renderer.RenderResult(d))
		assert.Equal(t, 0, d.Failed())
		assert.Equal(t, "✓ a.py moved to trash\n! b.py deleted permanently (trash unavailable)\n- ops (kept)\n", buf.String())
	})

	t.Run("entry change", func(t *testing.T) {
		buf.Reset()
		change := &views.EntryChange{Action: "renamed", From: "a.py", Entry: types.Entry{Name: "b.py", RelPath: "b.py"}}
		require.NoError(t, renderer.RenderResult(change))
		assert.Equal(t, "Renamed a.py → b.py\n", buf.String())

		buf.Reset()
		created := &views.EntryChange{Action: "created", Entry: types.Entry{Name: "ops", Kind: types.KindFolder, RelPath: "ops"}}
		require.NoError(t, renderer.RenderResult(created))
		assert.Equal(t, "Created folder ops\n", buf.String())
	})

	t.Run("roots", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(&views.Roots{Active: "/b", Roots: []string{"/a", "/b"}}))
		assert.Equal(t, "  /a\n* /b\n", buf.String())
	})

	t.Run("unknown result type", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(map[string]string{"foo": "bar"}))
		assert.Contains(t, buf.String(), "map[foo:bar]")
	})
}

func TestTerminalRendererStyles(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatTerminal, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderError(errors.New(errors.ErrNotFound, "gone")))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "gone")
}
