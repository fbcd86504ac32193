// Package host provides FileHost, a headless document host. Documents
// are files read into memory; edits stay in the buffer until saved.
package host

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Cursor is a 1-based line and column (in runes).
type Cursor struct {
	Line int `json:"line" yaml:"line"`
	Col  int `json:"col" yaml:"col"`
}

// Document is a buffer backed by a file.
type Document struct {
	path    string
	content string
	cursor  int // byte offset
	dirty   bool
}

func (d *Document) Path() string { return d.path }

// Content returns the buffer.
func (d *Document) Content() string { return d.content }

// Dirty reports unsaved changes.
func (d *Document) Dirty() bool { return d.dirty }

// Cursor returns the cursor position.
func (d *Document) Cursor() Cursor {
	before := d.content[:d.cursor]
	line := strings.Count(before, "\n") + 1
	start := strings.LastIndexByte(before, '\n') + 1
	return Cursor{Line: line, Col: utf8.RuneCountInString(before[start:]) + 1}
}

// offset converts c to a byte offset, clamping to the buffer.
func (d *Document) offset(c Cursor) int {
	if c.Line < 1 {
		return 0
	}
	pos := 0
	for line := 1; line < c.Line; line++ {
		i := strings.IndexByte(d.content[pos:], '\n')
		if i < 0 {
			return len(d.content)
		}
		pos += i + 1
	}
	end := strings.IndexByte(d.content[pos:], '\n')
	if end < 0 {
		end = len(d.content)
	} else {
		end += pos
	}
	for col := 1; col < c.Col && pos < end; col++ {
		_, size := utf8.DecodeRuneInString(d.content[pos:])
		pos += size
	}
	return pos
}

// FileHost implements types.DocumentHost and types.DocumentStatus.
type FileHost struct {
	fs     types.FS
	docs   map[string]*Document
	active *Document
}

// New creates a host with no open documents.
func New(fsys types.FS) *FileHost {
	return &FileHost{fs: fsys, docs: map[string]*Document{}}
}

func (h *FileHost) ActiveDocumentPath() (string, bool) {
	if h.active == nil {
		return "", false
	}
	return h.active.path, true
}

func (h *FileHost) ActiveDocument() (types.DocumentHandle, bool) {
	if h.active == nil {
		return nil, false
	}
	return h.active, true
}

// OpenDocument loads path, or focuses it when already open. The cursor
// starts at the end of the document.
func (h *FileHost) OpenDocument(path string) (types.DocumentHandle, error) {
	path = filepath.Clean(path)
	if doc, ok := h.docs[path]; ok {
		h.active = doc
		return doc, nil
	}

	info, err := h.fs.Stat(path)
	if err != nil {
		return nil, errors.FromFS(err, errors.ErrNotFound, path)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is a directory", path).WithDetail("path", path)
	}
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return nil, errors.FromFS(err, errors.ErrNotFound, path)
	}

	doc := &Document{path: path, content: string(data), cursor: len(data)}
	h.docs[path] = doc
	h.active = doc
	logger := logging.GetLogger("host")
	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Opened document")
	return doc, nil
}

// Insert adds text at the cursor, or at the end when atCursor is false.
// The cursor ends up after the inserted text.
func (h *FileHost) Insert(handle types.DocumentHandle, text string, atCursor bool) error {
	doc, err := h.own(handle)
	if err != nil {
		return err
	}
	at := len(doc.content)
	if atCursor {
		at = doc.cursor
	}
	doc.content = doc.content[:at] + text + doc.content[at:]
	doc.cursor = at + len(text)
	doc.dirty = true
	return nil
}

// SetCursor moves the cursor of the document at path.
func (h *FileHost) SetCursor(path string, c Cursor) error {
	doc, err := h.document(path)
	if err != nil {
		return err
	}
	doc.cursor = doc.offset(c)
	return nil
}

// Focus makes an open document the active one.
func (h *FileHost) Focus(path string) error {
	doc, err := h.document(path)
	if err != nil {
		return err
	}
	h.active = doc
	return nil
}

// Save writes the document at path back to its file.
func (h *FileHost) Save(path string) error {
	doc, err := h.document(path)
	if err != nil {
		return err
	}
	if err := h.fs.WriteFile(doc.path, []byte(doc.content), 0644); err != nil {
		return errors.FromFS(err, errors.ErrNotFound, doc.path)
	}
	doc.dirty = false
	logger := logging.GetLogger("host")
	logger.Info().Str("path", doc.path).Msg("Saved document")
	return nil
}

// SaveAll saves every dirty document, stopping at the first failure.
func (h *FileHost) SaveAll() error {
	for _, path := range h.Paths() {
		if h.docs[path].dirty {
			if err := h.Save(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close drops the buffer for path, discarding unsaved changes.
func (h *FileHost) Close(path string) {
	path = filepath.Clean(path)
	if doc, ok := h.docs[path]; ok {
		if h.active == doc {
			h.active = nil
		}
		delete(h.docs, path)
	}
}

// Document returns the open document at path.
func (h *FileHost) Document(path string) (*Document, bool) {
	doc, ok := h.docs[filepath.Clean(path)]
	return doc, ok
}

// Paths returns the open document paths sorted.
func (h *FileHost) Paths() []string {
	paths := make([]string, 0, len(h.docs))
	for p := range h.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (h *FileHost) IsOpen(path string) bool {
	_, ok := h.docs[filepath.Clean(path)]
	return ok
}

func (h *FileHost) IsDirty(path string) bool {
	doc, ok := h.docs[filepath.Clean(path)]
	return ok && doc.dirty
}

func (h *FileHost) document(path string) (*Document, error) {
	doc, ok := h.docs[filepath.Clean(path)]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "%s is not open", path).WithDetail("path", path)
	}
	return doc, nil
}

func (h *FileHost) own(handle types.DocumentHandle) (*Document, error) {
	doc, ok := handle.(*Document)
	if !ok || doc == nil || h.docs[doc.path] != doc {
		return nil, errors.New(errors.ErrNoActiveDocument, "document is not open in this host")
	}
	return doc, nil
}

var (
	_ types.DocumentHost   = (*FileHost)(nil)
	_ types.DocumentStatus = (*FileHost)(nil)
)
