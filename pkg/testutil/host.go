package testutil

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// MockDocument is the handle MockHost hands out.
type MockDocument struct {
	DocPath string
	Content string
	Dirty   bool
}

func (d *MockDocument) Path() string { return d.DocPath }

// Insertion records one Insert call.
type Insertion struct {
	Path     string
	Text     string
	AtCursor bool
}

// MockHost implements types.DocumentHost and types.DocumentStatus.
type MockHost struct {
	mu sync.Mutex

	Active     *MockDocument
	Documents  map[string]*MockDocument
	Opened     []string
	Insertions []Insertion

	// OpenErr is returned by OpenDocument when set.
	OpenErr error
	// InsertErr is returned by Insert when set.
	InsertErr error
}

// NewMockHost returns a host with no documents.
func NewMockHost() *MockHost {
	return &MockHost{Documents: map[string]*MockDocument{}}
}

// WithActive opens path and makes it the focused document.
func (h *MockHost) WithActive(path string) *MockHost {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc := h.document(path)
	h.Active = doc
	return h
}

// MarkDirty flags the document at path as having unsaved changes.
func (h *MockHost) MarkDirty(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.document(path).Dirty = true
}

func (h *MockHost) document(path string) *MockDocument {
	doc, ok := h.Documents[path]
	if !ok {
		doc = &MockDocument{DocPath: path}
		h.Documents[path] = doc
	}
	return doc
}

func (h *MockHost) ActiveDocumentPath() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Active == nil || h.Active.DocPath == "" {
		return "", false
	}
	return h.Active.DocPath, true
}

func (h *MockHost) ActiveDocument() (types.DocumentHandle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Active == nil {
		return nil, false
	}
	return h.Active, true
}

func (h *MockHost) OpenDocument(path string) (types.DocumentHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.OpenErr != nil {
		return nil, h.OpenErr
	}
	doc := h.document(path)
	h.Active = doc
	h.Opened = append(h.Opened, path)
	return doc, nil
}

func (h *MockHost) Insert(handle types.DocumentHandle, text string, atCursor bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.InsertErr != nil {
		return h.InsertErr
	}
	doc, ok := handle.(*MockDocument)
	if !ok {
		return fmt.Errorf("foreign document handle %T", handle)
	}
	doc.Content += text
	doc.Dirty = true
	h.Insertions = append(h.Insertions, Insertion{Path: doc.DocPath, Text: text, AtCursor: atCursor})
	return nil
}

func (h *MockHost) IsOpen(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.Documents[path]
	return ok
}

func (h *MockHost) IsDirty(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, ok := h.Documents[path]
	return ok && doc.Dirty
}

var (
	_ types.DocumentHost   = (*MockHost)(nil)
	_ types.DocumentStatus = (*MockHost)(nil)
)
