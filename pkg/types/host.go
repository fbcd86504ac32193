package types

// DocumentHandle identifies a document owned by the host editor.
type DocumentHandle interface {
	// Path is the filesystem path backing the document, empty for
	// unsaved buffers.
	Path() string
}

// DocumentHost is the only way the browser touches editor state.
type DocumentHost interface {
	// ActiveDocumentPath returns the path of the focused document, if any.
	ActiveDocumentPath() (string, bool)

	// ActiveDocument returns the focused editable document, if any.
	ActiveDocument() (DocumentHandle, bool)

	// OpenDocument opens (or focuses) the document at path.
	OpenDocument(path string) (DocumentHandle, error)

	// Insert places text at the cursor, or at the end of the document
	// when atCursor is false.
	Insert(doc DocumentHandle, text string, atCursor bool) error
}

// DocumentStatus is an optional host capability used to decorate
// entries with open and unsaved markers.
type DocumentStatus interface {
	IsOpen(path string) bool
	IsDirty(path string) bool
}
