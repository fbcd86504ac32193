package templates

import (
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Insert puts text into the host's active document, at the cursor or
// appended at the end. Fails with NO_ACTIVE_DOCUMENT when nothing is
// focused.
func Insert(host types.DocumentHost, text string, atCursor bool) error {
	if host == nil {
		return errors.New(errors.ErrNoActiveDocument, "no document host")
	}
	doc, ok := host.ActiveDocument()
	if !ok || doc == nil {
		return errors.New(errors.ErrNoActiveDocument, "no active document to insert into")
	}

	if err := host.Insert(doc, text, atCursor); err != nil {
		var be *errors.BrowserError
		if errors.As(err, &be) {
			return be
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to insert into %s", doc.Path()).
			WithDetail("path", doc.Path())
	}

	logger := logging.GetLogger("templates")
	logger.Info().
		Str("document", doc.Path()).
		Bool("at_cursor", atCursor).
		Int("bytes", len(text)).
		Msg("Inserted text")
	return nil
}
