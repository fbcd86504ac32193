package trash

import (
	"os"
	"path/filepath"

	"github.com/Bios-Marcel/wastebasket/v2"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/filesystem"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Trasher moves one path to a trash and returns the name it got there.
type Trasher interface {
	Trash(path string) (string, error)
}

// System is the platform trash: the Recycle Bin on Windows, the Finder
// trash on macOS and the freedesktop trash of the file's volume elsewhere.
// It only works on the real filesystem.
type System struct{}

// Trash moves path to the platform trash.
func (System) Trash(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTrash, "cannot resolve %s", path)
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", errors.FromFS(err, errors.ErrNotFound, abs)
	}
	if err := wastebasket.Trash(abs); err != nil {
		return "", errors.Wrapf(err, errors.ErrTrash, "cannot move %s to the trash", abs)
	}

	logger := logging.GetLogger("trash")
	logger.Info().Str("path", abs).Msg("Moved to system trash")
	return filepath.Base(abs), nil
}

// For picks the trash used for deletes on fsys. A non-empty dir selects
// the freedesktop trash rooted there. Otherwise the OS filesystem uses the
// System trash and any other filesystem its own home trash.
func For(fsys types.FS, dir string) Trasher {
	switch {
	case dir != "":
		return New(fsys, dir)
	case filesystem.IsOS(fsys):
		return System{}
	default:
		return Home(fsys)
	}
}
